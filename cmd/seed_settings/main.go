package main

import (
	"context"
	"encoding/hex"
	"log"
	"os"
	"time"

	"hipaai-chat-be/internal/constant"
	"hipaai-chat-be/internal/entity"
	"hipaai-chat-be/internal/repository/unitofwork"
	"hipaai-chat-be/internal/service"
	"hipaai-chat-be/pkg/database"

	"github.com/joho/godotenv"
)

// Seeds the encrypted upstream credential into the module settings table.
// Reads the plaintext from HIPAAI_API_KEY and the encryption key from
// SETTINGS_ENCRYPTION_KEY.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	apiKey := os.Getenv("HIPAAI_API_KEY")
	if apiKey == "" {
		log.Fatal("Error: HIPAAI_API_KEY is not set")
	}
	encKey, err := hex.DecodeString(os.Getenv("SETTINGS_ENCRYPTION_KEY"))
	if err != nil {
		log.Fatalf("Error: SETTINGS_ENCRYPTION_KEY is not valid hex: %v", err)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	sealed, err := service.EncryptSettingValue(encKey, apiKey)
	if err != nil {
		log.Fatalf("Error: Failed to encrypt credential: %v", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	err = uow.SettingRepository().Upsert(ctx, &entity.Setting{
		Key:       constant.SettingUpstreamAPIKey,
		Value:     sealed,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		log.Fatalf("Error: Failed to store credential: %v", err)
	}

	log.Println("Upstream credential stored.")
}
