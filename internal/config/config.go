package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Upstream UpstreamConfig
	Secrets  SecretsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type UpstreamConfig struct {
	Endpoint string
	Timeout  time.Duration
}

type SecretsConfig struct {
	// Hex-encoded 32-byte key used to decrypt settings values at rest.
	EncryptionKey string
	CredentialTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/chat-api.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Upstream: UpstreamConfig{
			Endpoint: getEnv("HIPAAI_ENDPOINT", "https://api.hipaai.com/v1/redact"),
			Timeout:  time.Duration(getEnvAsInt("HIPAAI_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Secrets: SecretsConfig{
			EncryptionKey: getEnv("SETTINGS_ENCRYPTION_KEY", ""),
			CredentialTTL: time.Duration(getEnvAsInt("CREDENTIAL_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
