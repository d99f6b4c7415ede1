package integration

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"hipaai-chat-be/internal/apperror"
	"hipaai-chat-be/internal/config"
	"hipaai-chat-be/internal/constant"
	"hipaai-chat-be/internal/dto"
	"hipaai-chat-be/internal/entity"
	"hipaai-chat-be/internal/model"
	"hipaai-chat-be/internal/repository/unitofwork"
	"hipaai-chat-be/internal/service"
	"hipaai-chat-be/pkg/database"
	"hipaai-chat-be/pkg/redactor"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEncryptionKey = "101112131415161718191a1b1c1d1e1f202122232425262728292a2b2c2d2e2f"

func setupChatService(t *testing.T) (service.IChatService, unitofwork.RepositoryFactory) {
	t.Helper()

	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")

	require.NoError(t, gormDB.AutoMigrate(
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.Setting{},
	))

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)

	// Seed the encrypted upstream credential.
	key, err := hex.DecodeString(testEncryptionKey)
	require.NoError(t, err)
	sealed, err := service.EncryptSettingValue(key, "sk-integration")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, uowFactory.NewUnitOfWork(ctx).SettingRepository().Upsert(ctx, &entity.Setting{
		Key:       constant.SettingUpstreamAPIKey,
		Value:     sealed,
		UpdatedAt: time.Now(),
	}))

	settingsService, err := service.NewSettingsService(uowFactory, config.SecretsConfig{
		EncryptionKey: testEncryptionKey,
		CredentialTTL: time.Minute,
	})
	require.NoError(t, err)

	// Stub upstream behind the real HTTP client.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "sk-integration" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "Hi there"})
	}))
	t.Cleanup(upstream.Close)

	redactorClient := redactor.NewClient(upstream.URL, 5*time.Second)

	return service.NewChatService(uowFactory, redactorClient, settingsService), uowFactory
}

func TestChatLifecycle(t *testing.T) {
	svc, _ := setupChatService(t)
	ctx := context.Background()
	userId := time.Now().UnixNano()
	otherUserId := userId + 1

	// Create
	created, err := svc.CreateChat(ctx, userId)
	require.NoError(t, err)
	assert.Greater(t, created.ChatId, int64(0))
	assert.Equal(t, userId, created.UserId)

	// List
	chats, err := svc.GetChats(ctx, userId)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, created.ChatId, chats[0].ChatId)

	// Send
	reply, err := svc.SendMessage(ctx, userId, &dto.SendMessageRequest{
		ChatId:         created.ChatId,
		MessageContent: "Hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "assistant", reply.Role)
	assert.Equal(t, "Hi there", reply.Content)

	// History contains both turns in order
	msgs, err := svc.GetMessages(ctx, userId, created.ChatId)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "Hello", msgs[0].Content)
	assert.Equal(t, "assistant", msgs[1].Role)
	assert.Equal(t, "Hi there", msgs[1].Content)

	// Ownership is enforced for other callers
	_, err = svc.GetMessages(ctx, otherUserId, created.ChatId)
	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.From(err).Kind)

	err = svc.DeleteChat(ctx, otherUserId, created.ChatId)
	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.From(err).Kind)

	// Delete, then everything reads as gone
	require.NoError(t, svc.DeleteChat(ctx, userId, created.ChatId))

	_, err = svc.GetMessages(ctx, userId, created.ChatId)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.From(err).Kind)

	err = svc.DeleteChat(ctx, userId, created.ChatId)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.From(err).Kind)
}

func TestSendMessageRollsBackOnUpstreamFailure(t *testing.T) {
	svc, uowFactory := setupChatService(t)
	ctx := context.Background()
	userId := time.Now().UnixNano()

	created, err := svc.CreateChat(ctx, userId)
	require.NoError(t, err)

	// Separate service wired to a dead upstream.
	settingsService, err := service.NewSettingsService(uowFactory, config.SecretsConfig{
		EncryptionKey: testEncryptionKey,
		CredentialTTL: time.Minute,
	})
	require.NoError(t, err)
	deadSvc := service.NewChatService(uowFactory, redactor.NewClient("http://127.0.0.1:1", time.Second), settingsService)

	_, err = deadSvc.SendMessage(ctx, userId, &dto.SendMessageRequest{
		ChatId:         created.ChatId,
		MessageContent: "Hello",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindUpstreamFailure, apperror.From(err).Kind)

	// The user message must not have been persisted.
	msgs, err := svc.GetMessages(ctx, userId, created.ChatId)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	require.NoError(t, svc.DeleteChat(ctx, userId, created.ChatId))
}
