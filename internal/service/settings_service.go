package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"hipaai-chat-be/internal/apperror"
	"hipaai-chat-be/internal/config"
	"hipaai-chat-be/internal/constant"
	"hipaai-chat-be/internal/repository/unitofwork"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/chacha20poly1305"
)

// ISettingsService hands out host-level module settings. Values live
// encrypted in the settings table; decrypted credentials are cached with a
// short TTL so send-message does not hit the table on every call.
type ISettingsService interface {
	UpstreamAPIKey(ctx context.Context) (string, error)
}

type settingsService struct {
	uowFactory unitofwork.RepositoryFactory
	key        []byte
	cache      *gocache.Cache
}

func NewSettingsService(uowFactory unitofwork.RepositoryFactory, cfg config.SecretsConfig) (ISettingsService, error) {
	key, err := hex.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("decode settings encryption key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("settings encryption key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}

	return &settingsService{
		uowFactory: uowFactory,
		key:        key,
		cache:      gocache.New(cfg.CredentialTTL, 2*cfg.CredentialTTL),
	}, nil
}

func (s *settingsService) UpstreamAPIKey(ctx context.Context) (string, error) {
	if cached, found := s.cache.Get(constant.SettingUpstreamAPIKey); found {
		return cached.(string), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	setting, err := uow.SettingRepository().FindByKey(ctx, constant.SettingUpstreamAPIKey)
	if err != nil {
		return "", apperror.Persistence("Failed to read module settings.", err)
	}
	if setting == nil || setting.Value == "" {
		return "", apperror.Internal("Upstream credential is not configured.", nil)
	}

	apiKey, err := DecryptSettingValue(s.key, setting.Value)
	if err != nil {
		return "", apperror.Internal("Upstream credential could not be decrypted.", err)
	}

	s.cache.Set(constant.SettingUpstreamAPIKey, apiKey, gocache.DefaultExpiration)
	return apiKey, nil
}

// EncryptSettingValue seals a plaintext into base64(nonce||ciphertext).
// Used when seeding settings and by tests.
func EncryptSettingValue(key []byte, plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func DecryptSettingValue(key []byte, encoded string) (string, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode setting value: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return "", fmt.Errorf("setting value too short")
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open setting value: %w", err)
	}
	return string(plain), nil
}
