package contract

import (
	"context"

	"hipaai-chat-be/internal/entity"
)

type SettingRepository interface {
	FindByKey(ctx context.Context, key string) (*entity.Setting, error)
	Upsert(ctx context.Context, setting *entity.Setting) error
}
