package model

import (
	"time"

	"gorm.io/gorm"
)

type ChatSession struct {
	Id        int64          `gorm:"primaryKey;autoIncrement"`
	UserId    int64          `gorm:"not null;index"` // User ownership for data isolation
	Title     string         `gorm:"type:text;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
