package model

import (
	"time"

	"gorm.io/gorm"
)

type ChatMessage struct {
	Id            int64          `gorm:"primaryKey;autoIncrement"`
	ChatSessionId int64          `gorm:"not null;index"`
	UserId        int64          `gorm:"not null"`
	Sender        string         `gorm:"type:varchar(50);not null"`
	Content       string         `gorm:"type:text;not null"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
