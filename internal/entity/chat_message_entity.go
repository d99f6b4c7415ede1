package entity

import "time"

type ChatMessage struct {
	Id            int64
	ChatSessionId int64
	UserId        int64
	Sender        string
	Content       string
	CreatedAt     time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
