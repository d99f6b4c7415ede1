package dto

import "time"

type ChatSummaryResponse struct {
	ChatId    int64      `json:"chat_id"`
	Title     string     `json:"title"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type CreateChatResponse struct {
	ChatId int64  `json:"chat_id"`
	Title  string `json:"title"`
	UserId int64  `json:"user_id"`
}

type ChatTurnResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type SendMessageRequest struct {
	ChatId         int64  `json:"chat_id" validate:"required,gt=0"`
	MessageContent string `json:"message_content" validate:"required"`
}
