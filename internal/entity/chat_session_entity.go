package entity

import "time"

type ChatSession struct {
	Id        int64
	UserId    int64
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
