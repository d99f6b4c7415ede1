package specification

import "gorm.io/gorm"

type ByChatSessionID struct {
	ChatSessionID int64
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}
