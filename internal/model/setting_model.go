package model

import "time"

// Setting holds host-level module configuration. Values are stored
// encrypted (base64 of nonce||ciphertext) and decrypted on read.
type Setting struct {
	Key       string    `gorm:"primaryKey;type:varchar(255)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Setting) TableName() string {
	return "module_settings"
}
