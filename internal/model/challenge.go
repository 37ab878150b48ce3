package model

import (
	"time"

	"gorm.io/gorm"
)

type Challenge struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `gorm:"not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	URL         string `json:"url"`
	// EncryptedFlag holds the AES-GCM sealed flag, base64 encoded.
	// Never serialized; only the flag sealer reads it back.
	EncryptedFlag string         `gorm:"type:text;not null" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
