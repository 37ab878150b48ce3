package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
)

// User mirrors the identity record owned by the external auth service.
// This service never creates or updates users; it only reads them to
// resolve sessions and to seed/report completion state.
type User struct {
	ID          uint                      `gorm:"primarykey" json:"id"`
	Name        string                    `gorm:"not null" json:"name"`
	Image       string                    `json:"image,omitempty"`
	Verified    bool                      `gorm:"not null;default:false" json:"verified"`
	Role        string                    `gorm:"not null;default:'STUDENT'" json:"role"`
	Completions []UserChallengeCompletion `json:"completions,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
	DeletedAt   gorm.DeletedAt            `gorm:"index" json:"-"`
}
