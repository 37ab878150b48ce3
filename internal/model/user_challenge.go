package model

import (
	"time"
)

const (
	CompletionNotStarted = "NOT_STARTED"
	CompletionCompleted  = "COMPLETED"
)

// UserChallengeCompletion tracks whether a challenge has been credited to
// a student. A NOT_STARTED row is seeded for every student when a
// challenge is created; accepting a submission only ever updates the
// existing row, so a missing row fails the accept.
type UserChallengeCompletion struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_challenge" json:"user_id"`
	ChallengeID uint      `gorm:"not null;uniqueIndex:idx_user_challenge" json:"challenge_id"`
	Challenge   Challenge `json:"challenge,omitempty" gorm:"foreignKey:ChallengeID"`
	Status      string    `gorm:"not null;default:'NOT_STARTED'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
