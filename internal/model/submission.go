package model

import (
	"time"
)

// Submission is the pending-review record created when a student's flag
// check succeeds. It lives only until a teacher accepts it. The ID is a
// UUID so the review link cannot be guessed, and (StudentID, ChallengeID)
// is unique so repeated correct submissions reuse the same record.
type Submission struct {
	ID          string    `gorm:"primarykey;size:36" json:"id"`
	ChallengeID uint      `gorm:"not null;index;uniqueIndex:idx_submission_student_challenge" json:"challenge_id"`
	Challenge   Challenge `json:"challenge,omitempty" gorm:"foreignKey:ChallengeID"`
	StudentID   uint      `gorm:"not null;uniqueIndex:idx_submission_student_challenge" json:"student_id"`
	Student     User      `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	CreatedAt   time.Time `json:"created_at"`
}
