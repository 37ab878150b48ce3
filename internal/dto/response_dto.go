package dto

import "time"

// SubmitFlagResponse keeps the wire shape the classroom frontend already
// consumes: Msg is always present, Name and Link only on success.
type SubmitFlagResponse struct {
	Msg  string `json:"Msg"`
	Name string `json:"Name,omitempty"`
	Link string `json:"Link,omitempty"`
}

// ChallengeResponse carries the public summary fields of a challenge.
// The encrypted flag never appears here.
type ChallengeResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type StudentSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// SubmissionDetailResponse renders the review page for a pending
// submission: the matched challenge plus the submitting student.
type SubmissionDetailResponse struct {
	ID        string            `json:"id"`
	Challenge ChallengeResponse `json:"challenge"`
	Student   StudentSummary    `json:"student"`
	CreatedAt time.Time         `json:"created_at"`
}

// CompletionResponse is returned after a submission is accepted.
type CompletionResponse struct {
	UserID      uint   `json:"user_id"`
	ChallengeID uint   `json:"challenge_id"`
	Status      string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
