package dto

// ChallengeProgressDTO is one challenge's completion status for a student.
type ChallengeProgressDTO struct {
	ChallengeID uint   `json:"challenge_id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
}

// StudentProgressDTO is a row of the teacher dashboard: a student and
// their per-challenge completion state.
type StudentProgressDTO struct {
	ID         uint                   `json:"id"`
	Name       string                 `json:"name"`
	Image      string                 `json:"image,omitempty"`
	Verified   bool                   `json:"verified"`
	Challenges []ChallengeProgressDTO `json:"challenges"`
}
