package dto

// SubmitFlagRequest is the body students post to the flag listener.
type SubmitFlagRequest struct {
	Flag string `json:"flag" binding:"required"`
}

// CreateChallengeRequest is for teachers authoring a new challenge. The
// flag arrives as plaintext and is encrypted server-side; the shared key
// never travels to a client.
type CreateChallengeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Flag        string `json:"flag" binding:"required"`
	URL         string `json:"url" binding:"required"`
}
