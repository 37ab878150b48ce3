package service

import "errors"

// Sentinel errors let controllers pick a status code while the external
// message stays generic. The detail only ever reaches the logs.
var (
	ErrInvalidFlag       = errors.New("submitted flag is malformed")
	ErrNoMatch           = errors.New("no challenge matches the submitted flag")
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateName     = errors.New("a challenge with this name already exists")
	ErrDuplicateFlag     = errors.New("this flag is already used by another challenge")
	ErrCompletionMissing = errors.New("no completion record for this student and challenge")
)
