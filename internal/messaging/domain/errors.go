package domain

import "errors"

var (
	ErrThreadNotFound = errors.New("thread not found")
	ErrNotParticipant = errors.New("caller is not a participant of this thread")
	ErrEmptyMessage   = errors.New("message text is empty")
	ErrRateLimited    = errors.New("too many messages, slow down")
)
