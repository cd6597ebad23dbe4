package domain

import "errors"

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrAlreadyAccepted   = errors.New("item already accepted")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("caller is not allowed to perform this transition")

	// ErrConversationBootstrap marks a partial failure: the item was
	// accepted but the conversation channel could not be opened. The
	// acceptance itself stands; the caller must retry the conversation.
	ErrConversationBootstrap = errors.New("item accepted but conversation setup failed")
)
