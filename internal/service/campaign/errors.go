package campaign

import "errors"

// Sentinel errors for the campaign service layer.
var (
	ErrNotFound          = errors.New("campaign not found")
	ErrUnknownTemplate   = errors.New("unknown message template")
	ErrNoParticipants    = errors.New("campaign has no participants")
	ErrInvalidTransition = errors.New("invalid status transition")
)
