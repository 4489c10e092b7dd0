package interaction

import "errors"

// Sentinel errors for the interaction recording layer.
var (
	// ErrNotFound means the identity triple does not resolve against the
	// store: unknown tenant, campaign, or email record. No write occurred.
	ErrNotFound = errors.New("interaction identity not found")

	// ErrInvalidType means the caller passed an interaction type outside
	// the known set. No write occurred.
	ErrInvalidType = errors.New("invalid interaction type")
)
