package assistant

import "errors"

// Sentinel errors for client construction.
var (
	// ErrNoProvider indicates the client was built without an LLM provider.
	ErrNoProvider = errors.New("assistant: no provider configured")

	// ErrNoHistory indicates the client was built without a history store.
	ErrNoHistory = errors.New("assistant: no history store configured")
)
