// Package router picks one handler per message and returns its reply.
package router

import "errors"

// Sentinel errors returned by New.
var (
	// ErrNoClassifier indicates no intent classifier was configured.
	ErrNoClassifier = errors.New("router: no classifier configured")

	// ErrNoHandler indicates one of the lookup handlers is missing.
	ErrNoHandler = errors.New("router: missing lookup handler")

	// ErrNoAssistant indicates no LLM client was configured. Every
	// message that matches nothing else needs one.
	ErrNoAssistant = errors.New("router: no assistant configured")
)
