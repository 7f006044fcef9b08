// Package memory holds the conversation history used to build LLM prompts.
// History is append-only: turns are never trimmed from storage, callers
// only read a bounded window of the most recent ones.
package memory

import (
	"context"
	"fmt"

	"github.com/riosspedro/rios/internal/provider"
)

// ServiceName is the AppContext service key under which a HistoryStore
// module registers itself.
const ServiceName = "memory.history"

// SharedScope is the scope key used when every caller shares one history.
const SharedScope = ""

// Role identifies who produced a turn.
type Role string

// Role constants for conversation turns.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one stored message of a conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserTurn returns a turn authored by the user.
func UserTurn(content string) Turn { return Turn{Role: RoleUser, Content: content} }

// AssistantTurn returns a turn authored by the assistant.
func AssistantTurn(content string) Turn { return Turn{Role: RoleAssistant, Content: content} }

// Message converts the turn into a provider message.
func (t Turn) Message() provider.LLMMessage {
	return provider.LLMMessage{Role: provider.MessageRole(t.Role), Content: t.Content}
}

// HistoryStore manages conversation history keyed by scope.
// Implementations must be safe for concurrent use.
type HistoryStore interface {
	// Append adds a turn to the end of the scope's history.
	Append(ctx context.Context, scope string, turn Turn) error

	// Recent returns the n most recent turns in chronological order.
	// If fewer than n turns exist, all turns are returned.
	Recent(ctx context.Context, scope string, n int) ([]Turn, error)

	// All returns every stored turn for the scope.
	All(ctx context.Context, scope string) ([]Turn, error)

	// Len returns the number of turns stored for the scope.
	Len(ctx context.Context, scope string) (int, error)
}

// Scoping decides how caller keys map onto history scopes.
type Scoping string

const (
	// ScopingShared maps every caller to SharedScope.
	ScopingShared Scoping = "shared"
	// ScopingSession keeps a separate history per caller key.
	ScopingSession Scoping = "session"
)

// ParseScoping validates s. The empty string means ScopingShared.
func ParseScoping(s string) (Scoping, error) {
	switch Scoping(s) {
	case "", ScopingShared:
		return ScopingShared, nil
	case ScopingSession:
		return ScopingSession, nil
	default:
		return "", fmt.Errorf("memory: unknown scope %q (want %q or %q)", s, ScopingShared, ScopingSession)
	}
}

// Resolve returns the history scope for a caller key.
func (s Scoping) Resolve(key string) string {
	if s == ScopingSession {
		return key
	}
	return SharedScope
}
