package memory

import (
	"context"
	"sync"
)

// InMemoryHistoryStore is a thread-safe, in-memory implementation of
// HistoryStore. Nothing is ever evicted.
type InMemoryHistoryStore struct {
	mu     sync.RWMutex
	scopes map[string][]Turn
}

// NewInMemoryHistoryStore creates a new empty history store.
func NewInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{
		scopes: make(map[string][]Turn),
	}
}

// Compile-time interface check.
var _ HistoryStore = (*InMemoryHistoryStore)(nil)

// Append adds a turn to the scope's history.
func (s *InMemoryHistoryStore) Append(_ context.Context, scope string, turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scopes[scope] = append(s.scopes[scope], turn)
	return nil
}

// Recent returns a copy of the n most recent turns for a scope.
func (s *InMemoryHistoryStore) Recent(_ context.Context, scope string, n int) ([]Turn, error) {
	if n <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.scopes[scope]
	if n > len(turns) {
		n = len(turns)
	}
	if n == 0 {
		return nil, nil
	}

	result := make([]Turn, n)
	copy(result, turns[len(turns)-n:])
	return result, nil
}

// All returns a copy of every turn for a scope.
func (s *InMemoryHistoryStore) All(_ context.Context, scope string) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns, ok := s.scopes[scope]
	if !ok {
		return nil, nil
	}

	result := make([]Turn, len(turns))
	copy(result, turns)
	return result, nil
}

// Len returns the number of turns stored for a scope.
func (s *InMemoryHistoryStore) Len(_ context.Context, scope string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scopes[scope]), nil
}
