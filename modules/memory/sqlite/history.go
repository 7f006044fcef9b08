package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/riosspedro/rios/internal/memory"
)

// HistoryStore implements memory.HistoryStore backed by SQLite.
type HistoryStore struct {
	db *sql.DB
}

var _ memory.HistoryStore = (*HistoryStore)(nil)

// Append adds a turn to the scope's history.
func (h *HistoryStore) Append(ctx context.Context, scope string, turn memory.Turn) error {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO turns (scope, seq, role, content)
		VALUES (?, COALESCE((SELECT MAX(seq) FROM turns WHERE scope = ?), 0) + 1, ?, ?)`,
		scope, scope, string(turn.Role), turn.Content,
	)
	if err != nil {
		return fmt.Errorf("sqlite: append turn: %w", err)
	}
	return nil
}

// Recent returns the n most recent turns for a scope, oldest first.
func (h *HistoryStore) Recent(ctx context.Context, scope string, n int) ([]memory.Turn, error) {
	if n <= 0 {
		return nil, nil
	}

	turns, err := h.query(ctx, `
		SELECT role, content FROM turns
		WHERE scope = ?
		ORDER BY seq DESC
		LIMIT ?`, scope, n)
	if err != nil {
		return nil, fmt.Errorf("sqlite: recent: %w", err)
	}

	slices.Reverse(turns)
	return turns, nil
}

// All returns all turns for a scope in chronological order.
func (h *HistoryStore) All(ctx context.Context, scope string) ([]memory.Turn, error) {
	turns, err := h.query(ctx, `
		SELECT role, content FROM turns
		WHERE scope = ?
		ORDER BY seq ASC`, scope)
	if err != nil {
		return nil, fmt.Errorf("sqlite: all: %w", err)
	}
	return turns, nil
}

// Len returns the number of turns stored for a scope.
func (h *HistoryStore) Len(ctx context.Context, scope string) (int, error) {
	var count int
	err := h.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM turns WHERE scope = ?", scope,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: count turns: %w", err)
	}
	return count, nil
}

// Close releases the underlying database.
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

func (h *HistoryStore) query(ctx context.Context, q string, args ...any) ([]memory.Turn, error) {
	rows, err := h.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var turns []memory.Turn
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, memory.Turn{Role: memory.Role(role), Content: content})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return turns, nil
}
