package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLStore persists ledger snapshots in the embedded database, keyed by a
// namespaced identifier so several ledgers (per account, per property) can
// share one table.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore creates a ledger store over db.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Load(ctx context.Context, key string) (State, bool, error) {
	query := `
		SELECT credits_remaining, total_included, active_tier
		FROM ledger_states
		WHERE key = ?
	`

	var state State
	err := s.db.QueryRowxContext(ctx, query, key).StructScan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("failed to load ledger state: %w", err)
	}

	return state, true, nil
}

func (s *SQLStore) Save(ctx context.Context, key string, state State) error {
	query := `
		INSERT INTO ledger_states (key, credits_remaining, total_included, active_tier, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			credits_remaining = excluded.credits_remaining,
			total_included = excluded.total_included,
			active_tier = excluded.active_tier,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		key, state.CreditsRemaining, state.TotalIncluded, state.ActiveTier, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save ledger state: %w", err)
	}

	return nil
}

// Decrement spends one credit in a single conditional UPDATE. The guard in
// the WHERE clause makes the check-then-spend atomic across every process
// sharing the database file.
func (s *SQLStore) Decrement(ctx context.Context, key string) (State, error) {
	query := `
		UPDATE ledger_states
		SET credits_remaining = credits_remaining - 1, updated_at = ?
		WHERE key = ? AND active_tier IS NOT NULL AND credits_remaining > 0
	`

	res, err := s.db.ExecContext(ctx, query, time.Now().UTC(), key)
	if err != nil {
		return State{}, fmt.Errorf("failed to decrement ledger state: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return State{}, fmt.Errorf("failed to decrement ledger state: %w", err)
	}

	state, found, err := s.Load(ctx, key)
	if err != nil {
		return State{}, err
	}

	if affected == 0 {
		if !found || state.ActiveTier == nil {
			return state, ErrNotSubscribed
		}
		return state, ErrExhausted
	}

	return state, nil
}
