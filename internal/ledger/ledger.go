// Package ledger tracks the consumable report-credit balance tied to an
// active subscription package. It is the single source of truth for credits
// across all dashboard views.
package ledger

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"agriscope/land-portal/land-portal-backend/internal/pricing"
)

var (
	// ErrNotSubscribed signals a report request with no active package. The
	// caller redirects the user toward subscription; this is a business
	// condition, not a failure.
	ErrNotSubscribed = errors.New("no active subscription package")

	// ErrExhausted signals a report request after the credit balance reached
	// zero. Recovery path is re-subscription, never retry.
	ErrExhausted = errors.New("report credits exhausted")
)

// State is the persisted ledger snapshot.
type State struct {
	CreditsRemaining int           `json:"credits_remaining" db:"credits_remaining"`
	TotalIncluded    int           `json:"total_included" db:"total_included"`
	ActiveTier       *pricing.Tier `json:"active_tier" db:"active_tier"`
}

// Store persists ledger state under a namespaced key. The medium is a
// collaborator, not part of the ledger itself. Decrement must be atomic on
// the storage medium: the API server and the alert worker share one database
// file, so the check-then-spend cannot happen in process memory.
type Store interface {
	Load(ctx context.Context, key string) (State, bool, error)
	Save(ctx context.Context, key string, state State) error
	// Decrement atomically spends one credit and returns the resulting
	// snapshot. Returns ErrNotSubscribed or ErrExhausted alongside the
	// current snapshot when no credit can be spent.
	Decrement(ctx context.Context, key string) (State, error)
}

// Ledger guards the credit balance against concurrent decrements; manual
// requests over HTTP and the automated alert poller can race.
type Ledger struct {
	mu     sync.Mutex
	state  State
	store  Store
	key    string
	logger *zap.Logger
}

// New loads the ledger for key from the store, starting Unsubscribed when no
// snapshot exists yet.
func New(ctx context.Context, store Store, key string, logger *zap.Logger) (*Ledger, error) {
	state, found, err := store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		state = State{}
	}

	return &Ledger{
		state:  state,
		store:  store,
		key:    key,
		logger: logger,
	}, nil
}

// Activate (re)subscribes to a tier, refilling credits to the tier's full
// quota. The refill overwrites any remaining balance rather than topping it
// up; the UI layer calls this out to the user.
func (l *Ledger) Activate(ctx context.Context, tier pricing.Tier, quota int) (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.state
	t := tier
	l.state = State{
		CreditsRemaining: quota,
		TotalIncluded:    quota,
		ActiveTier:       &t,
	}

	if err := l.store.Save(ctx, l.key, l.state); err != nil {
		l.state = prev
		return State{}, err
	}

	l.logger.Info("Subscription package activated",
		zap.String("tier", string(tier)),
		zap.Int("credits", quota))

	return l.state, nil
}

// Consume spends one report credit. The decrement is delegated to the store,
// which performs it atomically, so two processes sharing the database can
// never spend the same credit twice. Denies with ErrNotSubscribed or
// ErrExhausted instead of ever letting the balance go below zero.
func (l *Ledger) Consume(ctx context.Context) (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, err := l.store.Decrement(ctx, l.key)
	switch {
	case errors.Is(err, ErrNotSubscribed), errors.Is(err, ErrExhausted):
		l.state = state
		return state, err
	case err != nil:
		return State{}, err
	}

	l.state = state
	return state, nil
}

// State returns the current snapshot.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}
