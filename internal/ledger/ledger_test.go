package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"agriscope/land-portal/land-portal-backend/internal/pricing"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	states  map[string]State
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string]State)}
}

func (m *memStore) Load(_ context.Context, key string) (State, bool, error) {
	s, ok := m.states[key]
	return s, ok, nil
}

func (m *memStore) Save(_ context.Context, key string, state State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.states[key] = state
	return nil
}

func (m *memStore) Decrement(_ context.Context, key string) (State, error) {
	if m.saveErr != nil {
		return State{}, m.saveErr
	}
	s, ok := m.states[key]
	if !ok || s.ActiveTier == nil {
		return s, ErrNotSubscribed
	}
	if s.CreditsRemaining <= 0 {
		return s, ErrExhausted
	}
	s.CreditsRemaining--
	m.states[key] = s
	return s, nil
}

func newTestLedger(t *testing.T, store Store) *Ledger {
	t.Helper()
	l, err := New(context.Background(), store, "test:ledger", zap.NewNop())
	assert.NoError(t, err)
	return l
}

func TestNewStartsUnsubscribed(t *testing.T) {
	l := newTestLedger(t, newMemStore())

	state := l.State()
	assert.Nil(t, state.ActiveTier)
	assert.Equal(t, 0, state.CreditsRemaining)

	_, err := l.Consume(context.Background())
	assert.ErrorIs(t, err, ErrNotSubscribed)
}

func TestActivateResetsInsteadOfAdding(t *testing.T) {
	store := newMemStore()
	basic := pricing.TierBasic
	store.states["test:ledger"] = State{CreditsRemaining: 2, TotalIncluded: 5, ActiveTier: &basic}

	l := newTestLedger(t, store)

	state, err := l.Activate(context.Background(), pricing.TierPro, 15)
	assert.NoError(t, err)
	assert.Equal(t, 15, state.CreditsRemaining)
	assert.Equal(t, 15, state.TotalIncluded)
	assert.Equal(t, pricing.TierPro, *state.ActiveTier)
}

func TestConsumeDecrementsAndPersists(t *testing.T) {
	store := newMemStore()
	l := newTestLedger(t, store)

	_, err := l.Activate(context.Background(), pricing.TierBasic, 5)
	assert.NoError(t, err)

	state, err := l.Consume(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 4, state.CreditsRemaining)
	assert.Equal(t, 5, state.TotalIncluded)

	assert.Equal(t, 4, store.states["test:ledger"].CreditsRemaining)
}

func TestConsumeNeverGoesBelowZero(t *testing.T) {
	l := newTestLedger(t, newMemStore())

	_, err := l.Activate(context.Background(), pricing.TierPerReport, 1)
	assert.NoError(t, err)

	_, err = l.Consume(context.Background())
	assert.NoError(t, err)

	// Every request past exhaustion is denied, not silently accepted.
	for i := 0; i < 3; i++ {
		state, err := l.Consume(context.Background())
		assert.ErrorIs(t, err, ErrExhausted)
		assert.Equal(t, 0, state.CreditsRemaining)
	}
}

func TestConsumeSpendsNothingOnStoreFailure(t *testing.T) {
	store := newMemStore()
	l := newTestLedger(t, store)

	_, err := l.Activate(context.Background(), pricing.TierBasic, 5)
	assert.NoError(t, err)

	store.saveErr = errors.New("disk full")
	_, err = l.Consume(context.Background())
	assert.Error(t, err)

	assert.Equal(t, 5, l.State().CreditsRemaining)
}

func TestConsumeSharedStoreNeverDoubleSpends(t *testing.T) {
	store := newMemStore()

	// The API server and the alert worker each hold their own Ledger over
	// the same store.
	api := newTestLedger(t, store)
	worker := newTestLedger(t, store)

	_, err := api.Activate(context.Background(), pricing.TierPerReport, 1)
	assert.NoError(t, err)

	_, err = api.Consume(context.Background())
	assert.NoError(t, err)

	// The worker's cached snapshot predates the spend; the store-level
	// decrement still denies it.
	state, err := worker.Consume(context.Background())
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 0, state.CreditsRemaining)
	assert.Equal(t, 0, store.states["test:ledger"].CreditsRemaining)
}

func TestLedgerReloadsFromStore(t *testing.T) {
	store := newMemStore()
	l := newTestLedger(t, store)

	_, err := l.Activate(context.Background(), pricing.TierEnterprise, 30)
	assert.NoError(t, err)
	_, err = l.Consume(context.Background())
	assert.NoError(t, err)

	reloaded := newTestLedger(t, store)
	state := reloaded.State()
	assert.Equal(t, 29, state.CreditsRemaining)
	assert.Equal(t, pricing.TierEnterprise, *state.ActiveTier)
}
