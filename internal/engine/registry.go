package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/keylock"
)

// SignalStore holds active signals. Injected so tests run deterministic
// and a durable backend can replace the in-memory map without touching
// evaluation logic. Get and Active return detached copies: callers may
// read them without synchronizing against lifecycle transitions.
type SignalStore interface {
	Get(key domain.SignalKey) (*domain.Signal, bool)
	Put(sig *domain.Signal)
	Delete(key domain.SignalKey)
	Active() []*domain.Signal
}

// MemorySignalStore is the default map-backed SignalStore. It copies on
// both boundaries so stored signals never alias caller-held pointers.
type MemorySignalStore struct {
	mu      sync.RWMutex
	signals map[domain.SignalKey]*domain.Signal
}

// NewMemorySignalStore creates an empty in-memory store.
func NewMemorySignalStore() *MemorySignalStore {
	return &MemorySignalStore{signals: make(map[domain.SignalKey]*domain.Signal)}
}

func (m *MemorySignalStore) Get(key domain.SignalKey) (*domain.Signal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sig, ok := m.signals[key]
	if !ok {
		return nil, false
	}
	cp := *sig
	return &cp, true
}

func (m *MemorySignalStore) Put(sig *domain.Signal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sig
	m.signals[cp.Key()] = &cp
}

func (m *MemorySignalStore) Delete(key domain.SignalKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.signals, key)
}

func (m *MemorySignalStore) Active() []*domain.Signal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Signal, 0, len(m.signals))
	for _, sig := range m.signals {
		cp := *sig
		out = append(out, &cp)
	}
	return out
}

// OpenParams carries the entry-time values recorded on a new signal.
type OpenParams struct {
	EntryValue      float64
	LeadingTeamHome bool
	EntryOdds       int
	TriggerOrder    int
}

// Registry tracks per-(strategy, game) signal lifecycle. Operations on
// the same key are applied atomically; distinct keys proceed in parallel.
type Registry struct {
	store SignalStore
	locks *keylock.KeyLock
	now   func() time.Time
	newID func() string
}

// NewRegistry creates a Registry over the given store.
func NewRegistry(store SignalStore) *Registry {
	return &Registry{
		store: store,
		locks: keylock.New(),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// SetClock overrides the registry clock (for testing).
func (r *Registry) SetClock(now func() time.Time) { r.now = now }

// Open creates an active signal for key. When an active signal already
// exists the call is a no-op, not an error: repeated delta delivery of
// unchanged state must not produce duplicate entries. Returns the signal
// and whether this call created it.
func (r *Registry) Open(key domain.SignalKey, p OpenParams) (*domain.Signal, bool) {
	r.locks.Lock(key.String())
	defer r.locks.Unlock(key.String())

	if existing, ok := r.store.Get(key); ok {
		return existing, false
	}
	sig := &domain.Signal{
		ID:              r.newID(),
		StrategyID:      key.StrategyID,
		GameID:          key.GameID,
		Status:          domain.SignalActive,
		EntryValue:      p.EntryValue,
		EntryTime:       r.now(),
		LeadingTeamHome: p.LeadingTeamHome,
		EntryOdds:       p.EntryOdds,
		LastFiredOrder:  p.TriggerOrder,
	}
	r.store.Put(sig)
	return sig, true
}

// Close transitions the active signal for key to a terminal status,
// recording the close value and time. Closing an already-closed or
// never-opened signal is ignored, not an error. Returns the closed signal
// and whether a close happened.
func (r *Registry) Close(key domain.SignalKey, closeValue float64, outcome domain.SignalStatus) (*domain.Signal, bool) {
	if !outcome.Terminal() {
		return nil, false
	}
	r.locks.Lock(key.String())
	defer r.locks.Unlock(key.String())

	sig, ok := r.store.Get(key)
	if !ok {
		return nil, false
	}
	sig.Status = outcome
	sig.CloseValue = closeValue
	sig.CloseTime = r.now()
	r.store.Delete(key)
	return sig, true
}

// Active returns the active signal for key, if any.
func (r *Registry) Active(key domain.SignalKey) (*domain.Signal, bool) {
	return r.store.Get(key)
}

// AllActive snapshots every active signal for diagnostics and outbound
// notification.
func (r *Registry) AllActive() []*domain.Signal {
	return r.store.Active()
}
