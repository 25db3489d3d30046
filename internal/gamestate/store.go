// Package gamestate reconciles inbound game deltas into authoritative
// game snapshots under monotonicity invariants.
package gamestate

import (
	"context"
	"sync"

	"github.com/sawpanic/courtside/internal/domain"
)

// GameStore is the explicit state-store boundary for live snapshots.
// Injected into the reducer so tests run deterministic and a durable
// backend can replace the in-memory map without touching merge logic.
type GameStore interface {
	// Get returns the snapshot for a game id, or domain.ErrNotFound.
	Get(ctx context.Context, gameID string) (*domain.GameSnapshot, error)
	// Put stores the snapshot, replacing any previous version.
	Put(ctx context.Context, snap *domain.GameSnapshot) error
	// List returns all tracked snapshots.
	List(ctx context.Context) ([]*domain.GameSnapshot, error)
}

// MemoryGameStore is the default map-backed GameStore.
type MemoryGameStore struct {
	mu    sync.RWMutex
	games map[string]*domain.GameSnapshot
}

// NewMemoryGameStore creates an empty in-memory store.
func NewMemoryGameStore() *MemoryGameStore {
	return &MemoryGameStore{games: make(map[string]*domain.GameSnapshot)}
}

func (m *MemoryGameStore) Get(_ context.Context, gameID string) (*domain.GameSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.games[gameID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return snap.Clone(), nil
}

func (m *MemoryGameStore) Put(_ context.Context, snap *domain.GameSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[snap.GameID] = snap.Clone()
	return nil
}

func (m *MemoryGameStore) List(_ context.Context) ([]*domain.GameSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.GameSnapshot, 0, len(m.games))
	for _, snap := range m.games {
		out = append(out, snap.Clone())
	}
	return out, nil
}
