package gamestate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/sawpanic/courtside/internal/domain"
)

const (
	gameKeyPrefix = "courtside:game:"
	gameIndexKey  = "courtside:games"
)

// RedisGameStore persists live snapshots in Redis as JSON values with a
// set index over game ids. Write serialization per game id is the
// reducer's job (per-key locks), so the store itself stays a plain
// get/put.
type RedisGameStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisGameStore creates a store over the given client. A zero ttl
// keeps snapshots until explicitly removed.
func NewRedisGameStore(client redis.Cmdable, ttl time.Duration) *RedisGameStore {
	return &RedisGameStore{client: client, ttl: ttl}
}

func (s *RedisGameStore) Get(ctx context.Context, gameID string) (*domain.GameSnapshot, error) {
	raw, err := s.client.Get(ctx, gameKeyPrefix+gameID).Result()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get game %s: %w", gameID, err)
	}
	var snap domain.GameSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", gameID, err)
	}
	return &snap, nil
}

func (s *RedisGameStore) Put(ctx context.Context, snap *domain.GameSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", snap.GameID, err)
	}
	if err := s.client.Set(ctx, gameKeyPrefix+snap.GameID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set game %s: %w", snap.GameID, err)
	}
	if err := s.client.SAdd(ctx, gameIndexKey, snap.GameID).Err(); err != nil {
		return fmt.Errorf("redis index game %s: %w", snap.GameID, err)
	}
	return nil
}

func (s *RedisGameStore) List(ctx context.Context) ([]*domain.GameSnapshot, error) {
	ids, err := s.client.SMembers(ctx, gameIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list games: %w", err)
	}
	out := make([]*domain.GameSnapshot, 0, len(ids))
	for _, id := range ids {
		snap, err := s.Get(ctx, id)
		if err == domain.ErrNotFound {
			// Expired value still indexed; skip.
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}
