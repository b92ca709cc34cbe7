// Package presence tracks live agent sessions in Redis. Each heartbeat
// refreshes a TTL key; a key that expires means the agent's session is gone
// and the reclamation sweep will recover any lead it held.
package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"callcenter_backend/internal/agents/domain"
	"callcenter_backend/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "agents:presence:"

// Store is the Redis-backed presence tracker.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis using the configured URL.
func New(cfg config.PresenceConfig) (*Store, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	ttl := cfg.GetPresenceTTL()
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Store{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

// NewWithClient wraps an existing Redis client. Used by tests.
func NewWithClient(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func key(agentID uuid.UUID) string {
	return keyPrefix + agentID.String()
}

// Heartbeat records the agent as online in the given operational state and
// refreshes the session TTL.
func (s *Store) Heartbeat(ctx context.Context, agentID uuid.UUID, state domain.OperationalState) error {
	return s.rdb.Set(ctx, key(agentID), string(state), s.ttl).Err()
}

// State returns the agent's last reported operational state, or ok=false if
// the session has expired.
func (s *Store) State(ctx context.Context, agentID uuid.UUID) (domain.OperationalState, bool, error) {
	val, err := s.rdb.Get(ctx, key(agentID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return domain.OperationalState(val), true, nil
}

// Drop removes the agent's session, marking them offline immediately.
func (s *Store) Drop(ctx context.Context, agentID uuid.UUID) error {
	return s.rdb.Del(ctx, key(agentID)).Err()
}

// Online counts live agent sessions.
func (s *Store) Online(ctx context.Context) (int, error) {
	var count int
	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return count, nil
}
