package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"photo-store/infrastructure/logger"
)

const (
	stateKeyPrefix = "lightroom:oauth:state:"
	stateTTL       = 10 * time.Minute
)

// IStateStore holds short-lived OAuth state values between the authorize
// redirect and the callback, to reject forged callbacks.
type IStateStore interface {
	Put(ctx context.Context, state string) error
	// Consume reports whether the state was issued by us and removes it so it
	// cannot be replayed.
	Consume(ctx context.Context, state string) bool
}

// StateStore is backed by Redis, falling back to an in-process map when
// Redis is not available. The in-memory fallback is fine for a single
// instance; Redis matters when the storefront runs more than one.
type StateStore struct {
	client *redis.Client

	mu     sync.Mutex
	states map[string]time.Time
}

func NewStateStore(client *redis.Client) IStateStore {
	return &StateStore{
		client: client,
		states: make(map[string]time.Time),
	}
}

func (s *StateStore) Put(ctx context.Context, state string) error {
	if s.client != nil {
		if err := s.client.Set(ctx, stateKeyPrefix+state, "1", stateTTL).Err(); err == nil {
			return nil
		} else {
			logger.GetLogger().WithField("error", err).Warn("Redis state write failed - using in-memory state store")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.states[state] = time.Now().Add(stateTTL)
	return nil
}

func (s *StateStore) Consume(ctx context.Context, state string) bool {
	if state == "" {
		return false
	}
	if s.client != nil {
		deleted, err := s.client.Del(ctx, stateKeyPrefix+state).Result()
		if err == nil {
			if deleted > 0 {
				return true
			}
		} else {
			logger.GetLogger().WithField("error", err).Warn("Redis state lookup failed - checking in-memory state store")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Now().Before(expiry)
}

// prune drops expired entries. Caller holds the lock.
func (s *StateStore) prune() {
	now := time.Now()
	for state, expiry := range s.states {
		if now.After(expiry) {
			delete(s.states, state)
		}
	}
}
