// Package session stores short-lived OAuth state tokens in Redis.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultStateTTL bounds how long an OAuth consent round-trip may take.
const DefaultStateTTL = 10 * time.Minute

// StateStore issues and validates the state parameter of the OAuth
// authorization flow. Each state is single use. With a nil Redis client
// states are issued but not validated, so local setups without Redis
// keep working at the cost of CSRF protection.
type StateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStateStore creates a StateStore. If ttl is 0, it defaults to
// DefaultStateTTL. If prefix is empty, it uses "oauthstate".
func NewStateStore(client *redis.Client, prefix string, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	if prefix == "" {
		prefix = "oauthstate"
	}
	return &StateStore{client: client, prefix: prefix, ttl: ttl}
}

// Issue generates a random state token and records it for later
// validation.
func (s *StateStore) Issue(ctx context.Context) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	state := hex.EncodeToString(b)

	if s.client != nil {
		if err := s.client.Set(ctx, s.key(state), "1", s.ttl).Err(); err != nil {
			return "", fmt.Errorf("store state: %w", err)
		}
	}
	return state, nil
}

// Consume validates a state token and invalidates it so it cannot be
// replayed.
func (s *StateStore) Consume(ctx context.Context, state string) bool {
	if state == "" {
		return false
	}
	if s.client == nil {
		return true
	}
	n, err := s.client.Del(ctx, s.key(state)).Result()
	return err == nil && n > 0
}

func (s *StateStore) key(state string) string {
	return fmt.Sprintf("%s:%s", s.prefix, state)
}
