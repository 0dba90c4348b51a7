package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"fueltracker/backend/libs/kvstore"
	"fueltracker/backend/services/auth-service/internal/models"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session: not found")

// DefaultTTL matches the session cookie lifetime.
const DefaultTTL = 24 * time.Hour

// Store keeps logged-in users in redis under fueltracker_user:<sid>.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	newID  func() string
}

// NewStore returns redis-backed session store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl, newID: uuid.NewString}
}

// Key returns the redis key for a session id.
func Key(sid string) string {
	return fmt.Sprintf("%s:%s", kvstore.KeyCurrentUser, sid)
}

// TTL returns the session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create stores the user and returns a fresh session id.
func (s *Store) Create(ctx context.Context, user models.PublicUser) (string, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return "", err
	}
	sid := s.newID()
	if err := s.client.Set(ctx, Key(sid), data, s.ttl).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

// Get returns the user bound to the session.
func (s *Store) Get(ctx context.Context, sid string) (*models.PublicUser, error) {
	if sid == "" {
		return nil, ErrNotFound
	}
	result, err := s.client.Get(ctx, Key(sid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var user models.PublicUser
	if err := json.Unmarshal(result, &user); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", sid, err)
	}
	return &user, nil
}

// Delete removes the session. Unknown ids are not an error.
func (s *Store) Delete(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.client.Del(ctx, Key(sid)).Err()
}
