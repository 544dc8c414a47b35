package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"botdash/gateway/pkg/redis"
)

// ErrNotFound is returned when a session id has no live session, either
// because it was never created or because it was torn down.
var ErrNotFound = errors.New("session not found")

// Session holds the upstream credentials for one signed-in dashboard user.
// The upstream bearer token never leaves the gateway.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// KV is the key-value surface the store needs. *redis.Client satisfies it.
type KV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Store keeps sessions in Redis with a TTL. Lifecycle is explicit: Create
// on login, Get on every authenticated request, Clear on logout or when
// the upstream answers 401.
type Store struct {
	kv  KV
	ttl time.Duration
}

// NewStore creates a session store
func NewStore(kv KV, ttl time.Duration) *Store {
	return &Store{kv: kv, ttl: ttl}
}

// Create stores a new session for the given upstream token and username
func (s *Store) Create(ctx context.Context, token, username string) (*Session, error) {
	sess := &Session{
		ID:        uuid.New().String(),
		Token:     token,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.kv.Set(ctx, sessionKey(sess.ID), data, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return sess, nil
}

// Get looks up a session by id
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.kv.Get(ctx, sessionKey(id))
	if err != nil {
		if redis.IsNil(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &sess, nil
}

// Clear tears down a session. Clearing an absent session is not an error.
func (s *Store) Clear(ctx context.Context, id string) error {
	if err := s.kv.Del(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return "session:" + id
}
