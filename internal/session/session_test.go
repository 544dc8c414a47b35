package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// memKV is an in-memory KV standing in for Redis
type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	default:
		return errors.New("unsupported value type")
	}
	return nil
}

func (m *memKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memKV) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	store := NewStore(newMemKV(), time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx, "upstream-token", "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("session has no id")
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Token != "upstream-token" || got.Username != "alice" {
		t.Errorf("session = %+v", got)
	}

	if err := store.Clear(ctx, sess.ID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Clear = %v, want ErrNotFound", err)
	}
}

func TestSessionGetUnknown(t *testing.T) {
	store := NewStore(newMemKV(), time.Hour)
	if _, err := store.Get(context.Background(), "no-such-session"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSessionClearIdempotent(t *testing.T) {
	store := NewStore(newMemKV(), time.Hour)
	if err := store.Clear(context.Background(), "never-existed"); err != nil {
		t.Errorf("Clear of absent session errored: %v", err)
	}
}
