package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisBackendRoundTrip(t *testing.T) {
	rdb := newTestRedis(t)
	b, err := NewRedisBackend(rdb, "gosession-test")
	if err != nil {
		t.Fatalf("NewRedisBackend failed: %v", err)
	}
	ctx := context.Background()

	if _, err := b.Get(ctx, keyUser); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := b.Set(ctx, keyUser, `{"id":"u1"}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := b.Get(ctx, keyUser)
	if err != nil || got != `{"id":"u1"}` {
		t.Fatalf("unexpected round trip result %q, %v", got, err)
	}

	if err := b.Delete(ctx, keyUser); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := b.Get(ctx, keyUser); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRedisBackendPrefixIsolation(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	first, err := NewRedisBackend(rdb, "client-a")
	if err != nil {
		t.Fatalf("NewRedisBackend failed: %v", err)
	}
	second, err := NewRedisBackend(rdb, "client-b")
	if err != nil {
		t.Fatalf("NewRedisBackend failed: %v", err)
	}

	if err := first.Set(ctx, keyUser, "a"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := second.Get(ctx, keyUser); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected prefix isolation, got %v", err)
	}
}

func TestRedisBackendThroughStore(t *testing.T) {
	rdb := newTestRedis(t)
	remember, err := NewRedisBackend(rdb, "gosession-test")
	if err != nil {
		t.Fatalf("NewRedisBackend failed: %v", err)
	}
	ctx := context.Background()

	s := New(remember, NewMemoryBackend(), true)
	if err := s.SetSession(ctx, "access-1", "", testProfile(), true); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	restarted := New(remember, NewMemoryBackend(), true)
	if !restarted.NeedsRefresh(ctx) {
		t.Fatal("expected NeedsRefresh from redis-backed profile")
	}
	if u := restarted.User(ctx); u == nil || u.ID != "u1" {
		t.Fatalf("expected profile from redis, got %+v", u)
	}
}

func TestRedisBackendRequiresClient(t *testing.T) {
	if _, err := NewRedisBackend(nil, "x"); err == nil {
		t.Fatal("expected error for nil client")
	}
}
