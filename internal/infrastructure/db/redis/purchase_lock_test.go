package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestLock(t *testing.T, ttl time.Duration) (*PurchaseLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPurchaseLock(client, ttl), mr
}

func TestPurchaseLock_KeyAndDefaults(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	lock := NewPurchaseLock(client, 0)
	if lock.ttl != defaultLockTTL {
		t.Fatalf("expected default ttl %s, got %s", defaultLockTTL, lock.ttl)
	}

	courseID := uuid.MustParse("7f1d6c2e-2f43-4c58-9a39-3f6f1a9e0b11")
	if got, want := lock.key(42, courseID), "purchase:lock:42:7f1d6c2e-2f43-4c58-9a39-3f6f1a9e0b11"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
}

func TestPurchaseLock_AcquireSurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	_, ok, err := NewPurchaseLock(client, time.Second).Acquire(context.Background(), 1, uuid.New())
	if err == nil || ok {
		t.Fatalf("expected error without a server, got ok=%v err=%v", ok, err)
	}
}

func TestPurchaseLock_SecondAcquireFailsUntilReleased(t *testing.T) {
	lock, mr := newTestLock(t, time.Minute)
	ctx := context.Background()
	courseID := uuid.New()

	token, ok, err := lock.Acquire(ctx, 1, courseID)
	if err != nil || !ok || token == "" {
		t.Fatalf("first acquire: token=%q ok=%v err=%v", token, ok, err)
	}
	if ttl := mr.TTL(lock.key(1, courseID)); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected key to expire within a minute, ttl=%s", ttl)
	}

	if _, ok, err := lock.Acquire(ctx, 1, courseID); err != nil || ok {
		t.Fatalf("second acquire must fail while held: ok=%v err=%v", ok, err)
	}
	// Other pairs are independent.
	if _, ok, _ := lock.Acquire(ctx, 2, courseID); !ok {
		t.Fatalf("another user must be able to lock the same course")
	}

	if err := lock.Release(ctx, 1, courseID, token); err != nil {
		t.Fatalf("release: %v", err)
	}
	if mr.Exists(lock.key(1, courseID)) {
		t.Fatalf("release must delete the key")
	}
	if _, ok, _ := lock.Acquire(ctx, 1, courseID); !ok {
		t.Fatalf("acquire after release must succeed")
	}
}

func TestPurchaseLock_ExpiredHolderCannotReleaseNewLock(t *testing.T) {
	lock, mr := newTestLock(t, time.Second)
	ctx := context.Background()
	courseID := uuid.New()

	first, ok, err := lock.Acquire(ctx, 1, courseID)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	mr.FastForward(2 * time.Second)

	second, ok, err := lock.Acquire(ctx, 1, courseID)
	if err != nil || !ok {
		t.Fatalf("acquire after expiry: ok=%v err=%v", ok, err)
	}

	// The first holder finishes late; the second holder's lock must survive.
	if err := lock.Release(ctx, 1, courseID, first); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	if _, ok, _ := lock.Acquire(ctx, 1, courseID); ok {
		t.Fatalf("a third request must not get the lock while the second holds it")
	}
	if got, _ := mr.Get(lock.key(1, courseID)); got != second {
		t.Fatalf("lock value = %q, want second holder's token", got)
	}
}
