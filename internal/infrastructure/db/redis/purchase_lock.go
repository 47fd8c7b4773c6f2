package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 10 * time.Second

// releaseScript deletes the key only while it still holds the caller's token,
// so a request that outlived its TTL cannot drop a lock taken after it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// PurchaseLock marks a (user, course) purchase as in flight so a second
// request for the same pair is turned away before touching the database.
// Key format: purchase:lock:<user_id>:<course_id>, value: holder token.
type PurchaseLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPurchaseLock creates a PurchaseLock. A non-positive ttl selects defaultLockTTL.
func NewPurchaseLock(client *redis.Client, ttl time.Duration) *PurchaseLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &PurchaseLock{client: client, ttl: ttl}
}

// Acquire reports whether the caller now holds the lock and returns the
// token Release needs. The key expires after ttl so a crashed request cannot
// block the pair forever.
func (l *PurchaseLock) Acquire(ctx context.Context, userID int64, courseID uuid.UUID) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key(userID, courseID), token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("purchase lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the lock if token still holds it; otherwise it does nothing.
func (l *PurchaseLock) Release(ctx context.Context, userID int64, courseID uuid.UUID, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key(userID, courseID)}, token).Err(); err != nil {
		return fmt.Errorf("purchase unlock: %w", err)
	}
	return nil
}

func (l *PurchaseLock) key(userID int64, courseID uuid.UUID) string {
	return fmt.Sprintf("purchase:lock:%d:%s", userID, courseID)
}
