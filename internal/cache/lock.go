package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
)

// ErrLocked is returned when another request holds the same lock.
var ErrLocked = errors.New("resource is locked by another request")

const lockTTL = 30 * time.Second

// WithCustomerLock runs fn while holding a per-customer lock. Without Redis
// fn runs unguarded and relies on the guarded UPDATEs in the repositories.
// A context that ends while waiting for the lock counts as contention.
func WithCustomerLock(ctx context.Context, customerID int, fn func(ctx context.Context) error) error {
	if client == nil {
		return fn(ctx)
	}

	locker := redislock.New(client)
	key := fmt.Sprintf("lock:customer:%d", customerID)

	lock, err := locker.Obtain(ctx, key, lockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	})
	if errors.Is(err, redislock.ErrNotObtained) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ErrLocked
	}
	if err != nil {
		// Redis trouble should not block the journey; run without the lock.
		return fn(ctx)
	}
	defer lock.Release(context.Background())

	return fn(ctx)
}
