package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrLockHeld is returned when a lock is already owned by another holder.
var ErrLockHeld = errors.New("cache: lock already held")

// Lock provides best-effort mutual exclusion on top of a Store. It is used to
// keep overlapping reminder sweeps from running concurrently; it is advisory,
// not a distributed consensus primitive.
type Lock struct {
	store Store
	key   string
	ttl   time.Duration
}

// NewLock creates a lock identified by key. The TTL bounds how long a crashed
// holder can keep the lock before it expires on its own.
func NewLock(store Store, key string, ttl time.Duration) (*Lock, error) {
	if store == nil {
		return nil, errors.New("cache: lock requires a store")
	}
	if key == "" {
		return nil, errors.New("cache: lock key is required")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Lock{store: store, key: "lock:" + key, ttl: ttl}, nil
}

// Acquire takes the lock under the supplied owner token. It returns
// ErrLockHeld when a different owner currently holds it.
func (l *Lock) Acquire(ctx context.Context, owner string) error {
	if owner == "" {
		return errors.New("cache: lock owner is required")
	}

	current, found, err := l.store.Get(ctx, l.key)
	if err != nil {
		return fmt.Errorf("cache: acquire lock: %w", err)
	}
	if found && string(current) != owner {
		return ErrLockHeld
	}

	if err := l.store.Set(ctx, l.key, []byte(owner), l.ttl); err != nil {
		return fmt.Errorf("cache: acquire lock: %w", err)
	}
	return nil
}

// Release drops the lock if it is still owned by the supplied token. Releasing
// a lock held by someone else is a no-op.
func (l *Lock) Release(ctx context.Context, owner string) error {
	current, found, err := l.store.Get(ctx, l.key)
	if err != nil {
		return fmt.Errorf("cache: release lock: %w", err)
	}
	if !found || string(current) != owner {
		return nil
	}
	if err := l.store.Delete(ctx, l.key); err != nil {
		return fmt.Errorf("cache: release lock: %w", err)
	}
	return nil
}
