package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GaiKT/rentflow/internal/database/testutil"
)

func TestDatabaseStoreSetGetDelete(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)
	require.NotNil(t, store)

	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "greeting", []byte("hello"), time.Minute))

	value, found, err := store.Get(ctx, "greeting")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("hello"), value)

	require.NoError(t, store.Set(ctx, "greeting", []byte("updated"), time.Minute))
	value, found, err = store.Get(ctx, "greeting")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("updated"), value)

	require.NoError(t, store.Delete(ctx, "greeting"))
	_, found, err = store.Get(ctx, "greeting")
	require.NoError(t, err)
	require.False(t, found)
}

func TestDatabaseStoreGetExpired(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "ephemeral", []byte("x"), time.Millisecond))

	time.Sleep(5 * time.Millisecond)

	_, found, err := store.Get(ctx, "ephemeral")
	require.NoError(t, err)
	require.False(t, found)
}

func TestDatabaseStoreIncrementWithTTL(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)

	ctx := context.Background()

	count, ttl, err := store.IncrementWithTTL(ctx, "counter", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
	require.Greater(t, ttl, time.Duration(0))

	count, _, err = store.IncrementWithTTL(ctx, "counter", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestDatabaseStorePurgeExpired(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "stale", []byte("x"), time.Millisecond))
	require.NoError(t, store.Set(ctx, "fresh", []byte("y"), time.Hour))
	require.NoError(t, store.Set(ctx, "pinned", []byte("z"), 0))

	time.Sleep(5 * time.Millisecond)

	purged, err := store.PurgeExpired(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(1), purged)

	_, found, err := store.Get(ctx, "fresh")
	require.NoError(t, err)
	require.True(t, found)

	// Entries without expiry survive the purge.
	_, found, err = store.Get(ctx, "pinned")
	require.NoError(t, err)
	require.True(t, found)
}

func TestLockAcquireRelease(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)

	lock, err := NewLock(store, "reminder-run", time.Minute)
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, lock.Acquire(ctx, "run-a"))
	require.ErrorIs(t, lock.Acquire(ctx, "run-b"), ErrLockHeld)

	// Re-acquiring under the same owner refreshes the TTL.
	require.NoError(t, lock.Acquire(ctx, "run-a"))

	// Releasing under a foreign owner leaves the lock intact.
	require.NoError(t, lock.Release(ctx, "run-b"))
	require.ErrorIs(t, lock.Acquire(ctx, "run-b"), ErrLockHeld)

	require.NoError(t, lock.Release(ctx, "run-a"))
	require.NoError(t, lock.Acquire(ctx, "run-b"))
}
