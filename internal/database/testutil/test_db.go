package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/database"
)

// TestDBOption customises MustOpenTestDB.
type TestDBOption func(*dbOptions)

type dbOptions struct {
	autoMigrate bool
}

// WithAutoMigrate applies the full schema after opening. Most service and
// handler tests want this; pure DSN or config tests do not.
func WithAutoMigrate() TestDBOption {
	return func(o *dbOptions) {
		o.autoMigrate = true
	}
}

// MustOpenTestDB opens an in-memory SQLite database and closes it via
// t.Cleanup. The shared-cache database is dropped once its last connection
// closes, so sequential tests start from an empty schema.
func MustOpenTestDB(t *testing.T, opts ...TestDBOption) *gorm.DB {
	t.Helper()

	var options dbOptions
	for _, opt := range opts {
		opt(&options)
	}

	db, err := database.Open(database.Config{Driver: "sqlite"})
	require.NoError(t, err)

	if options.autoMigrate {
		require.NoError(t, database.AutoMigrate(db))
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
