// Package integration provides end-to-end tests that exercise the application
// services against real GORM repositories on an in-memory SQLite database.
package integration

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/review"
)

// TestDB wraps a GORM connection to a throwaway in-memory database
type TestDB struct {
	DB *gorm.DB
	t  *testing.T
}

// NewTestDB opens a fresh in-memory SQLite database with the full schema
// migrated. Each call returns an isolated database.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	// A named shared-cache database keeps every pooled connection on the
	// same in-memory store; the unique name isolates tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&catalog.Product{},
		&order.Order{},
		&order.OrderItem{},
		&review.Review{},
	)
	require.NoError(t, err, "failed to migrate test schema")

	tdb := &TestDB{DB: db, t: t}
	t.Cleanup(tdb.Close)
	return tdb
}

// Close releases the underlying connection
func (tdb *TestDB) Close() {
	sqlDB, err := tdb.DB.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}
