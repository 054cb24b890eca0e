package persistence

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestConnectionStats_Struct(t *testing.T) {
	t.Run("creates ConnectionStats with custom values", func(t *testing.T) {
		stats := ConnectionStats{
			MaxOpenConnections: 25,
			OpenConnections:    10,
			InUse:              5,
			Idle:               5,
			WaitCount:          100,
			WaitDuration:       5 * time.Second,
			MaxIdleClosed:      50,
			MaxIdleTimeClosed:  30,
			MaxLifetimeClosed:  20,
		}

		assert.Equal(t, 25, stats.MaxOpenConnections)
		assert.Equal(t, 10, stats.OpenConnections)
		assert.Equal(t, 5, stats.InUse)
		assert.Equal(t, 5, stats.Idle)
		assert.Equal(t, int64(100), stats.WaitCount)
		assert.Equal(t, 5*time.Second, stats.WaitDuration)
	})
}

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock
}

func TestDatabase_Ping(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectPing()

	// sqlmock only asserts pings when monitoring is enabled, so this
	// mostly verifies the plumbing does not error
	assert.NoError(t, db.Ping())
}

func TestDatabase_Stats(t *testing.T) {
	db, _ := newMockDatabase(t)

	stats, err := db.Stats()

	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
}

func TestDatabase_Transaction(t *testing.T) {
	t.Run("commits when the function succeeds", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := db.Transaction(func(tx *gorm.DB) error {
			return nil
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the function fails", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := db.Transaction(func(tx *gorm.DB) error {
			return assert.AnError
		})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
