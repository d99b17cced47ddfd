package services

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/repository"
)

func newSQLiteRepositories(t *testing.T) repository.Repositories {
	t.Helper()

	db, err := database.OpenGorm(sqlite.Open(":memory:"), zerolog.Nop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.MigrateSQL(db))
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return repository.New(&database.Connection{Driver: database.DriverSQLite, SQL: db})
}

// steppingClock returns a clock that advances by one second per call.
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}
