// Package testutil opens throwaway in-memory stores for package tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/yigit/collegerecords/internal/app/migrations"
	"github.com/yigit/collegerecords/internal/db"
)

var dbCounter atomic.Int64

// NewDatabase returns a migrated in-memory SQLite database that is closed when t ends.
func NewDatabase(t testing.TB) *db.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbCounter.Add(1))
	database, err := db.Open(db.DialectSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	database.SetMaxOpenConns(1)
	database.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.NewMigrator(database).Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}
