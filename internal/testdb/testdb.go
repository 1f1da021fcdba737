// Package testdb gives tests a migrated in-memory sqlite catalog bound to
// database.DB.
package testdb

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sudeviagro/backoffice/database/migrations"
	"github.com/sudeviagro/backoffice/pkg/database"
	"github.com/sudeviagro/backoffice/pkg/migration"
	"gorm.io/gorm"
)

var seq atomic.Int64

// Setup opens a fresh database, runs every migration and points
// database.DB at it for the duration of the test.
func Setup(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("testdb: open: %v", err)
	}
	if _, err := migration.New(db, migrations.All()...).Run(context.Background()); err != nil {
		t.Fatalf("testdb: migrate: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
