package migration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sudeviagro/backoffice/pkg/migration"
)

type widget struct {
	ID   uint
	Name string
}

type gadget struct {
	ID  uint
	SKU string
}

func openDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db
}

func steps() []migration.Migration {
	return []migration.Migration{
		{
			Name: "20260102000000_create_gadgets",
			Up:   func(db *gorm.DB) error { return db.AutoMigrate(&gadget{}) },
			Down: func(db *gorm.DB) error { return db.Migrator().DropTable(&gadget{}) },
		},
		{
			Name: "20260101000000_create_widgets",
			Up:   func(db *gorm.DB) error { return db.AutoMigrate(&widget{}) },
			Down: func(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) },
		},
	}
}

func TestRunAppliesInNameOrderOnce(t *testing.T) {
	db := openDB(t, "migration_run")
	r := migration.New(db, steps()...)
	ctx := context.Background()

	applied, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260101000000_create_widgets", "20260102000000_create_gadgets"}, applied)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	applied, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	status, err := r.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 2)
	assert.True(t, status[0].Ran)
	assert.Equal(t, 1, status[0].Batch)
}

func TestRollbackRevertsLastBatch(t *testing.T) {
	db := openDB(t, "migration_rollback")
	ctx := context.Background()
	all := steps()

	_, err := migration.New(db, all[1]).Run(ctx)
	require.NoError(t, err)
	r := migration.New(db, all...)
	_, err = r.Run(ctx)
	require.NoError(t, err)

	reverted, err := r.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260102000000_create_gadgets"}, reverted)
	assert.False(t, db.Migrator().HasTable(&gadget{}))
	assert.True(t, db.Migrator().HasTable(&widget{}))

	status, err := r.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status[1].Ran)
}

func TestRollbackWithNothingRan(t *testing.T) {
	reverted, err := migration.New(openDB(t, "migration_empty"), steps()...).Rollback(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reverted)
}
