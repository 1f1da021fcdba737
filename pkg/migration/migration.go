// Package migration applies versioned schema changes and records them in
// schema_migrations, one batch per Run.
//
//	func init() {
//	    migration.Register(migration.Migration{
//	        Name: "20260301000000_create_products_table",
//	        Up:   func(db *gorm.DB) error { return db.AutoMigrate(&models.Product{}) },
//	        Down: func(db *gorm.DB) error { return db.Migrator().DropTable("products") },
//	    })
//	}
package migration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sudeviagro/backoffice/pkg/logger"
	"gorm.io/gorm"
)

// Migration is one named schema step. Names sort chronologically.
type Migration struct {
	Name string
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

var ErrNotRegistered = errors.New("migration: not registered")

var (
	regMu    sync.Mutex
	registry []Migration
)

// Register adds m to the process-wide set.
func Register(m Migration) {
	regMu.Lock()
	registry = append(registry, m)
	regMu.Unlock()
}

// Registered returns the process-wide set sorted by name.
func Registered() []Migration {
	regMu.Lock()
	out := append([]Migration(nil), registry...)
	regMu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Status is one row of Runner.Status.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner executes and tracks a fixed list of migrations.
type Runner struct {
	db         *gorm.DB
	migrations []Migration
}

// New builds a Runner over ms, or over Registered() when ms is empty.
func New(db *gorm.DB, ms ...Migration) *Runner {
	if len(ms) == 0 {
		ms = Registered()
	} else {
		ms = append([]Migration(nil), ms...)
		sort.Slice(ms, func(i, j int) bool { return ms[i].Name < ms[j].Name })
	}
	return &Runner{db: db, migrations: ms}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran(ctx context.Context) (map[string]record, error) {
	var rows []record
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	var row struct{ Max int }
	err := r.db.WithContext(ctx).Model(&record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&row).Error
	return row.Max, err
}

// Run applies every pending migration as one batch and returns their names.
// Each step runs in its own transaction together with its history row.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}
	batch, err := r.lastBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration: last batch: %w", err)
	}
	batch++

	var applied []string
	for _, m := range r.migrations {
		if _, ok := done[m.Name]; ok {
			continue
		}
		logger.Info("migration: up", "name", m.Name, "batch", batch)
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: m.Name, Batch: batch}).Error
		})
		if err != nil {
			return applied, fmt.Errorf("migration: %s up: %w", m.Name, err)
		}
		applied = append(applied, m.Name)
	}
	return applied, nil
}

// Rollback reverts the most recent batch in reverse order.
func (r *Runner) Rollback(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	batch, err := r.lastBatch(ctx)
	if err != nil || batch == 0 {
		return nil, err
	}

	var rows []record
	if err := r.db.WithContext(ctx).Where("batch = ?", batch).Order("id desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load batch %d: %w", batch, err)
	}

	byName := make(map[string]Migration, len(r.migrations))
	for _, m := range r.migrations {
		byName[m.Name] = m
	}

	var reverted []string
	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return reverted, fmt.Errorf("%w: %s", ErrNotRegistered, row.Name)
		}
		logger.Info("migration: down", "name", m.Name, "batch", batch)
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if m.Down != nil {
				if err := m.Down(tx); err != nil {
					return err
				}
			}
			return tx.Delete(&record{}, row.ID).Error
		})
		if err != nil {
			return reverted, fmt.Errorf("migration: %s down: %w", m.Name, err)
		}
		reverted = append(reverted, m.Name)
	}
	return reverted, nil
}

func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(r.migrations))
	for _, m := range r.migrations {
		row, ok := done[m.Name]
		out = append(out, Status{Name: m.Name, Ran: ok, Batch: row.Batch})
	}
	return out, nil
}
