// Package seeders fills a fresh catalog with the rows the site needs to
// boot: an admin account, default SEO entries, merchant settings and a few
// products.
//
//	func init() { seeders.Register("products", seedProducts) }
package seeders

import (
	"context"
	"fmt"
	"sync"

	"github.com/sudeviagro/backoffice/pkg/logger"
	"gorm.io/gorm"
)

type SeederFunc func(ctx context.Context, db *gorm.DB) error

type entry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []entry
)

func Register(name string, fn SeederFunc) {
	mu.Lock()
	entries = append(entries, entry{name: name, fn: fn})
	mu.Unlock()
}

// Names lists registered seeders in run order.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

// Run executes the named seeders, or all of them when only is empty, and
// stops at the first failure.
func Run(ctx context.Context, db *gorm.DB, only ...string) error {
	mu.Lock()
	current := append([]entry(nil), entries...)
	mu.Unlock()

	want := make(map[string]bool, len(only))
	for _, n := range only {
		want[n] = true
	}
	for _, e := range current {
		if len(want) > 0 && !want[e.name] {
			continue
		}
		logger.Info("seed: running", "seeder", e.name)
		if err := e.fn(ctx, db); err != nil {
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
	}
	return nil
}
