package mirror

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/metrics"
)

// SimulatedStore logs every write and keeps the rows in memory. It is the
// default so local setups never need a MySQL server.
type SimulatedStore struct {
	mu   sync.RWMutex
	rows map[string]Product
	now  func() time.Time
}

func NewSimulatedStore() *SimulatedStore {
	return &SimulatedStore{rows: make(map[string]Product), now: time.Now}
}

func (s *SimulatedStore) Mode() string { return ModeSimulate }

func (s *SimulatedStore) EnsureTable(ctx context.Context) error {
	logger.WithCtx(ctx).Info("mirror (simulate): ensure table")
	return nil
}

func (s *SimulatedStore) Upsert(ctx context.Context, p Product) error {
	if err := p.validate(); err != nil {
		return err
	}
	now := s.now()

	s.mu.Lock()
	if prev, ok := s.rows[p.ID]; ok {
		p.CreatedAt = prev.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.Features = append([]string(nil), p.Features...)
	s.rows[p.ID] = p
	s.mu.Unlock()

	metrics.MirrorWrites.WithLabelValues("upsert", "simulated").Inc()
	logger.WithCtx(ctx).Info("mirror (simulate): upsert", "product_id", p.ID, "name", p.Name)
	return nil
}

func (s *SimulatedStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	out := make([]Product, 0, len(s.rows))
	for _, p := range s.rows {
		out = append(out, p)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *SimulatedStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.rows[id]
	delete(s.rows, id)
	s.mu.Unlock()

	metrics.MirrorWrites.WithLabelValues("delete", "simulated").Inc()
	logger.WithCtx(ctx).Info("mirror (simulate): delete", "product_id", id)
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *SimulatedStore) Ping(context.Context) error { return nil }
func (s *SimulatedStore) Close() error               { return nil }
