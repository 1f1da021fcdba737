package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/metrics"
	"github.com/sudeviagro/backoffice/pkg/mirror"
	"github.com/sudeviagro/backoffice/pkg/workerpool"
)

// SyncFailure is one product the batch could not mirror.
type SyncFailure struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Error       string `json:"error"`
}

// SyncReport summarises a sync-all run.
type SyncReport struct {
	Total    int           `json:"total"`
	Synced   int           `json:"synced"`
	Failed   int           `json:"failed"`
	Failures []SyncFailure `json:"failures"`
}

// SyncProgress is reported after each product of a sync-all run.
type SyncProgress struct {
	Index       int    `json:"index"`
	Total       int    `json:"total"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	OK          bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
}

// MirrorService copies catalog products into the secondary MySQL store.
type MirrorService struct {
	store    mirror.Store
	products *ProductService
	pool     *workerpool.Pool
}

func NewMirrorService(store mirror.Store, products *ProductService, pool *workerpool.Pool) *MirrorService {
	return &MirrorService{store: store, products: products, pool: pool}
}

func (s *MirrorService) Mode() string { return s.store.Mode() }

func (s *MirrorService) List(ctx context.Context) ([]mirror.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, config.MirrorTimeout())
	defer cancel()
	return s.store.List(ctx)
}

// Upsert creates the mirror table if needed and writes p.
func (s *MirrorService) Upsert(ctx context.Context, p mirror.Product) error {
	ctx, cancel := context.WithTimeout(ctx, config.MirrorTimeout())
	defer cancel()
	if err := s.store.EnsureTable(ctx); err != nil {
		return err
	}
	return s.store.Upsert(ctx, p)
}

func (s *MirrorService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, config.MirrorTimeout())
	defer cancel()
	return s.store.Delete(ctx, id)
}

// SyncAll mirrors every catalog product one after another. A failing
// product is recorded and the run continues. progress may be nil.
func (s *MirrorService) SyncAll(ctx context.Context, progress func(SyncProgress)) (SyncReport, error) {
	if s.store.Mode() == mirror.ModeOff {
		return SyncReport{}, mirror.ErrDisabled
	}
	products, err := s.products.All(ctx)
	if err != nil {
		return SyncReport{}, fmt.Errorf("services: sync all: %w", err)
	}

	log := logger.WithCtx(ctx).With("mode", s.store.Mode())
	log.Info("mirror sync-all started", "products", len(products))

	report := SyncReport{Total: len(products), Failures: []SyncFailure{}}
	for i, p := range products {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		step := SyncProgress{Index: i + 1, Total: len(products), ProductID: p.ID, ProductName: p.Name, OK: true}
		if err := s.Upsert(ctx, p.Mirror()); err != nil {
			report.Failed++
			report.Failures = append(report.Failures, SyncFailure{ProductID: p.ID, ProductName: p.Name, Error: err.Error()})
			step.OK = false
			step.Error = err.Error()
			log.Warn("mirror sync-all item failed", "product_id", p.ID, "error", err)
		} else {
			report.Synced++
		}
		if progress != nil {
			progress(step)
		}
	}

	log.Info("mirror sync-all finished", "synced", report.Synced, "failed", report.Failed)
	return report, nil
}

// EnqueueUpsert mirrors p in the background. When the pool is saturated the
// write is dropped and counted.
func (s *MirrorService) EnqueueUpsert(ctx context.Context, p models.Product) {
	mp := p.Mirror()
	s.enqueue(ctx, "upsert", p.ID, func(bg context.Context) error { return s.Upsert(bg, mp) })
}

func (s *MirrorService) EnqueueDelete(ctx context.Context, id string) {
	s.enqueue(ctx, "delete", id, func(bg context.Context) error { return s.Delete(bg, id) })
}

func (s *MirrorService) enqueue(ctx context.Context, op, id string, fn func(context.Context) error) {
	if s.store.Mode() == mirror.ModeOff {
		return
	}
	log := logger.WithCtx(ctx).With("op", op, "product_id", id)

	err := s.pool.Submit(func(bg context.Context) {
		if err := fn(bg); err != nil && !errors.Is(err, mirror.ErrNotFound) {
			log.Warn("mirror write failed", "error", err)
		}
	})
	if err != nil {
		metrics.MirrorDropped.Inc()
		log.Warn("mirror write dropped", "error", err)
	}
}
