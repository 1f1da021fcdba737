package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudeviagro/backoffice/app/listeners"
	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/internal/testdb"
	"github.com/sudeviagro/backoffice/pkg/event"
	"github.com/sudeviagro/backoffice/pkg/mirror"
	"github.com/sudeviagro/backoffice/pkg/workerpool"
)

// flakyStore fails upserts of one product id.
type flakyStore struct {
	*mirror.SimulatedStore
	failID string
}

func (s flakyStore) Upsert(ctx context.Context, p mirror.Product) error {
	if p.ID == s.failID {
		return errors.New("dial tcp 10.0.0.5:3306: connection refused")
	}
	return s.SimulatedStore.Upsert(ctx, p)
}

func TestMirrorSyncAllContinuesPastFailures(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	products := services.NewProductService(event.NewDispatcher())

	var ids []string
	for _, name := range []string{"Mango Pickle", "Garam Masala", "Soya Chunks"} {
		in := mangoPickle()
		in.Name = name
		p, err := products.Create(ctx, in)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	store := flakyStore{SimulatedStore: mirror.NewSimulatedStore(), failID: ids[1]}
	pool := workerpool.New("mirror-test", 1)
	defer pool.Shutdown()
	svc := services.NewMirrorService(store, products, pool)

	var steps []services.SyncProgress
	report, err := svc.SyncAll(ctx, func(p services.SyncProgress) { steps = append(steps, p) })
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Synced)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, ids[1], report.Failures[0].ProductID)
	assert.Contains(t, report.Failures[0].Error, "connection refused")

	require.Len(t, steps, 3)
	assert.Equal(t, 3, steps[2].Index)
	failed := 0
	for _, s := range steps {
		if !s.OK {
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	mirrored, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, mirrored, 2)
}

func TestMirrorSyncAllDisabled(t *testing.T) {
	testdb.Setup(t)
	store, err := mirror.New(mirror.Config{Mode: mirror.ModeOff})
	require.NoError(t, err)
	pool := workerpool.New("mirror-test", 1)
	defer pool.Shutdown()

	svc := services.NewMirrorService(store, services.NewProductService(event.NewDispatcher()), pool)
	_, err = svc.SyncAll(context.Background(), nil)
	assert.ErrorIs(t, err, mirror.ErrDisabled)
}

func TestProductEventsReachMirror(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	d := event.NewDispatcher()
	products := services.NewProductService(d)
	store := mirror.NewSimulatedStore()
	pool := workerpool.New("mirror-test", 2)
	svc := services.NewMirrorService(store, products, pool)
	listeners.Register(d, svc)

	kept, err := products.Create(ctx, mangoPickle())
	require.NoError(t, err)
	gone := mangoPickle()
	gone.Name = "Lime Pickle"
	removed, err := products.Create(ctx, gone)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		l, _ := store.List(ctx)
		return len(l) == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, products.Delete(ctx, removed.ID))

	pool.Shutdown()

	mirrored, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, mirrored, 1)
	assert.Equal(t, kept.ID, mirrored[0].ID)
	assert.Equal(t, "Mango Pickle", mirrored[0].Name)
}

func TestMirrorListenerRejectsWrongPayload(t *testing.T) {
	pool := workerpool.New("mirror-test", 1)
	defer pool.Shutdown()
	svc := services.NewMirrorService(mirror.NewSimulatedStore(), nil, pool)
	err := listeners.MirrorProduct(svc)(context.Background(), "not a product")
	assert.Error(t, err)
}
