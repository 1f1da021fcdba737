package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var handled atomic.Int32

type notifyJob struct {
	LeadID uint   `json:"lead_id"`
	Kind   string `json:"kind"`
}

func (j *notifyJob) Handle(context.Context) error {
	if j.Kind == "broken" {
		return errors.New("smtp 421 try later")
	}
	handled.Add(1)
	return nil
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := New(NewMemoryDriver(10))
	m.SetBackoff(time.Millisecond)
	m.Register(func() Job { return &notifyJob{} })
	return m
}

func TestDispatchAndWork(t *testing.T) {
	m := newTestManager(t)
	before := handled.Load()

	ctx, cancel := context.WithCancel(context.Background())
	wg := m.Start(ctx, 2)
	for i := 1; i <= 3; i++ {
		require.NoError(t, m.Dispatch(ctx, &notifyJob{LeadID: uint(i), Kind: "contact"}))
	}

	assert.Eventually(t, func() bool { return handled.Load()-before == 3 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	wg.Wait()
}

func TestRegistryKeyIsTypeName(t *testing.T) {
	m := newTestManager(t)
	_, ok := m.registry["*queue.notifyJob"]
	assert.True(t, ok)
}

func TestUnregisteredEnvelope(t *testing.T) {
	m := New(NewMemoryDriver(1))
	err := m.process(context.Background(), []byte(`{"type":"*jobs.Unknown","payload":{}}`))
	assert.ErrorIs(t, err, ErrUnregistered)

	assert.Error(t, m.process(context.Background(), []byte(`not json`)))
}

func TestFailedJobPersisted(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:queue_failed?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&FailedJobRecord{}))

	m := newTestManager(t)
	m.SetMaxRetry(2)
	m.UseDB(db)

	raw := []byte(`{"type":"*queue.notifyJob","payload":{"lead_id":9,"kind":"broken"}}`)
	require.NoError(t, m.process(context.Background(), raw))

	failed := m.FailedJobs()
	require.Len(t, failed, 1)
	assert.Equal(t, 2, failed[0].Attempts)
	assert.Equal(t, "*queue.notifyJob", failed[0].Type)

	var rec FailedJobRecord
	require.NoError(t, db.First(&rec).Error)
	assert.Equal(t, "smtp 421 try later", rec.Error)
	assert.JSONEq(t, `{"lead_id":9,"kind":"broken"}`, rec.Payload)
}

func TestMemoryDriverFull(t *testing.T) {
	d := NewMemoryDriver(1)
	ctx := context.Background()
	require.NoError(t, d.Push(ctx, []byte("a")))
	assert.ErrorIs(t, d.Push(ctx, []byte("b")), ErrQueueFull)
	assert.Equal(t, 1, d.Len())
}
