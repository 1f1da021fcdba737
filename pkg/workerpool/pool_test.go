package workerpool_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudeviagro/backoffice/pkg/workerpool"
)

func TestSubmitRunsEveryTask(t *testing.T) {
	pool := workerpool.New("test", 4)
	defer pool.Shutdown()

	// fits the 2*size buffer even if no worker has started yet
	const n = 8
	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		require.NoError(t, pool.Submit(func(context.Context) {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	assert.EqualValues(t, n, count.Load())
}

func TestSubmitReportsFull(t *testing.T) {
	pool := workerpool.New("test", 1)
	blocker := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, pool.Submit(func(context.Context) {
		close(started)
		<-blocker
	}))
	<-started

	// buffer is 2*size
	require.NoError(t, pool.Submit(func(context.Context) {}))
	require.NoError(t, pool.Submit(func(context.Context) {}))
	assert.ErrorIs(t, pool.Submit(func(context.Context) {}), workerpool.ErrPoolFull)
	assert.Equal(t, 2, pool.Pending())

	close(blocker)
	pool.Shutdown()
}

func TestSubmitAfterShutdown(t *testing.T) {
	pool := workerpool.New("test", 2)
	pool.Shutdown()
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(func(context.Context) {}), workerpool.ErrPoolClosed)
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	pool := workerpool.New("test", 1)
	defer pool.Shutdown()

	require.NoError(t, pool.Submit(func(context.Context) { panic("boom") }))

	done := make(chan struct{})
	require.NoError(t, pool.Submit(func(context.Context) { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive a panicking task")
	}
}

func TestShutdownDrainsQueue(t *testing.T) {
	pool := workerpool.New("test", 2)
	var count atomic.Int64
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.Submit(func(ctx context.Context) {
			time.Sleep(time.Millisecond)
			count.Add(1)
		}))
	}
	pool.Shutdown()
	assert.EqualValues(t, 4, count.Load())
}
