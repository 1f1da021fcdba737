// Package workerpool runs fire-and-forget tasks on a fixed set of
// goroutines.
//
// Submit never blocks: when every worker is busy and the buffer is full it
// returns ErrPoolFull and the caller decides whether to drop the work.
//
//	pool := workerpool.New("mirror", 4)
//	defer pool.Shutdown()
//
//	if err := pool.Submit(func(ctx context.Context) { store.Upsert(ctx, p) }); err != nil {
//	    metrics.MirrorDropped.Inc()
//	}
package workerpool

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"

	"github.com/sudeviagro/backoffice/pkg/logger"
)

var (
	ErrPoolFull   = errors.New("workerpool: pool is full")
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

// Task receives the pool context, which is cancelled by Shutdown only after
// queued tasks have drained.
type Task func(ctx context.Context)

// Pool is a bounded goroutine pool.
type Pool struct {
	name   string
	tasks  chan Task
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
}

// New starts size workers with a buffer of 2*size pending tasks.
func New(name string, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		name:   name,
		tasks:  make(chan Task, size*2),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) Name() string { return p.name }

// Submit enqueues task without blocking.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// Pending returns the number of queued tasks not yet picked up.
func (p *Pool) Pending() int { return len(p.tasks) }

// Shutdown stops accepting tasks and waits for queued ones to finish.
// Safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task Task) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("workerpool: task panicked", "pool", p.name, "panic", rec, "stack", string(debug.Stack()))
		}
	}()
	task(p.ctx)
}
