// Package queue runs background jobs with retries.
//
//	queue.Register(func() queue.Job { return &jobs.SendLeadNotification{} })
//	queue.Dispatch(ctx, &jobs.SendLeadNotification{LeadID: lead.ID})
//	queue.StartWorkers(ctx, 2)
//
// Jobs are JSON-encoded into an envelope keyed by their Go type name, so
// the same payload can travel through the memory or the Redis driver.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/metrics"
	"gorm.io/gorm"
)

// Job is a unit of background work. A non-nil error triggers a retry.
type Job interface {
	Handle(ctx context.Context) error
}

// Driver stores encoded envelopes.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	// Pop blocks until a payload is ready. It may return (nil, nil) on an
	// idle timeout.
	Pop(ctx context.Context) ([]byte, error)
}

// ErrUnregistered is returned when an envelope names an unknown job type.
var ErrUnregistered = errors.New("queue: unregistered job type")

type FailedJob struct {
	Type     string
	Job      Job
	Err      error
	FailedAt time.Time
	Attempts int
}

type envelope struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	QueuedAt time.Time       `json:"queued_at"`
}

// Manager owns a driver, the job registry and the failed-job log.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	maxRetry int
	backoff  time.Duration
	db       *gorm.DB
	failed   []FailedJob
}

func New(d Driver) *Manager {
	return &Manager{
		driver:   d,
		registry: make(map[string]func() Job),
		maxRetry: 3,
		backoff:  time.Second,
	}
}

var std = New(NewMemoryDriver(1000))

// Default returns the process-wide manager.
func Default() *Manager { return std }

func SetDriver(d Driver)                        { std.SetDriver(d) }
func SetMaxRetry(n int)                         { std.SetMaxRetry(n) }
func SetBackoff(d time.Duration)                { std.SetBackoff(d) }
func Register(factory func() Job)               { std.Register(factory) }
func Dispatch(ctx context.Context, j Job) error { return std.Dispatch(ctx, j) }
func FailedJobs() []FailedJob                   { return std.FailedJobs() }

// StartWorkers starts n workers on the default manager.
func StartWorkers(ctx context.Context, n int) *sync.WaitGroup { return std.Start(ctx, n) }

func (m *Manager) SetDriver(d Driver) {
	m.mu.Lock()
	m.driver = d
	m.mu.Unlock()
}

// SetMaxRetry sets the number of attempts before a job is recorded as failed.
func (m *Manager) SetMaxRetry(n int) {
	if n < 1 {
		n = 1
	}
	m.mu.Lock()
	m.maxRetry = n
	m.mu.Unlock()
}

// SetBackoff sets the base delay; attempt k waits k*d.
func (m *Manager) SetBackoff(d time.Duration) {
	m.mu.Lock()
	m.backoff = d
	m.mu.Unlock()
}

// Register makes a job type decodable. The registry key is the %T name of
// the value the factory returns.
func (m *Manager) Register(factory func() Job) {
	name := fmt.Sprintf("%T", factory())
	m.mu.Lock()
	m.registry[name] = factory
	m.mu.Unlock()
}

// Dispatch encodes job and pushes it onto the driver.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	typeName := fmt.Sprintf("%T", job)
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal %s: %w", typeName, err)
	}
	raw, err := json.Marshal(envelope{Type: typeName, Payload: payload, QueuedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()
	if err := d.Push(ctx, raw); err != nil {
		return fmt.Errorf("queue: push %s: %w", typeName, err)
	}
	logger.WithCtx(ctx).Debug("queue: dispatched", "type", typeName)
	return nil
}

// Start launches n workers that stop when ctx is cancelled. Wait on the
// returned group to drain in-flight jobs.
func (m *Manager) Start(ctx context.Context, n int) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n)
	return &wg
}

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		m.mu.RLock()
		d := m.driver
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}
		if err := m.process(ctx, raw); err != nil {
			logger.Error("queue: drop envelope", "error", err)
		}
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("queue: bad envelope: %w", err)
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnregistered, env.Type)
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		return fmt.Errorf("queue: decode %s: %w", env.Type, err)
	}
	m.run(ctx, env.Type, job)
	return nil
}

func (m *Manager) run(ctx context.Context, typeName string, job Job) {
	m.mu.RLock()
	attempts, backoff := m.maxRetry, m.backoff
	m.mu.RUnlock()

	log := logger.WithCtx(ctx).With("type", typeName)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = job.Handle(ctx); lastErr == nil {
			metrics.RecordQueueJob(typeName, "processed")
			log.Info("queue: job processed", "attempt", attempt)
			return
		}
		log.Warn("queue: job failed", "attempt", attempt, "error", lastErr)
		if attempt < attempts && !sleep(ctx, time.Duration(attempt)*backoff) {
			break
		}
	}

	metrics.RecordQueueJob(typeName, "failed")
	m.recordFailure(ctx, typeName, job, lastErr, attempts)
	log.Error("queue: job exhausted retries", "error", lastErr)
}

// FailedJobs returns the failures seen by this process.
func (m *Manager) FailedJobs() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]FailedJob(nil), m.failed...)
}

// sleep waits for d or ctx; it reports false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
