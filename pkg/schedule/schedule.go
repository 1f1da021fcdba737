// Package schedule runs named cron tasks on robfig/cron.
//
//	s := schedule.New(config.Timezone())
//	s.Replace("merchant:auto-sync", "@daily", merchant.AutoSync)
//	s.Start()
//	defer s.Stop(ctx)
//
// Specs accept an optional seconds field and the @hourly style descriptors.
// A task still running when its next tick arrives is skipped.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sudeviagro/backoffice/pkg/logger"
)

// Task is a scheduled unit of work.
type Task func(ctx context.Context) error

var ErrUnknownFrequency = errors.New("schedule: unknown frequency")

var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// FrequencySpec maps a merchant sync frequency to a cron descriptor.
func FrequencySpec(freq string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(freq)) {
	case "hourly":
		return "@hourly", nil
	case "daily", "":
		return "@daily", nil
	case "weekly":
		return "@weekly", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFrequency, freq)
}

// Validate reports whether spec parses.
func Validate(spec string) error {
	_, err := parser.Parse(spec)
	return err
}

type Entry struct {
	Name string
	Spec string
	Next time.Time
	Prev time.Time
}

// Scheduler owns a cron runner and a name index so entries can be
// replaced when settings change.
type Scheduler struct {
	mu    sync.Mutex
	cron  *cron.Cron
	ids   map[string]cron.EntryID
	specs map[string]string
	ctx   context.Context
	stop  context.CancelFunc
}

func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	cl := cronLogger{log: logger.L.With("component", "schedule")}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithParser(parser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		ids:   make(map[string]cron.EntryID),
		specs: make(map[string]string),
		ctx:   ctx,
		stop:  cancel,
	}
}

// Add registers task under name. Registering a name twice is an error.
func (s *Scheduler) Add(name, spec string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[name]; ok {
		return fmt.Errorf("schedule: %s already registered", name)
	}
	return s.add(name, spec, task)
}

// Replace registers task under name, removing any previous entry first.
func (s *Scheduler) Replace(name, spec string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(name)
	return s.add(name, spec, task)
}

// Remove drops the entry; unknown names are ignored.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	s.remove(name)
	s.mu.Unlock()
}

func (s *Scheduler) add(name, spec string, task Task) error {
	id, err := s.cron.AddFunc(spec, func() { s.run(name, task) })
	if err != nil {
		return fmt.Errorf("schedule: %s: bad spec %q: %w", name, spec, err)
	}
	s.ids[name] = id
	s.specs[name] = spec
	return nil
}

func (s *Scheduler) remove(name string) {
	if id, ok := s.ids[name]; ok {
		s.cron.Remove(id)
		delete(s.ids, name)
		delete(s.specs, name)
	}
}

func (s *Scheduler) run(name string, task Task) {
	log := logger.L.With("task", name)
	start := time.Now()
	if err := task(s.ctx); err != nil {
		log.Error("schedule: task failed", "error", err, "took", time.Since(start))
		return
	}
	log.Info("schedule: task finished", "took", time.Since(start))
}

// RunNow executes the named task synchronously, outside the cron clock.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	id, ok := s.ids[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("schedule: %s not registered", name)
	}
	s.cron.Entry(id).WrappedJob.Run()
	return ctx.Err()
}

// Entries lists registered tasks sorted by name.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.ids))
	for name, id := range s.ids {
		e := s.cron.Entry(id)
		out = append(out, Entry{Name: name, Spec: s.specs[name], Next: e.Next, Prev: e.Prev})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("schedule: started", "entries", len(s.Entries()))
}

// Stop halts the clock and waits for running tasks or ctx, whichever
// ends first. Task contexts are cancelled once the wait is over.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn("schedule: stop timed out with tasks still running")
	}
	s.stop()
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{ log *slog.Logger }

func (l cronLogger) Info(msg string, kv ...interface{}) {
	l.log.Debug("cron: "+msg, kv...)
}

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.log.Error("cron: "+msg, append(kv, "error", err)...)
}
