package mail

import (
	"context"
	"sync"

	"github.com/sudeviagro/backoffice/pkg/logger"
)

// LogDriver logs messages instead of sending them and keeps a copy, which
// makes it the driver for local runs and tests.
type LogDriver struct {
	mu   sync.Mutex
	sent []Envelope
}

func NewLogDriver() *LogDriver { return &LogDriver{} }

func (d *LogDriver) Name() string { return "log" }

func (d *LogDriver) Send(ctx context.Context, env Envelope) error {
	d.mu.Lock()
	d.sent = append(d.sent, env)
	d.mu.Unlock()

	logger.WithCtx(ctx).Info("mail (log driver)", "from", env.From, "to", env.Recipients, "bytes", len(env.Data))
	return nil
}

// Sent returns the envelopes delivered so far.
func (d *LogDriver) Sent() []Envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Envelope(nil), d.sent...)
}
