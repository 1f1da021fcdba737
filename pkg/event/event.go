// Package event is an in-process publish/subscribe dispatcher.
//
//	event.Listen(event.ProductSaved, listeners.MirrorProduct(mirrorSvc))
//	event.Fire(ctx, event.ProductSaved, product)
//
// Fire runs listeners on the caller's goroutine. A listener error is logged
// and does not stop the remaining listeners.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sudeviagro/backoffice/pkg/logger"
)

// Names used by the catalog.
const (
	ProductSaved   = "product.saved"
	ProductDeleted = "product.deleted"
	LeadCreated    = "lead.created"
)

type Handler func(ctx context.Context, payload any) error

// Dispatcher maps event names to listeners.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]Handler)}
}

func (d *Dispatcher) Listen(name string, h Handler) {
	d.mu.Lock()
	d.handlers[name] = append(d.handlers[name], h)
	d.mu.Unlock()
}

// Fire calls every listener of name in registration order and returns the
// joined listener errors.
func (d *Dispatcher) Fire(ctx context.Context, name string, payload any) error {
	d.mu.RLock()
	hs := append([]Handler(nil), d.handlers[name]...)
	d.mu.RUnlock()

	var errs []error
	for _, h := range hs {
		if err := safeCall(ctx, h, payload); err != nil {
			logger.WithCtx(ctx).Warn("event: listener failed", "event", name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HasListeners reports whether anything listens for name.
func (d *Dispatcher) HasListeners(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[name]) > 0
}

// Flush removes every listener.
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	d.handlers = make(map[string][]Handler)
	d.mu.Unlock()
}

func safeCall(ctx context.Context, h Handler, payload any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("event: listener panicked: %v", rec)
		}
	}()
	return h(ctx, payload)
}

var std = NewDispatcher()

// Default returns the process-wide dispatcher.
func Default() *Dispatcher { return std }

func Listen(name string, h Handler) { std.Listen(name, h) }

func Fire(ctx context.Context, name string, payload any) error {
	return std.Fire(ctx, name, payload)
}

func Flush() { std.Flush() }
