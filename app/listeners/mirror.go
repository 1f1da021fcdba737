// Package listeners binds catalog events to their side effects.
package listeners

import (
	"context"
	"fmt"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/pkg/event"
)

// Register subscribes the mirror to product changes on d.
func Register(d *event.Dispatcher, m *services.MirrorService) {
	d.Listen(event.ProductSaved, MirrorProduct(m))
	d.Listen(event.ProductDeleted, ForgetProduct(m))
}

// MirrorProduct queues an upsert of the saved product. It returns as soon as
// the write is queued.
func MirrorProduct(m *services.MirrorService) event.Handler {
	return func(ctx context.Context, payload any) error {
		p, ok := payload.(models.Product)
		if !ok {
			return fmt.Errorf("listeners: %s payload is %T, want models.Product", event.ProductSaved, payload)
		}
		m.EnqueueUpsert(ctx, p)
		return nil
	}
}

// ForgetProduct queues removal of a deleted product from the mirror.
func ForgetProduct(m *services.MirrorService) event.Handler {
	return func(ctx context.Context, payload any) error {
		id, ok := payload.(string)
		if !ok {
			return fmt.Errorf("listeners: %s payload is %T, want string", event.ProductDeleted, payload)
		}
		m.EnqueueDelete(ctx, id)
		return nil
	}
}
