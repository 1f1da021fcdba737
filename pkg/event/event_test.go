package event_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudeviagro/backoffice/pkg/event"
)

func TestFireCallsListenersInOrder(t *testing.T) {
	d := event.NewDispatcher()
	var got []string
	d.Listen(event.ProductSaved, func(_ context.Context, p any) error {
		got = append(got, "first:"+p.(string))
		return nil
	})
	d.Listen(event.ProductSaved, func(_ context.Context, p any) error {
		got = append(got, "second:"+p.(string))
		return nil
	})

	require.NoError(t, d.Fire(context.Background(), event.ProductSaved, "p-1"))
	assert.Equal(t, []string{"first:p-1", "second:p-1"}, got)
	assert.False(t, d.HasListeners(event.ProductDeleted))
}

func TestFireContinuesAfterFailure(t *testing.T) {
	d := event.NewDispatcher()
	boom := errors.New("mirror down")
	called := false
	d.Listen(event.ProductDeleted, func(context.Context, any) error { return boom })
	d.Listen(event.ProductDeleted, func(context.Context, any) error { panic("bad listener") })
	d.Listen(event.ProductDeleted, func(context.Context, any) error {
		called = true
		return nil
	})

	err := d.Fire(context.Background(), event.ProductDeleted, "p-2")
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "panicked")
	assert.True(t, called)
}

func TestFlush(t *testing.T) {
	d := event.NewDispatcher()
	d.Listen(event.LeadCreated, func(context.Context, any) error { return nil })
	d.Flush()
	assert.False(t, d.HasListeners(event.LeadCreated))
}
