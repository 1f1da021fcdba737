package schedule_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudeviagro/backoffice/pkg/schedule"
)

func TestFrequencySpec(t *testing.T) {
	cases := map[string]string{
		"hourly": "@hourly",
		"Daily":  "@daily",
		"":       "@daily",
		"weekly": "@weekly",
	}
	for in, want := range cases {
		got, err := schedule.FrequencySpec(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := schedule.FrequencySpec("fortnightly")
	assert.ErrorIs(t, err, schedule.ErrUnknownFrequency)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, schedule.Validate("@every 5m"))
	assert.NoError(t, schedule.Validate("0 30 3 * * *"))
	assert.NoError(t, schedule.Validate("0 3 * * *"))
	assert.Error(t, schedule.Validate("every tuesday"))
}

func TestAddReplaceRemove(t *testing.T) {
	s := schedule.New(time.UTC)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Add("merchant:auto-sync", "@daily", noop))
	assert.Error(t, s.Add("merchant:auto-sync", "@hourly", noop))
	assert.Error(t, s.Add("broken", "not a spec", noop))

	require.NoError(t, s.Replace("merchant:auto-sync", "@hourly", noop))
	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "@hourly", entries[0].Spec)

	s.Remove("merchant:auto-sync")
	s.Remove("missing")
	assert.Empty(t, s.Entries())
}

func TestRunNow(t *testing.T) {
	s := schedule.New(time.UTC)
	var calls atomic.Int32
	require.NoError(t, s.Add("ok", "@weekly", func(context.Context) error {
		calls.Add(1)
		return nil
	}))
	require.NoError(t, s.Add("fails", "@weekly", func(context.Context) error {
		calls.Add(1)
		return errors.New("push failed")
	}))

	require.NoError(t, s.RunNow(context.Background(), "ok"))
	require.NoError(t, s.RunNow(context.Background(), "fails"))
	assert.EqualValues(t, 2, calls.Load())
	assert.Error(t, s.RunNow(context.Background(), "unknown"))
}

func TestStartStop(t *testing.T) {
	s := schedule.New(nil)
	var calls atomic.Int32
	require.NoError(t, s.Add("tick", "@every 1s", func(context.Context) error {
		calls.Add(1)
		return nil
	}))
	s.Start()
	assert.Eventually(t, func() bool { return calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.False(t, s.Entries()[0].Next.IsZero())
}
