package sse_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudeviagro/backoffice/pkg/sse"
)

func TestStreamFrames(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/mirror/sync-all/stream", nil)

	s, err := sse.New(rec, req)
	require.NoError(t, err)
	require.NoError(t, s.Send("progress", map[string]any{"id": "p-1", "ok": true}))
	require.NoError(t, s.Comment("ping"))
	require.NoError(t, s.Send("done", map[string]int{"synced": 1}))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t,
		"id: 1\nevent: progress\ndata: {\"id\":\"p-1\",\"ok\":true}\n\n"+
			": ping\n\n"+
			"id: 2\nevent: done\ndata: {\"synced\":1}\n\n",
		rec.Body.String())
}

func TestStreamStopsAfterDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	s, err := sse.New(httptest.NewRecorder(), req)
	require.NoError(t, err)

	cancel()
	<-s.Done()
	assert.ErrorIs(t, s.Send("progress", 1), sse.ErrClosed)
	assert.ErrorIs(t, s.Comment("ping"), sse.ErrClosed)
}

type plainWriter struct{ http.ResponseWriter }

func TestStreamNeedsFlusher(t *testing.T) {
	_, err := sse.New(plainWriter{httptest.NewRecorder()}, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, sse.ErrUnsupported)
}
