package controllers

import (
	"errors"
	"net/http"

	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/pkg/ctx"
	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/mirror"
	"github.com/sudeviagro/backoffice/pkg/sse"
)

type MirrorController struct {
	mirror *services.MirrorService
}

func NewMirrorController(m *services.MirrorService) *MirrorController {
	return &MirrorController{mirror: m}
}

func (mc *MirrorController) Index(c *ctx.Context) {
	list, err := mc.mirror.List(c.Context())
	if err != nil {
		mirrorFail(c, err)
		return
	}
	c.Success(map[string]any{"mode": mc.mirror.Mode(), "products": list})
}

// SyncAll copies every primary product to the mirror and reports per-item
// failures.
func (mc *MirrorController) SyncAll(c *ctx.Context) {
	report, err := mc.mirror.SyncAll(c.Context(), nil)
	if err != nil {
		mirrorFail(c, err)
		return
	}
	c.Success(report)
}

// SyncAllStream runs SyncAll and emits one "progress" event per product,
// then a "done" event carrying the report.
func (mc *MirrorController) SyncAllStream(c *ctx.Context) {
	stream, err := sse.New(c.W, c.R)
	if err != nil {
		c.Error(http.StatusInternalServerError, err.Error())
		return
	}
	log := logger.WithCtx(c.Context())

	report, err := mc.mirror.SyncAll(c.Context(), func(p services.SyncProgress) {
		if err := stream.Send("progress", p); err != nil {
			log.Debug("mirror stream write failed", "error", err)
		}
	})
	if err != nil {
		stream.Send("error", map[string]string{"error": err.Error()}) //nolint:errcheck
		return
	}
	stream.Send("done", report) //nolint:errcheck
}

func mirrorFail(c *ctx.Context, err error) {
	if errors.Is(err, mirror.ErrDisabled) {
		c.Error(http.StatusServiceUnavailable, "Mirror sync is disabled")
		return
	}
	fail(c, err)
}
