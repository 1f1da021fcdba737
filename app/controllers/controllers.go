// Package controllers holds the HTTP handlers. Each controller owns the
// services it needs and writes responses through pkg/ctx.
package controllers

import (
	"errors"
	"net/http"

	"github.com/sudeviagro/backoffice/app/repositories"
	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/pkg/ctx"
	"github.com/sudeviagro/backoffice/pkg/logger"
)

// fail maps service errors onto the envelope. Unknown errors are logged and
// reported as a bare 500.
func fail(c *ctx.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.ValidationError(verr.Fields)
	case errors.Is(err, repositories.ErrNotFound):
		c.NotFound()
	default:
		logger.WithCtx(c.Context()).Error("request failed", "path", c.R.URL.Path, "error", err)
		c.Error(http.StatusInternalServerError, "Internal server error")
	}
}

// idParam reads a numeric {id} or writes a 400.
func idParam(c *ctx.Context) (uint, bool) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.Error(http.StatusBadRequest, "Invalid id")
	}
	return id, ok
}
