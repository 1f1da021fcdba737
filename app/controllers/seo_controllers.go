package controllers

import (
	"net/http"

	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/pkg/ctx"
)

type SEOController struct {
	seo *services.SEOService
}

func NewSEOController(seo *services.SEOService) *SEOController {
	return &SEOController{seo: seo}
}

// Show returns the active metadata for ?path=.
func (sc *SEOController) Show(c *ctx.Context) {
	path := c.Query("path")
	if path == "" {
		c.Error(http.StatusBadRequest, "path is required")
		return
	}
	s, err := sc.seo.ForPath(c.Context(), path)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(s)
}

func (sc *SEOController) Index(c *ctx.Context) {
	list, err := sc.seo.List(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

// Upsert creates or replaces the settings for the given page path.
func (sc *SEOController) Upsert(c *ctx.Context) {
	var in services.SEOInput
	if !c.BindJSON(&in) {
		return
	}
	s, err := sc.seo.Upsert(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(s)
}

func (sc *SEOController) Destroy(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := sc.seo.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
