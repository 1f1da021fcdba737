package controllers

import (
	"net/http"

	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/pkg/ctx"
)

// SiteController serves the crawler files of the storefront.
type SiteController struct {
	site *services.SiteService
}

func NewSiteController(site *services.SiteService) *SiteController {
	return &SiteController{site: site}
}

func (sc *SiteController) Sitemap(c *ctx.Context) {
	data, err := sc.site.Sitemap(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.SetHeader("Cache-Control", "public, max-age=3600")
	c.Blob(http.StatusOK, feedContentType, data)
}

func (sc *SiteController) Robots(c *ctx.Context) {
	c.SetHeader("Cache-Control", "public, max-age=86400")
	c.Blob(http.StatusOK, "text/plain; charset=utf-8", sc.site.Robots())
}

// Publish copies both files to the storage disk for static hosting.
func (sc *SiteController) Publish(c *ctx.Context) {
	urls, err := sc.site.Publish(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string][]string{"urls": urls})
}
