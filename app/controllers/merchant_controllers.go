package controllers

import (
	"errors"
	"net/http"

	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/pkg/ctx"
	"github.com/sudeviagro/backoffice/pkg/feed"
)

const feedContentType = "application/xml; charset=utf-8"

type MerchantController struct {
	merchant *services.MerchantService
}

func NewMerchantController(merchant *services.MerchantService) *MerchantController {
	return &MerchantController{merchant: merchant}
}

func (mc *MerchantController) Show(c *ctx.Context) {
	v, err := mc.merchant.View(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(v)
}

func (mc *MerchantController) Save(c *ctx.Context) {
	var in services.MerchantInput
	if !c.BindJSON(&in) {
		return
	}
	v, err := mc.merchant.Save(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(v)
}

// Download sends the freshly built feed as google-merchant-feed.xml.
func (mc *MerchantController) Download(c *ctx.Context) {
	data, err := mc.merchant.FeedXML(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Attachment("google-merchant-feed.xml", feedContentType, data)
}

func (mc *MerchantController) Publish(c *ctx.Context) {
	url, err := mc.merchant.Publish(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]string{"feed_url": url})
}

func (mc *MerchantController) Sync(c *ctx.Context) {
	sum, err := mc.merchant.Sync(c.Context())
	if errors.Is(err, feed.ErrNoMerchantID) {
		c.Error(http.StatusBadRequest, "Merchant ID not configured")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(sum)
}

// Feed serves the published feed to crawlers.
func (mc *MerchantController) Feed(c *ctx.Context) {
	data, err := mc.merchant.PublishedFeed(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.SetHeader("Cache-Control", "public, max-age=3600")
	c.Blob(http.StatusOK, feedContentType, data)
}
