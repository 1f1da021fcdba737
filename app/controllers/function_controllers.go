package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sudeviagro/backoffice/app/notifications"
	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/pkg/ctx"
	"github.com/sudeviagro/backoffice/pkg/feed"
	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/mirror"
)

// Operations accepted by the sync-products endpoint.
const (
	OpGetMirrorProducts = "get-mysql-products"
	OpSyncToMirror      = "sync-to-mysql"
)

const mirrorHint = "Check MYSQL_* connection settings and MIRROR_MODE"

// FunctionController serves the endpoints the storefront calls directly.
// They answer with {success, error, ...} bodies rather than the envelope.
type FunctionController struct {
	mirror   *services.MirrorService
	merchant *services.MerchantService
	mail     *services.ApplicationEmailService
}

func NewFunctionController(m *services.MirrorService, merchant *services.MerchantService, mail *services.ApplicationEmailService) *FunctionController {
	return &FunctionController{mirror: m, merchant: merchant, mail: mail}
}

// SyncProducts handles GET ?operation=get-mysql-products and
// POST ?operation=sync-to-mysql with {productData}.
func (fc *FunctionController) SyncProducts(c *ctx.Context) {
	op := c.Query("operation")
	switch {
	case c.Method() == http.MethodGet && op == OpGetMirrorProducts:
		list, err := fc.mirror.List(c.Context())
		if err != nil {
			fc.mirrorError(c, err)
			return
		}
		if list == nil {
			list = []mirror.Product{}
		}
		c.JSON(http.StatusOK, map[string]any{"products": list})

	case c.Method() == http.MethodPost && op == OpSyncToMirror:
		var body struct {
			ProductData *mirror.Product `json:"productData"`
		}
		if _, err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
			return
		}
		if body.ProductData == nil {
			c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "productData is required"})
			return
		}
		if err := fc.mirror.Upsert(c.Context(), *body.ProductData); err != nil {
			fc.mirrorError(c, err)
			return
		}
		c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Product synced to MySQL"})

	default:
		c.JSON(http.StatusBadRequest, map[string]any{"error": "Operation not supported"})
	}
}

func (fc *FunctionController) mirrorError(c *ctx.Context, err error) {
	if errors.Is(err, mirror.ErrInvalidProduct) {
		c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}
	logger.WithCtx(c.Context()).Error("mirror operation failed", "error", err)
	c.JSON(http.StatusInternalServerError, map[string]any{
		"success": false,
		"error":   err.Error(),
		"hint":    mirrorHint,
	})
}

type gmcSyncRequest struct {
	Products json.RawMessage `json:"products"`
	Settings *feed.Settings  `json:"settings"`
}

// GMCSync pushes caller-supplied products with caller-supplied settings.
func (fc *FunctionController) GMCSync(c *ctx.Context) {
	var body gmcSyncRequest
	if _, err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	var products []feed.Product
	if len(body.Products) == 0 || body.Products[0] != '[' || json.Unmarshal(body.Products, &products) != nil {
		c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid products data provided"})
		return
	}
	if body.Settings == nil {
		c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "GMC settings not provided"})
		return
	}

	sum, err := fc.merchant.Push(c.Context(), *body.Settings, products)
	if errors.Is(err, feed.ErrNoMerchantID) {
		c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "Merchant ID not configured"})
		return
	}
	if err != nil {
		logger.WithCtx(c.Context()).Error("merchant push failed", "error", err)
		c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sum)
}

type applicationEmailRequest struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// SendApplicationEmail notifies the inbox about a job or partner application.
func (fc *FunctionController) SendApplicationEmail(c *ctx.Context) {
	var body applicationEmailRequest
	if _, err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	err := fc.mail.Send(c.Context(), body.Type, body.Data)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Email sent successfully"})
	case errors.Is(err, notifications.ErrInvalidType):
		c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid email type"})
	case errors.Is(err, notifications.ErrMissingEmail):
		c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "Email address is required"})
	case errors.Is(err, notifications.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid email address"})
	default:
		logger.WithCtx(c.Context()).Error("application email failed", "type", body.Type, "error", err)
		c.JSON(http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
			"details": "Check server logs for more details",
		})
	}
}
