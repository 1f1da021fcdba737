package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sudeviagro/backoffice/pkg/http"
	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/metrics"
)

const (
	StatusSuccess          = "success"
	StatusSimulatedSuccess = "simulated_success"
	StatusError            = "error"
)

// Result is the outcome of pushing one product.
type Result struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Status      string `json:"status"`
	GMCID       string `json:"gmcId,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Summary aggregates a push run.
type Summary struct {
	Success     bool     `json:"success"`
	SyncedCount int      `json:"syncedCount"`
	ErrorCount  int      `json:"errorCount"`
	Results     []Result `json:"results"`
	Message     string   `json:"message"`
}

// Pusher sends products to the merchant Content API.
type Pusher struct {
	Endpoint string
	Token    string
	Simulate bool
	Timeout  time.Duration
	Attempts int
}

// offer is the Content API product resource.
type offer struct {
	OfferID               string   `json:"offerId"`
	Title                 string   `json:"title"`
	Description           string   `json:"description,omitempty"`
	Link                  string   `json:"link"`
	ImageLink             string   `json:"imageLink,omitempty"`
	ContentLanguage       string   `json:"contentLanguage"`
	TargetCountry         string   `json:"targetCountry"`
	Channel               string   `json:"channel"`
	Availability          string   `json:"availability"`
	Condition             string   `json:"condition"`
	Price                 price    `json:"price"`
	Brand                 string   `json:"brand"`
	ProductTypes          []string `json:"productTypes,omitempty"`
	GoogleProductCategory string   `json:"googleProductCategory"`
	GTIN                  string   `json:"gtin,omitempty"`
	MPN                   string   `json:"mpn"`
}

type price struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

func toOffer(it Item, s Settings) offer {
	o := offer{
		OfferID:               it.ID,
		Title:                 it.Title,
		Description:           it.Description,
		Link:                  it.Link,
		ImageLink:             it.ImageLink,
		ContentLanguage:       s.Language,
		TargetCountry:         s.Country,
		Channel:               "online",
		Availability:          it.Availability,
		Condition:             it.Condition,
		Price:                 price{Value: fmt.Sprintf("%.2f", it.PriceValue), Currency: it.Currency},
		Brand:                 it.Brand,
		GoogleProductCategory: it.GoogleProductCategory,
		GTIN:                  it.GTIN,
		MPN:                   it.MPN,
	}
	if it.ProductType != "" {
		o.ProductTypes = []string{it.ProductType}
	}
	return o
}

// Push sends every product, continuing past per-item failures. The only
// error returned is ErrNoMerchantID or a cancelled context.
func (p *Pusher) Push(ctx context.Context, s Settings, products []Product) (Summary, error) {
	if strings.TrimSpace(s.MerchantID) == "" {
		return Summary{}, ErrNoMerchantID
	}
	s = s.withDefaults()
	log := logger.WithCtx(ctx).With("merchant_id", s.MerchantID, "simulate", p.Simulate)
	log.Info("merchant push started", "products", len(products))

	sum := Summary{Results: make([]Result, 0, len(products))}
	for _, it := range Items(s, products) {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res := Result{ProductID: it.ID, ProductName: it.Title}
		if p.Simulate {
			res.Status = StatusSimulatedSuccess
			res.GMCID = "gmc_" + it.ID
		} else if id, err := p.insert(ctx, s, it); err != nil {
			res.Status = StatusError
			res.Error = err.Error()
			log.Warn("merchant push item failed", "product_id", it.ID, "error", err)
		} else {
			res.Status = StatusSuccess
			res.GMCID = id
		}

		metrics.FeedItems.WithLabelValues(res.Status).Inc()
		if res.Status == StatusError {
			sum.ErrorCount++
		} else {
			sum.SyncedCount++
		}
		sum.Results = append(sum.Results, res)
	}

	sum.Success = true
	switch {
	case p.Simulate:
		sum.Message = "Sync simulated successfully. Set MERCHANT_MODE=live with an API token to push for real."
	case sum.ErrorCount == 0:
		sum.Message = fmt.Sprintf("Synced %d product(s) to Merchant Center", sum.SyncedCount)
	default:
		sum.Message = fmt.Sprintf("Synced %d product(s), %d failed", sum.SyncedCount, sum.ErrorCount)
	}
	log.Info("merchant push finished", "synced", sum.SyncedCount, "failed", sum.ErrorCount)
	return sum, nil
}

func (p *Pusher) insert(ctx context.Context, s Settings, it Item) (string, error) {
	endpoint := strings.TrimRight(p.Endpoint, "/") + "/" + url.PathEscape(s.MerchantID) + "/products"

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 2
	}

	resp, err := http.Post(endpoint).
		Bearer(p.Token).
		Body(toOffer(it, s)).
		Timeout(timeout).
		Retry(attempts, time.Second).
		WithContext(ctx).
		Send()
	if err != nil {
		return "", err
	}
	if err := resp.Throw(); err != nil {
		return "", err
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := resp.JSON(&created); err != nil || created.ID == "" {
		return "gmc_" + it.ID, nil
	}
	return created.ID, nil
}
