// Package feed renders the Google Merchant product feed and pushes
// products to the Content API one item at a time.
package feed

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Namespace       = "http://base.google.com/ns/1.0"
	GoogleCategory  = "Food, Beverages & Tobacco"
	DefaultCurrency = "INR"
	DefaultCountry  = "IN"
	DefaultLanguage = "en"
	DefaultBrand    = "Sudevi Agro Foods"
)

// ErrNoMerchantID is returned by Push when the settings lack a merchant id.
var ErrNoMerchantID = errors.New("feed: merchant id not configured")

// Settings is the subset of the merchant configuration the feed needs.
type Settings struct {
	MerchantID string `json:"merchant_id"`
	Currency   string `json:"currency"`
	Country    string `json:"country"`
	Language   string `json:"language"`
	Brand      string `json:"brand"`
	SiteURL    string `json:"-"`
}

func (s Settings) withDefaults() Settings {
	if s.Currency == "" {
		s.Currency = DefaultCurrency
	}
	if s.Country == "" {
		s.Country = DefaultCountry
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.Brand == "" {
		s.Brand = DefaultBrand
	}
	s.SiteURL = strings.TrimRight(s.SiteURL, "/")
	return s
}

// Product is a catalog product as the feed sees it.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	ImageURL    string   `json:"image_url"`
	GTIN        string   `json:"gtin,omitempty"`
}

// Item is one feed entry with every attribute resolved.
type Item struct {
	ID                    string
	Title                 string
	Description           string
	Link                  string
	ImageLink             string
	Condition             string
	Availability          string
	PriceValue            float64
	Currency              string
	Brand                 string
	ProductType           string
	GoogleProductCategory string
	GTIN                  string
	MPN                   string
}

// Price renders the g:price value, e.g. "149.00 INR".
func (it Item) Price() string {
	return fmt.Sprintf("%.2f %s", it.PriceValue, it.Currency)
}

// Items resolves products into feed items. Products without a price are
// listed at zero.
func Items(s Settings, products []Product) []Item {
	s = s.withDefaults()
	out := make([]Item, 0, len(products))
	for _, p := range products {
		var price float64
		if p.Price != nil {
			price = *p.Price
		}
		out = append(out, Item{
			ID:                    p.ID,
			Title:                 p.Name,
			Description:           p.Description,
			Link:                  s.SiteURL + "/products#" + p.ID,
			ImageLink:             p.ImageURL,
			Condition:             "new",
			Availability:          "in stock",
			PriceValue:            price,
			Currency:              s.Currency,
			Brand:                 s.Brand,
			ProductType:           p.Category,
			GoogleProductCategory: GoogleCategory,
			GTIN:                  p.GTIN,
			MPN:                   p.ID,
		})
	}
	return out
}
