package models

import (
	"time"

	"github.com/sudeviagro/backoffice/pkg/feed"
)

// MerchantSetting is the singleton Google Merchant Center configuration.
// The first row is authoritative.
type MerchantSetting struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	MerchantID    string     `gorm:"size:64" json:"merchant_id"`
	FeedURL       string     `gorm:"size:1024" json:"feed_url"`
	FeedFormat    string     `gorm:"size:10" json:"feed_format"`
	Currency      string     `gorm:"size:3" json:"currency"`
	Country       string     `gorm:"size:2" json:"country"`
	Language      string     `gorm:"size:5" json:"language"`
	Brand         string     `gorm:"size:255" json:"brand"`
	AutoSync      bool       `gorm:"not null" json:"auto_sync"`
	SyncFrequency string     `gorm:"size:10" json:"sync_frequency"`
	IsActive      bool       `gorm:"not null" json:"is_active"`
	LastSync      *time.Time `json:"last_sync"`
	APIEndpoint   string     `gorm:"size:1024" json:"api_endpoint,omitempty"`
	APITokenEnc   string     `gorm:"type:text" json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// FeedSettings projects the row onto what the feed package needs.
func (m MerchantSetting) FeedSettings(siteURL string) feed.Settings {
	return feed.Settings{
		MerchantID: m.MerchantID,
		Currency:   m.Currency,
		Country:    m.Country,
		Language:   m.Language,
		Brand:      m.Brand,
		SiteURL:    siteURL,
	}
}
