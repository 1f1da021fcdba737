package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sudeviagro/backoffice/pkg/feed"
	"github.com/sudeviagro/backoffice/pkg/mirror"
	"gorm.io/gorm"
)

// Product categories.
const (
	CategoryPickles    = "pickles"
	CategorySpices     = "spices"
	CategorySoya       = "soya"
	CategoryVermicelli = "vermicelli"
)

// Product is a catalog item. The id is a UUID string so it can be mirrored
// and referenced by the merchant feed unchanged.
type Product struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	Name            string         `gorm:"size:255;not null;index" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	Category        string         `gorm:"size:50;not null;index" json:"category"`
	Price           *float64       `json:"price"`
	ImageURL        string         `gorm:"size:1024" json:"image_url"`
	Features        []string       `gorm:"type:text;serializer:json" json:"features"`
	NutritionalInfo map[string]any `gorm:"type:text;serializer:json" json:"nutritional_info,omitempty"`
	IsActive        bool           `gorm:"not null;index" json:"is_active"`
	ShopLink        string         `gorm:"size:1024" json:"shop_link,omitempty"`
	GTIN            string         `gorm:"size:32" json:"gtin,omitempty"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Mirror converts p to the mirror store's shape.
func (p Product) Mirror() mirror.Product {
	return mirror.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Features:    p.Features,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (p Product) Feed() feed.Product {
	return feed.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		GTIN:        p.GTIN,
	}
}
