package models

import "time"

// DefaultRobots is applied when an SEO row is saved without a directive.
const DefaultRobots = "index, follow"

// SEOSetting holds the meta tags for one page path.
type SEOSetting struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PagePath      string    `gorm:"size:255;not null;uniqueIndex" json:"page_path"`
	Title         string    `gorm:"size:255" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	Keywords      string    `gorm:"type:text" json:"keywords"`
	OGTitle       string    `gorm:"size:255" json:"og_title"`
	OGDescription string    `gorm:"type:text" json:"og_description"`
	OGImage       string    `gorm:"size:1024" json:"og_image"`
	CanonicalURL  string    `gorm:"size:1024" json:"canonical_url"`
	Robots        string    `gorm:"size:100" json:"robots"`
	IsActive      bool      `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
