package models

import "time"

// PageContent is an editable block of a public page.
type PageContent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PageName    string         `gorm:"size:100;not null;index:idx_page_section" json:"page_name"`
	SectionName string         `gorm:"size:100;not null;index:idx_page_section" json:"section_name"`
	ContentType string         `gorm:"size:20;not null" json:"content_type"`
	Content     map[string]any `gorm:"type:text;serializer:json" json:"content"`
	IsActive    bool           `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (PageContent) TableName() string { return "page_content" }
