package models

import "time"

type JobOpening struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Department   string    `gorm:"size:100" json:"department"`
	Location     string    `gorm:"size:255" json:"location"`
	Type         string    `gorm:"size:50" json:"type"`
	Description  string    `gorm:"type:text" json:"description"`
	Requirements []string  `gorm:"type:text;serializer:json" json:"requirements"`
	IsActive     bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
