package models

import "time"

const (
	LeadContact = "contact"
	LeadJob     = "job"
	LeadPartner = "partner"

	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadQualified = "qualified"
	LeadClosed    = "closed"
)

// Lead is an inquiry captured by one of the public forms. Job and partner
// applications reuse the row with their extra fields filled in.
type Lead struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;not null;index" json:"email"`
	Phone       string    `gorm:"size:50" json:"phone,omitempty"`
	Subject     string    `gorm:"size:255" json:"subject,omitempty"`
	Message     string    `gorm:"type:text" json:"message,omitempty"`
	Type        string    `gorm:"size:20;not null;index" json:"type"`
	Status      string    `gorm:"size:20;not null;index" json:"status"`
	Company     string    `gorm:"size:255" json:"company,omitempty"`
	PartnerType string    `gorm:"size:100" json:"partner_type,omitempty"`
	Location    string    `gorm:"size:255" json:"location,omitempty"`
	Position    string    `gorm:"size:255" json:"position,omitempty"`
	Experience  string    `gorm:"size:50" json:"experience,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
