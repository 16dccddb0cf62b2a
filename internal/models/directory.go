package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BusinessProfile is an alumni-owned business listed in the directory.
type BusinessProfile struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	UserID           string    `gorm:"size:36;index;not null" json:"user_id"`
	BusinessName     string    `gorm:"size:255;not null" json:"business_name"`
	Category         string    `gorm:"size:100;index;not null" json:"category"`
	ShortDescription string    `gorm:"type:text;not null" json:"short_description"`
	WebsiteURL       string    `gorm:"size:500" json:"website_url,omitempty"`
	Phone            string    `gorm:"size:50" json:"phone,omitempty"`
	City             string    `gorm:"size:120" json:"city,omitempty"`
	Country          string    `gorm:"size:120" json:"country,omitempty"`
	User             *User     `json:"user,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (b *BusinessProfile) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Job is an opportunity posted to the batch job board.
type Job struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	PosterID     string     `gorm:"size:36;index;not null" json:"poster_id"`
	BatchID      string     `gorm:"size:64;index;not null" json:"batch_id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Company      string     `gorm:"size:255;not null" json:"company"`
	Location     string     `gorm:"size:255" json:"location,omitempty"`
	Type         string     `gorm:"size:32;not null;default:full-time" json:"type"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	Salary       string     `gorm:"size:120" json:"salary,omitempty"`
	ContactEmail string     `gorm:"size:255" json:"contact_email,omitempty"`
	ContactPhone string     `gorm:"size:50" json:"contact_phone,omitempty"`
	IsActive     bool       `gorm:"not null;default:true;index" json:"is_active"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Poster       *User      `json:"poster,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}
