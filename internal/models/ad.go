package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Advertisement statuses follow the moderation workflow: submissions start
// pending and an administrator moves them through the rest of the cycle.
const (
	AdStatusPending   = "pending"
	AdStatusActive    = "active"
	AdStatusPaused    = "paused"
	AdStatusRejected  = "rejected"
	AdStatusCompleted = "completed"
)

// Advertisement is a sponsored placement submitted by a member and moderated
// through the admin back-office.
type Advertisement struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	AdvertiserID string     `gorm:"size:36;index;not null" json:"advertiser_id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	ImageURL     string     `gorm:"size:512" json:"image_url,omitempty"`
	LinkURL      string     `gorm:"size:512" json:"link_url,omitempty"`
	Placement    string     `gorm:"size:32;default:feed" json:"placement"`
	Budget       float64    `json:"budget"`
	Status       string     `gorm:"size:32;not null;default:pending;index" json:"status"`
	Priority     int        `json:"priority"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	Advertiser   *User      `json:"advertiser,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (a *Advertisement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AdImpression is one recorded view of an advertisement. Totals shown in the
// back-office are counted from these rows at read time.
type AdImpression struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	AdID      string    `gorm:"size:36;index;not null" json:"ad_id"`
	UserID    string    `gorm:"size:36" json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (i *AdImpression) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
