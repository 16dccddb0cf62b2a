package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RSVP statuses accepted for events.
const (
	RsvpStatusGoing    = "going"
	RsvpStatusMaybe    = "maybe"
	RsvpStatusNotGoing = "not_going"
)

// Event is a batch gathering users can RSVP to.
type Event struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	CreatorID    string      `gorm:"size:36;index;not null" json:"creator_id"`
	BatchID      string      `gorm:"size:64;index;not null" json:"batch_id"`
	Title        string      `gorm:"size:255;not null" json:"title"`
	Description  string      `gorm:"type:text" json:"description,omitempty"`
	LocationText string      `gorm:"size:500" json:"location_text,omitempty"`
	StartsAt     time.Time   `gorm:"not null;index" json:"starts_at"`
	EndsAt       *time.Time  `json:"ends_at,omitempty"`
	MaxAttendees *int        `json:"max_attendees,omitempty"`
	Creator      *User       `json:"creator,omitempty"`
	Rsvps        []EventRsvp `gorm:"constraint:OnDelete:CASCADE" json:"rsvps,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EventRsvp holds one user's attendance answer for one event. Re-RSVPing
// overwrites the status; the unique index keeps it to a single row.
type EventRsvp struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	EventID   string    `gorm:"size:36;not null;uniqueIndex:idx_event_user_rsvp" json:"event_id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_event_user_rsvp" json:"user_id"`
	Status    string    `gorm:"size:16;not null" json:"status"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (r *EventRsvp) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ValidRsvpStatus reports whether the supplied status belongs to the closed set.
func ValidRsvpStatus(status string) bool {
	switch status {
	case RsvpStatusGoing, RsvpStatusMaybe, RsvpStatusNotGoing:
		return true
	}
	return false
}
