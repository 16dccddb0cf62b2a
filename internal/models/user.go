package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles recognised across the platform.
const (
	UserRoleMember = "member"
	UserRoleAdmin  = "admin"
)

// User represents a registered alumni account.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:120;not null" json:"-"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	LastName     string    `gorm:"size:100;not null" json:"last_name"`
	AvatarURL    string    `gorm:"size:500" json:"avatar_url,omitempty"`
	CurrentRole  string    `gorm:"size:255" json:"current_role,omitempty"`
	Bio          string    `gorm:"type:text" json:"bio,omitempty"`
	City         string    `gorm:"size:120" json:"city,omitempty"`
	Country      string    `gorm:"size:120" json:"country,omitempty"`
	LinkedinURL  string    `gorm:"size:500" json:"linkedin_url,omitempty"`
	WebsiteURL   string    `gorm:"size:500" json:"website_url,omitempty"`
	CanHelpWith  string    `gorm:"type:text" json:"can_help_with,omitempty"`
	LookingFor   string    `gorm:"type:text" json:"looking_for,omitempty"`
	Role         string    `gorm:"size:32;not null;default:member" json:"role"`
	IsBanned     bool      `gorm:"not null;default:false" json:"is_banned"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// School groups batches under one institution.
type School struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	City      string    `gorm:"size:120" json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Batch represents a graduating cohort that scopes feed content, events and polls.
type Batch struct {
	ID             string    `gorm:"primaryKey;size:64" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	GraduationYear int       `gorm:"not null" json:"graduation_year"`
	SchoolID       string    `gorm:"size:64;index;not null" json:"school_id"`
	School         *School   `json:"school,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserBatch links a user to a batch they belong to.
type UserBatch struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_user_batch" json:"user_id"`
	BatchID   string    `gorm:"size:64;not null;uniqueIndex:idx_user_batch" json:"batch_id"`
	Role      string    `gorm:"size:32;not null;default:member" json:"role"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (m *UserBatch) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
