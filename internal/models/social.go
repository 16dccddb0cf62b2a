package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post types supported by the batch feed.
const (
	PostTypeGeneral     = "general"
	PostTypeOpportunity = "opportunity"
	PostTypeQuestion    = "question"
)

// Post is a feed entry published into one batch.
type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	AuthorID  string    `gorm:"size:36;index;not null" json:"author_id"`
	BatchID   string    `gorm:"size:64;index;not null" json:"batch_id"`
	Type      string    `gorm:"size:32;not null;default:general" json:"type"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Author    *User     `json:"author,omitempty"`
	Comments  []Comment `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Likes     []Like    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Comment is a reply attached to a feed post.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;index;not null" json:"post_id"`
	AuthorID  string    `gorm:"size:36;index;not null" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Author    *User     `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Like records a single user's reaction to a post. The unique index on
// (post_id, user_id) is the source of truth for the one-like-per-user rule.
type Like struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_post_user_like" json:"post_id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_post_user_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
