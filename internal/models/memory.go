package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Memory is a nostalgic story shared with the batch, anchored to a past date.
type Memory struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	AuthorID   string    `gorm:"size:36;index;not null" json:"author_id"`
	BatchID    string    `gorm:"size:64;index;not null" json:"batch_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	ImageURL   string    `gorm:"size:500" json:"image_url,omitempty"`
	MemoryDate time.Time `gorm:"not null" json:"memory_date"`
	Author     *User     `json:"author,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (m *Memory) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
