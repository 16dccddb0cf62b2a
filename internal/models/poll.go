package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Poll is a batch-scoped question with a closed set of options.
type Poll struct {
	ID        string       `gorm:"primaryKey;size:36" json:"id"`
	AuthorID  string       `gorm:"size:36;index;not null" json:"author_id"`
	BatchID   string       `gorm:"size:64;index;not null" json:"batch_id"`
	Question  string       `gorm:"size:500;not null" json:"question"`
	EndsAt    *time.Time   `json:"ends_at,omitempty"`
	Author    *User        `json:"author,omitempty"`
	Options   []PollOption `gorm:"constraint:OnDelete:CASCADE" json:"options,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PollOption is one selectable answer belonging to a poll.
type PollOption struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	PollID    string     `gorm:"size:36;index;not null" json:"poll_id"`
	Text      string     `gorm:"size:255;not null" json:"text"`
	Votes     []PollVote `gorm:"foreignKey:OptionID;constraint:OnDelete:CASCADE" json:"votes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (o *PollOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// PollVote ties one user to one option. It denormalises the parent poll id so
// the unique index on (poll_id, user_id) spans every option of the poll,
// making one-vote-per-poll a storage guarantee rather than an application
// check alone.
type PollVote struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OptionID  string    `gorm:"size:36;index;not null" json:"option_id"`
	PollID    string    `gorm:"size:36;not null;uniqueIndex:idx_poll_user_vote" json:"poll_id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_poll_user_vote" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (v *PollVote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
