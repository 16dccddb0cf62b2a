package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageThread is a private conversation between exactly two users. PairKey
// holds the lexicographically ordered participant ids ("min:max"); its unique
// index guarantees at most one thread per unordered pair even when two first
// messages race.
type MessageThread struct {
	ID           string              `gorm:"primaryKey;size:36" json:"id"`
	PairKey      string              `gorm:"size:80;uniqueIndex;not null" json:"-"`
	Participants []ThreadParticipant `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	Messages     []DirectMessage     `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (t *MessageThread) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ThreadPairKey returns the canonical unordered-pair key for two user ids.
func ThreadPairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + ":" + b
}

// ThreadParticipant links one user to one thread.
type ThreadParticipant struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ThreadID  string    `gorm:"size:36;not null;uniqueIndex:idx_thread_user" json:"thread_id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_thread_user" json:"user_id"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (p *ThreadParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// DirectMessage is one append-only text unit inside a thread.
type DirectMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ThreadID  string    `gorm:"size:36;index;not null" json:"thread_id"`
	SenderID  string    `gorm:"size:36;index;not null" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Sender    *User     `json:"sender,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID identifier when one has not been provided.
func (m *DirectMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
