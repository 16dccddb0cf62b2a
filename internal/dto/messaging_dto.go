package dto

import (
	"time"

	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/repository"
)

// ThreadOpenRequest is the payload for opening (or finding) a conversation.
type ThreadOpenRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,max=36"`
}

// ThreadOpenResponse carries the resolved thread id.
type ThreadOpenResponse struct {
	ThreadID string `json:"thread_id"`
	Created  bool   `json:"created"`
}

// MessageSendRequest is the payload for posting into a thread.
type MessageSendRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

// MessageResponse is the serialized representation of a direct message.
type MessageResponse struct {
	ID        string      `json:"id"`
	ThreadID  string      `json:"thread_id"`
	Sender    UserSummary `json:"sender"`
	SenderID  string      `json:"sender_id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewMessageResponse converts a message model into a DTO.
func NewMessageResponse(message models.DirectMessage) MessageResponse {
	return MessageResponse{
		ID:        message.ID,
		ThreadID:  message.ThreadID,
		Sender:    NewUserSummary(message.Sender),
		SenderID:  message.SenderID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
}

// NewMessageResponseSlice converts a slice of messages into DTOs.
func NewMessageResponseSlice(messages []models.DirectMessage) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		out = append(out, NewMessageResponse(message))
	}
	return out
}

// ThreadSummaryResponse is one inbox entry with the latest message preview.
type ThreadSummaryResponse struct {
	ThreadID    string           `json:"thread_id"`
	Other       UserSummary      `json:"other_user"`
	LastMessage *MessageResponse `json:"last_message,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewThreadSummaryResponse converts an inbox entry into a DTO.
func NewThreadSummaryResponse(entry repository.ThreadListEntry) ThreadSummaryResponse {
	summary := ThreadSummaryResponse{
		ThreadID:  entry.Thread.ID,
		Other:     NewUserSummary(&entry.Other),
		CreatedAt: entry.Thread.CreatedAt,
	}
	if entry.LastMessage != nil {
		preview := NewMessageResponse(*entry.LastMessage)
		summary.LastMessage = &preview
	}
	return summary
}
