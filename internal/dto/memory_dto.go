package dto

import (
	"time"

	"github.com/alumlink/alumlink-api/internal/models"
)

// MemoryCreateRequest is the payload for sharing a memory.
type MemoryCreateRequest struct {
	Title      string    `json:"title" validate:"required,min=2,max=255"`
	Content    string    `json:"content" validate:"required,min=1,max=8000"`
	MemoryDate time.Time `json:"memory_date" validate:"required"`
	ImageURL   string    `json:"image_url" validate:"omitempty,url,max=500"`
}

// MemoryResponse is the serialized representation of a shared memory.
type MemoryResponse struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	ImageURL   string      `json:"image_url,omitempty"`
	MemoryDate time.Time   `json:"memory_date"`
	YearsAgo   int         `json:"years_ago"`
	Author     UserSummary `json:"author"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewMemoryResponse converts a memory model into a DTO, annotating how many
// years have passed since the remembered date.
func NewMemoryResponse(memory models.Memory, now time.Time) MemoryResponse {
	return MemoryResponse{
		ID:         memory.ID,
		Title:      memory.Title,
		Content:    memory.Content,
		ImageURL:   memory.ImageURL,
		MemoryDate: memory.MemoryDate,
		YearsAgo:   now.Year() - memory.MemoryDate.Year(),
		Author:     NewUserSummary(memory.Author),
		CreatedAt:  memory.CreatedAt,
	}
}
