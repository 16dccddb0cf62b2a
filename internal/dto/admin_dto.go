package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/alumlink/alumlink-api/internal/models"
)

// AdminUserListQuery narrows the admin user listing.
type AdminUserListQuery struct {
	Search   string `query:"search" validate:"omitempty,max=255"`
	Role     string `query:"role" validate:"omitempty,oneof=member admin"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// AdminUserListResponse wraps paged user results.
type AdminUserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
}

// AdminRoleUpdateRequest changes a user's platform role.
type AdminRoleUpdateRequest struct {
	Role string `json:"role" validate:"required,oneof=member admin"`
}

// AdStatusUpdateRequest moves an advertisement through its moderation cycle.
type AdStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,max=32"`
}

// AdResponse is the back-office view of an advertisement.
type AdResponse struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	ImageURL    string      `json:"image_url,omitempty"`
	LinkURL     string      `json:"link_url,omitempty"`
	Placement   string      `json:"placement"`
	Budget      float64     `json:"budget"`
	Status      string      `json:"status"`
	Priority    int         `json:"priority"`
	StartsAt    *time.Time  `json:"starts_at,omitempty"`
	EndsAt      *time.Time  `json:"ends_at,omitempty"`
	Advertiser  UserSummary `json:"advertiser"`
	Impressions int64       `json:"impressions"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewAdResponse converts an advertisement with its impression total to DTO.
func NewAdResponse(ad models.Advertisement, impressions int64) AdResponse {
	return AdResponse{
		ID:          ad.ID,
		Title:       ad.Title,
		Content:     ad.Content,
		ImageURL:    ad.ImageURL,
		LinkURL:     ad.LinkURL,
		Placement:   ad.Placement,
		Budget:      ad.Budget,
		Status:      ad.Status,
		Priority:    ad.Priority,
		StartsAt:    ad.StartsAt,
		EndsAt:      ad.EndsAt,
		Advertiser:  NewUserSummary(ad.Advertiser),
		Impressions: impressions,
		CreatedAt:   ad.CreatedAt,
	}
}

// ActivityLogResponse is one audit trail entry.
type ActivityLogResponse struct {
	ID         string            `json:"id"`
	ActorID    string            `json:"actor_id"`
	ActorRole  string            `json:"actor_role"`
	Action     string            `json:"action"`
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id,omitempty"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewActivityLogResponse converts an audit entry to its DTO.
func NewActivityLogResponse(entry models.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   entry.Metadata,
		CreatedAt:  entry.CreatedAt,
	}
}

// ActivityLogListResponse wraps paged audit results.
type ActivityLogListResponse struct {
	Entries []ActivityLogResponse `json:"entries"`
	Total   int64                 `json:"total"`
}
