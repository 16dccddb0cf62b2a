package dto

import (
	"time"

	"github.com/alumlink/alumlink-api/internal/models"
)

// EventCreateRequest is the payload for scheduling an event.
type EventCreateRequest struct {
	Title        string     `json:"title" validate:"required,min=3,max=255"`
	Description  string     `json:"description" validate:"omitempty,max=8000"`
	LocationText string     `json:"location_text" validate:"omitempty,max=500"`
	StartsAt     time.Time  `json:"starts_at" validate:"required"`
	EndsAt       *time.Time `json:"ends_at"`
	MaxAttendees *int       `json:"max_attendees" validate:"omitempty,gt=0"`
}

// RsvpRequest is the payload for answering an event invitation.
type RsvpRequest struct {
	Status string `json:"status" validate:"required,oneof=going maybe not_going"`
}

// RsvpResponse is the serialized representation of one RSVP.
type RsvpResponse struct {
	EventID   string      `json:"event_id"`
	User      UserSummary `json:"user"`
	Status    string      `json:"status"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewRsvpResponse converts an RSVP model into a DTO.
func NewRsvpResponse(rsvp models.EventRsvp) RsvpResponse {
	return RsvpResponse{
		EventID:   rsvp.EventID,
		User:      NewUserSummary(rsvp.User),
		Status:    rsvp.Status,
		UpdatedAt: rsvp.UpdatedAt,
	}
}

// EventResponse is the serialized representation of an event with attendance.
type EventResponse struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	LocationText string         `json:"location_text,omitempty"`
	StartsAt     time.Time      `json:"starts_at"`
	EndsAt       *time.Time     `json:"ends_at,omitempty"`
	MaxAttendees *int           `json:"max_attendees,omitempty"`
	Creator      UserSummary    `json:"creator"`
	Rsvps        []RsvpResponse `json:"rsvps"`
	GoingCount   int            `json:"going_count"`
	MyStatus     string         `json:"my_status,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// NewEventResponse converts an event model into a DTO. The going count is
// derived from the RSVP rows, never from a stored counter.
func NewEventResponse(event models.Event, viewerID string) EventResponse {
	rsvps := make([]RsvpResponse, 0, len(event.Rsvps))
	going := 0
	myStatus := ""
	for _, rsvp := range event.Rsvps {
		rsvps = append(rsvps, NewRsvpResponse(rsvp))
		if rsvp.Status == models.RsvpStatusGoing {
			going++
		}
		if rsvp.UserID == viewerID {
			myStatus = rsvp.Status
		}
	}

	return EventResponse{
		ID:           event.ID,
		Title:        event.Title,
		Description:  event.Description,
		LocationText: event.LocationText,
		StartsAt:     event.StartsAt,
		EndsAt:       event.EndsAt,
		MaxAttendees: event.MaxAttendees,
		Creator:      NewUserSummary(event.Creator),
		Rsvps:        rsvps,
		GoingCount:   going,
		MyStatus:     myStatus,
		CreatedAt:    event.CreatedAt,
	}
}
