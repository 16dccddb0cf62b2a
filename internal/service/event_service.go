package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/observability"
	"github.com/alumlink/alumlink-api/internal/repository"
)

// ErrInvalidRsvpStatus indicates a status outside the closed RSVP set.
var ErrInvalidRsvpStatus = errors.New("invalid rsvp status")

// EventService exposes event and attendance use-cases.
type EventService interface {
	ListEvents(ctx context.Context, batchID, viewerID string) ([]dto.EventResponse, error)
	CreateEvent(ctx context.Context, creatorID, batchID string, payload dto.EventCreateRequest) (dto.EventResponse, error)
	GetEvent(ctx context.Context, id, viewerID string) (dto.EventResponse, error)
	SetRsvp(ctx context.Context, eventID, userID, status string) (dto.RsvpResponse, error)
}

type eventService struct {
	events    repository.EventRepository
	validator *validator.Validate
	logger    zerolog.Logger
	sanitizer *bluemonday.Policy
}

// NewEventService constructs an event service.
func NewEventService(events repository.EventRepository, validate *validator.Validate, logger zerolog.Logger) EventService {
	return &eventService{
		events:    events,
		validator: validate,
		logger:    logger.With().Str("component", "event_service").Logger(),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (s *eventService) ListEvents(ctx context.Context, batchID, viewerID string) ([]dto.EventResponse, error) {
	events, err := s.events.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, dto.NewEventResponse(event, viewerID))
	}
	return responses, nil
}

func (s *eventService) CreateEvent(ctx context.Context, creatorID, batchID string, payload dto.EventCreateRequest) (dto.EventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EventResponse{}, err
	}

	event := models.Event{
		CreatorID:    creatorID,
		BatchID:      batchID,
		Title:        strings.TrimSpace(payload.Title),
		Description:  strings.TrimSpace(s.sanitizer.Sanitize(payload.Description)),
		LocationText: strings.TrimSpace(payload.LocationText),
		StartsAt:     payload.StartsAt,
		EndsAt:       payload.EndsAt,
		MaxAttendees: payload.MaxAttendees,
	}

	if err := s.events.Create(ctx, &event); err != nil {
		return dto.EventResponse{}, err
	}

	s.logger.Info().Str("event_id", event.ID).Str("creator_id", creatorID).Msg("event created")

	created, err := s.events.FindWithRsvps(ctx, event.ID)
	if err != nil {
		return dto.EventResponse{}, err
	}
	return dto.NewEventResponse(created, creatorID), nil
}

func (s *eventService) GetEvent(ctx context.Context, id, viewerID string) (dto.EventResponse, error) {
	event, err := s.events.FindWithRsvps(ctx, id)
	if err != nil {
		return dto.EventResponse{}, err
	}
	return dto.NewEventResponse(event, viewerID), nil
}

// SetRsvp records or overwrites the caller's attendance answer. The status is
// validated against the closed set before any write; the storage upsert keeps
// the operation idempotent per (event, user).
func (s *eventService) SetRsvp(ctx context.Context, eventID, userID, status string) (dto.RsvpResponse, error) {
	status = strings.TrimSpace(status)
	if !models.ValidRsvpStatus(status) {
		return dto.RsvpResponse{}, ErrInvalidRsvpStatus
	}

	if _, err := s.events.Find(ctx, eventID); err != nil {
		return dto.RsvpResponse{}, err
	}

	rsvp := models.EventRsvp{
		EventID: eventID,
		UserID:  userID,
		Status:  status,
	}
	if err := s.events.UpsertRsvp(ctx, &rsvp); err != nil {
		return dto.RsvpResponse{}, err
	}

	observability.Interactions().WithLabelValues("rsvp", status).Inc()

	stored, err := s.events.FindRsvp(ctx, eventID, userID)
	if err != nil {
		return dto.RsvpResponse{}, err
	}
	return dto.NewRsvpResponse(stored), nil
}
