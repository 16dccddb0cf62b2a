package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alumlink/alumlink-api/internal/models"
)

// EventRepository persists events and their RSVPs.
type EventRepository interface {
	ListByBatch(ctx context.Context, batchID string) ([]models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Find(ctx context.Context, id string) (models.Event, error)
	FindWithRsvps(ctx context.Context, id string) (models.Event, error)
	UpsertRsvp(ctx context.Context, rsvp *models.EventRsvp) error
	FindRsvp(ctx context.Context, eventID, userID string) (models.EventRsvp, error)
	CountRsvps(ctx context.Context, eventID, status string) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository constructs a GORM-backed event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) ListByBatch(ctx context.Context, batchID string) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Preload("Creator").
		Preload("Rsvps").
		Preload("Rsvps.User").
		Order("starts_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Find(ctx context.Context, id string) (models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return models.Event{}, err
	}
	return event, nil
}

func (r *eventRepository) FindWithRsvps(ctx context.Context, id string) (models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Preload("Creator").
		Preload("Rsvps").
		Preload("Rsvps.User").
		First(&event).Error; err != nil {
		return models.Event{}, err
	}
	return event, nil
}

// UpsertRsvp inserts an RSVP or, when one already exists for the
// (event, user) pair, overwrites its status. The conflict target is the
// unique index on that pair, so repeated identical calls leave one row.
func (r *eventRepository) UpsertRsvp(ctx context.Context, rsvp *models.EventRsvp) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(rsvp).Error
}

func (r *eventRepository) FindRsvp(ctx context.Context, eventID, userID string) (models.EventRsvp, error) {
	var rsvp models.EventRsvp
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&rsvp).Error; err != nil {
		return models.EventRsvp{}, err
	}
	return rsvp, nil
}

func (r *eventRepository) CountRsvps(ctx context.Context, eventID, status string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.EventRsvp{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
