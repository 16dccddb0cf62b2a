package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/repository"
)

func setupEventService(t *testing.T) (EventService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t, &models.User{}, &models.Event{}, &models.EventRsvp{})
	return NewEventService(repository.NewEventRepository(db), testValidator(), testLogger()), db
}

func TestEventServiceRsvpRejectsUnknownStatus(t *testing.T) {
	svc, db := setupEventService(t)
	host := seedUser(t, db, "host@example.com")

	event, err := svc.CreateEvent(context.Background(), host.ID, "batch-2009", dto.EventCreateRequest{
		Title:    "Reunion dinner",
		StartsAt: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.SetRsvp(context.Background(), event.ID, host.ID, "attending")
	require.ErrorIs(t, err, ErrInvalidRsvpStatus)
}

func TestEventServiceRsvpIsIdempotentPerUser(t *testing.T) {
	svc, db := setupEventService(t)
	host := seedUser(t, db, "host@example.com")
	guest := seedUser(t, db, "guest@example.com")

	event, err := svc.CreateEvent(context.Background(), host.ID, "batch-2009", dto.EventCreateRequest{
		Title:    "Reunion dinner",
		StartsAt: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	first, err := svc.SetRsvp(context.Background(), event.ID, guest.ID, models.RsvpStatusGoing)
	require.NoError(t, err)
	require.Equal(t, models.RsvpStatusGoing, first.Status)

	changed, err := svc.SetRsvp(context.Background(), event.ID, guest.ID, models.RsvpStatusMaybe)
	require.NoError(t, err)
	require.Equal(t, models.RsvpStatusMaybe, changed.Status)

	var rows int64
	require.NoError(t, db.Model(&models.EventRsvp{}).Where("event_id = ? AND user_id = ?", event.ID, guest.ID).Count(&rows).Error)
	require.Equal(t, int64(1), rows, "changing the answer must not grow the attendance list")
}

func TestEventServiceGoingCountDerivedFromRsvps(t *testing.T) {
	svc, db := setupEventService(t)
	host := seedUser(t, db, "host@example.com")
	guest := seedUser(t, db, "guest@example.com")
	maybe := seedUser(t, db, "maybe@example.com")

	event, err := svc.CreateEvent(context.Background(), host.ID, "batch-2009", dto.EventCreateRequest{
		Title:        "Futsal night",
		LocationText: "Old school gym",
		StartsAt:     time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.SetRsvp(context.Background(), event.ID, host.ID, models.RsvpStatusGoing)
	require.NoError(t, err)
	_, err = svc.SetRsvp(context.Background(), event.ID, guest.ID, models.RsvpStatusGoing)
	require.NoError(t, err)
	_, err = svc.SetRsvp(context.Background(), event.ID, maybe.ID, models.RsvpStatusMaybe)
	require.NoError(t, err)

	loaded, err := svc.GetEvent(context.Background(), event.ID, maybe.ID)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.GoingCount)
	require.Equal(t, models.RsvpStatusMaybe, loaded.MyStatus)
	require.Len(t, loaded.Rsvps, 3)
}

func TestEventServiceRsvpUnknownEvent(t *testing.T) {
	svc, db := setupEventService(t)
	guest := seedUser(t, db, "guest@example.com")

	_, err := svc.SetRsvp(context.Background(), "no-such-event", guest.ID, models.RsvpStatusGoing)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
