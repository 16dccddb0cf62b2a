package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/repository"
)

func setupMemoryService(t *testing.T, now time.Time) (MemoryService, models.User) {
	t.Helper()
	db := setupServiceDB(t, &models.User{}, &models.Memory{})
	svc := NewMemoryService(repository.NewMemoryRepository(db), repository.NewUserRepository(db), testValidator(), testLogger())
	svc.(*memoryService).now = func() time.Time { return now }
	author := seedUser(t, db, "author@example.com")
	return svc, author
}

func TestMemoryServiceRejectsFutureDate(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	svc, author := setupMemoryService(t, now)

	_, err := svc.CreateMemory(context.Background(), author.ID, "batch-2009", dto.MemoryCreateRequest{
		Title:      "Graduation day",
		Content:    "The gym was packed",
		MemoryDate: now.Add(24 * time.Hour),
	})
	require.ErrorIs(t, err, ErrMemoryDateInFuture)
}

func TestMemoryServiceComputesYearsAgo(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	svc, author := setupMemoryService(t, now)

	created, err := svc.CreateMemory(context.Background(), author.ID, "batch-2009", dto.MemoryCreateRequest{
		Title:      "Graduation day",
		Content:    "<b>The gym was packed</b>",
		MemoryDate: time.Date(2003, time.June, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, 23, created.YearsAgo)
	require.Equal(t, "The gym was packed", created.Content, "markup is stripped")
	require.Equal(t, author.ID, created.Author.ID)

	listed, err := svc.ListMemories(context.Background(), "batch-2009")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, 23, listed[0].YearsAgo)
}

func TestMemoryServiceUnknownAuthor(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := setupMemoryService(t, now)

	_, err := svc.CreateMemory(context.Background(), "no-such-user", "batch-2009", dto.MemoryCreateRequest{
		Title:      "Graduation day",
		Content:    "whos asking",
		MemoryDate: time.Date(2003, time.June, 20, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
}
