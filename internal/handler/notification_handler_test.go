package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/handler"
	"github.com/alumlink/alumlink-api/internal/service"
)

type mockNotificationService struct {
	lastUserID string
	lastID     string

	unread   int64
	response dto.NotificationResponse
	err      error
}

func (m *mockNotificationService) Publish(_ context.Context, _ dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	return m.response, m.err
}

func (m *mockNotificationService) List(_ context.Context, userID string, _, _ int) ([]dto.NotificationResponse, error) {
	m.lastUserID = userID
	if m.err != nil {
		return nil, m.err
	}
	return []dto.NotificationResponse{m.response}, nil
}

func (m *mockNotificationService) CountUnread(_ context.Context, userID string) (int64, error) {
	m.lastUserID = userID
	return m.unread, m.err
}

func (m *mockNotificationService) MarkRead(_ context.Context, id, userID string) (dto.NotificationResponse, error) {
	m.lastID = id
	m.lastUserID = userID
	if m.err != nil {
		return dto.NotificationResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockNotificationService) Subscribe(_ string) (<-chan dto.NotificationResponse, func()) {
	ch := make(chan dto.NotificationResponse)
	return ch, func() { close(ch) }
}

func (m *mockNotificationService) Start(_ context.Context) {}

func newNotificationApp(svc service.NotificationService, userID string) *fiber.App {
	app := fiber.New()
	group := sessionGroup(app, "/api/notifications", userID, "member", "batch-2009")
	handler.NewNotificationHandler(svc, testLogger(), 50*time.Millisecond).Register(group)
	return app
}

func TestNotificationHandler_UnreadCount(t *testing.T) {
	svc := &mockNotificationService{unread: 4}
	app := newNotificationApp(svc, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/unread", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                          `json:"success"`
		Data    dto.NotificationCountResponse `json:"data"`
		Message string                        `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "unread count", response.Message)
	require.Equal(t, int64(4), response.Data.Unread)
	require.Equal(t, "user-1", svc.lastUserID)
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	svc := &mockNotificationService{response: dto.NotificationResponse{ID: "notif-1", Read: true}}
	app := newNotificationApp(svc, "user-1")

	req := httptest.NewRequest(http.MethodPatch, "/api/notifications/notif-1/read", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                     `json:"success"`
		Data    dto.NotificationResponse `json:"data"`
		Message string                   `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.Equal(t, "notification updated", response.Message)
	require.True(t, response.Data.Read)
	require.Equal(t, "notif-1", svc.lastID)
	require.Equal(t, "user-1", svc.lastUserID)
}

func TestNotificationHandler_MarkReadUnknown(t *testing.T) {
	svc := &mockNotificationService{err: gorm.ErrRecordNotFound}
	app := newNotificationApp(svc, "user-1")

	req := httptest.NewRequest(http.MethodPatch, "/api/notifications/ghost/read", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestNotificationHandler_ListRequiresSession(t *testing.T) {
	svc := &mockNotificationService{}
	app := newNotificationApp(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
