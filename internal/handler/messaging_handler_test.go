package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/handler"
	"github.com/alumlink/alumlink-api/internal/service"
)

type mockMessagingService struct {
	lastRequesterID string
	lastRecipientID string
	lastThreadID    string
	lastSenderID    string
	lastSend        dto.MessageSendRequest

	openResponse    dto.ThreadOpenResponse
	messageResponse dto.MessageResponse
	err             error
}

func (m *mockMessagingService) OpenThread(_ context.Context, requesterID, recipientID string) (dto.ThreadOpenResponse, error) {
	m.lastRequesterID = requesterID
	m.lastRecipientID = recipientID
	if m.err != nil {
		return dto.ThreadOpenResponse{}, m.err
	}
	return m.openResponse, nil
}

func (m *mockMessagingService) ListThreads(_ context.Context, _ string) ([]dto.ThreadSummaryResponse, error) {
	return nil, m.err
}

func (m *mockMessagingService) ListMessages(_ context.Context, threadID, userID string, _, _ int) ([]dto.MessageResponse, error) {
	m.lastThreadID = threadID
	m.lastSenderID = userID
	if m.err != nil {
		return nil, m.err
	}
	return []dto.MessageResponse{m.messageResponse}, nil
}

func (m *mockMessagingService) SendMessage(_ context.Context, threadID, senderID string, payload dto.MessageSendRequest) (dto.MessageResponse, error) {
	m.lastThreadID = threadID
	m.lastSenderID = senderID
	m.lastSend = payload
	if m.err != nil {
		return dto.MessageResponse{}, m.err
	}
	return m.messageResponse, nil
}

func (m *mockMessagingService) IsParticipant(_ context.Context, _, _ string) (bool, error) {
	return m.err == nil, m.err
}

type mockStreamService struct{}

func (m *mockStreamService) Broadcast(_ context.Context, _ dto.MessageResponse)                   {}
func (m *mockStreamService) ServeConnection(_ *websocket.Conn, _ service.MessageConnectionOptions) {}
func (m *mockStreamService) AttachSender(_ service.MessagingService)                              {}
func (m *mockStreamService) Start(_ context.Context)                                             {}

func newMessagingApp(svc service.MessagingService, userID string) *fiber.App {
	app := fiber.New()
	group := sessionGroup(app, "/api/messages", userID, "member", "batch-2009")
	handler.NewMessagingHandler(svc, &mockStreamService{}, validator.New(validator.WithRequiredStructEnabled()), testLogger()).Register(group)
	return app
}

func openThread(t *testing.T, app *fiber.App, recipientID string) *http.Response {
	t.Helper()

	body, err := json.Marshal(dto.ThreadOpenRequest{RecipientID: recipientID})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/messages/threads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestMessagingHandler_OpenThreadCreated(t *testing.T) {
	svc := &mockMessagingService{openResponse: dto.ThreadOpenResponse{ThreadID: "thread-1", Created: true}}
	app := newMessagingApp(svc, "user-1")

	resp := openThread(t, app, "user-2")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool                   `json:"success"`
		Data    dto.ThreadOpenResponse `json:"data"`
		Message string                 `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "conversation ready", response.Message)
	require.Equal(t, "thread-1", response.Data.ThreadID)
	require.Equal(t, "user-1", svc.lastRequesterID)
	require.Equal(t, "user-2", svc.lastRecipientID)
}

func TestMessagingHandler_OpenThreadExisting(t *testing.T) {
	svc := &mockMessagingService{openResponse: dto.ThreadOpenResponse{ThreadID: "thread-1", Created: false}}
	app := newMessagingApp(svc, "user-1")

	resp := openThread(t, app, "user-2")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMessagingHandler_OpenThreadErrors(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "self conversation", serviceErr: service.ErrSelfThread, wantStatus: fiber.StatusBadRequest},
		{name: "unknown recipient", serviceErr: service.ErrRecipientNotFound, wantStatus: fiber.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockMessagingService{err: tc.serviceErr}
			app := newMessagingApp(svc, "user-1")

			resp := openThread(t, app, "user-1")
			require.Equal(t, tc.wantStatus, resp.StatusCode)

			var response struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			decodeResponse(t, resp, &response)
			require.False(t, response.Success)
			require.Equal(t, tc.serviceErr.Error(), response.Message)
		})
	}
}

func TestMessagingHandler_SendMessage(t *testing.T) {
	svc := &mockMessagingService{messageResponse: dto.MessageResponse{ID: "msg-1", ThreadID: "thread-1", Content: "see you there"}}
	app := newMessagingApp(svc, "user-1")

	body, err := json.Marshal(dto.MessageSendRequest{Content: "see you there"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/messages/threads/thread-1/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool                `json:"success"`
		Data    dto.MessageResponse `json:"data"`
		Message string              `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.Equal(t, "message sent", response.Message)
	require.Equal(t, "msg-1", response.Data.ID)
	require.Equal(t, "thread-1", svc.lastThreadID)
	require.Equal(t, "user-1", svc.lastSenderID)
	require.Equal(t, "see you there", svc.lastSend.Content)
}

func TestMessagingHandler_SendMessageErrors(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "outsider", serviceErr: service.ErrNotParticipant, wantStatus: fiber.StatusForbidden},
		{name: "missing thread", serviceErr: gorm.ErrRecordNotFound, wantStatus: fiber.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockMessagingService{err: tc.serviceErr}
			app := newMessagingApp(svc, "user-3")

			body, err := json.Marshal(dto.MessageSendRequest{Content: "hello"})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/messages/threads/thread-1/messages", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestMessagingHandler_ListMessagesRequiresSession(t *testing.T) {
	svc := &mockMessagingService{}
	app := newMessagingApp(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/api/messages/threads/thread-1/messages", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
