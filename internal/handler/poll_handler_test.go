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
	"github.com/stretchr/testify/require"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/handler"
	"github.com/alumlink/alumlink-api/internal/service"
)

type mockPollService struct {
	lastAuthorID string
	lastBatchID  string
	lastOptionID string
	lastVoterID  string
	lastCreate   dto.PollCreateRequest

	response dto.PollResponse
	err      error
}

func (m *mockPollService) ListPolls(_ context.Context, batchID, viewerID string) ([]dto.PollResponse, error) {
	m.lastBatchID = batchID
	m.lastVoterID = viewerID
	if m.err != nil {
		return nil, m.err
	}
	return []dto.PollResponse{m.response}, nil
}

func (m *mockPollService) CreatePoll(_ context.Context, authorID, batchID string, payload dto.PollCreateRequest) (dto.PollResponse, error) {
	m.lastAuthorID = authorID
	m.lastBatchID = batchID
	m.lastCreate = payload
	if m.err != nil {
		return dto.PollResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockPollService) CastVote(_ context.Context, optionID, userID string) (dto.PollResponse, error) {
	m.lastOptionID = optionID
	m.lastVoterID = userID
	if m.err != nil {
		return dto.PollResponse{}, m.err
	}
	return m.response, nil
}

func newPollApp(svc service.PollService, userID, batchID string) *fiber.App {
	app := fiber.New()
	group := sessionGroup(app, "/api/polls", userID, "member", batchID)
	handler.NewPollHandler(svc, validator.New(validator.WithRequiredStructEnabled()), testLogger()).Register(group)
	return app
}

func TestPollHandler_CreatePoll(t *testing.T) {
	svc := &mockPollService{response: dto.PollResponse{ID: "poll-1", Question: "Reunion venue?"}}
	app := newPollApp(svc, "user-1", "batch-2009")

	payload := dto.PollCreateRequest{Question: "Reunion venue?", Options: []string{"Rooftop", "Beach"}}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/polls/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool             `json:"success"`
		Data    dto.PollResponse `json:"data"`
		Message string           `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "poll created", response.Message)
	require.Equal(t, "poll-1", response.Data.ID)
	require.Equal(t, "user-1", svc.lastAuthorID)
	require.Equal(t, "batch-2009", svc.lastBatchID)
	require.Equal(t, []string{"Rooftop", "Beach"}, svc.lastCreate.Options)
}

func TestPollHandler_CreatePollRequiresSession(t *testing.T) {
	svc := &mockPollService{}
	app := newPollApp(svc, "", "")

	req := httptest.NewRequest(http.MethodPost, "/api/polls/", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, svc.lastAuthorID)
}

func TestPollHandler_CastVoteStatusCodes(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "duplicate vote", serviceErr: service.ErrAlreadyVoted, wantStatus: fiber.StatusConflict},
		{name: "unknown option", serviceErr: service.ErrPollOptionNotFound, wantStatus: fiber.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockPollService{err: tc.serviceErr}
			app := newPollApp(svc, "user-1", "batch-2009")

			req := httptest.NewRequest(http.MethodPost, "/api/polls/options/opt-1/vote", nil)

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, resp.StatusCode)

			var response struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			decodeResponse(t, resp, &response)
			require.False(t, response.Success)
			require.Equal(t, tc.serviceErr.Error(), response.Message)
			require.Equal(t, "opt-1", svc.lastOptionID)
			require.Equal(t, "user-1", svc.lastVoterID)
		})
	}
}

func TestPollHandler_CastVoteSuccess(t *testing.T) {
	svc := &mockPollService{response: dto.PollResponse{ID: "poll-1", HasVoted: true, TotalVotes: 3}}
	app := newPollApp(svc, "user-1", "batch-2009")

	req := httptest.NewRequest(http.MethodPost, "/api/polls/options/opt-2/vote", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool             `json:"success"`
		Data    dto.PollResponse `json:"data"`
		Message string           `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.Equal(t, "vote recorded", response.Message)
	require.True(t, response.Data.HasVoted)
	require.Equal(t, 3, response.Data.TotalVotes)
}
