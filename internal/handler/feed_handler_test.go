package handler_test

import (
	"context"
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

type mockFeedService struct {
	lastStatsUserID string

	stats dto.UserStatsResponse
	err   error
}

func (m *mockFeedService) ListFeed(_ context.Context, _, _ string, _, _ int) ([]dto.PostResponse, error) {
	return nil, m.err
}

func (m *mockFeedService) CreatePost(_ context.Context, _, _ string, _ dto.PostCreateRequest) (dto.PostResponse, error) {
	return dto.PostResponse{}, m.err
}

func (m *mockFeedService) CreateComment(_ context.Context, _, _ string, _ dto.CommentCreateRequest) (dto.CommentResponse, error) {
	return dto.CommentResponse{}, m.err
}

func (m *mockFeedService) DeletePost(_ context.Context, _, _, _ string) error {
	return m.err
}

func (m *mockFeedService) ToggleLike(_ context.Context, _, _ string) (dto.LikeToggleResponse, error) {
	return dto.LikeToggleResponse{}, m.err
}

func (m *mockFeedService) AuthorStats(_ context.Context, userID string) (dto.UserStatsResponse, error) {
	m.lastStatsUserID = userID
	if m.err != nil {
		return dto.UserStatsResponse{}, m.err
	}
	return m.stats, nil
}

func newProfileApp(svc service.FeedService, userID string) *fiber.App {
	app := fiber.New()
	group := sessionGroup(app, "/api/profile", userID, "member", "batch-2009")
	handler.NewFeedHandler(svc, validator.New(validator.WithRequiredStructEnabled()), testLogger()).RegisterProfile(group)
	return app
}

func TestFeedHandler_AuthorStats(t *testing.T) {
	svc := &mockFeedService{stats: dto.UserStatsResponse{PostsCount: 4, CommentsCount: 9}}
	app := newProfileApp(svc, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/api/profile/stats", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                  `json:"success"`
		Data    dto.UserStatsResponse `json:"data"`
		Message string                `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "stats", response.Message)
	require.Equal(t, int64(4), response.Data.PostsCount)
	require.Equal(t, int64(9), response.Data.CommentsCount)
	require.Equal(t, "user-1", svc.lastStatsUserID)
}

func TestFeedHandler_AuthorStatsRequiresSession(t *testing.T) {
	svc := &mockFeedService{}
	app := newProfileApp(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/api/profile/stats", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, svc.lastStatsUserID)
}
