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

type mockAuthService struct {
	lastSignup dto.SignupRequest
	lastLogin  dto.LoginRequest
	lastUserID string
	lastUpdate dto.ProfileUpdateRequest

	authResponse dto.AuthResponse
	userResponse dto.UserResponse
	err          error
}

func (m *mockAuthService) Signup(_ context.Context, payload dto.SignupRequest) (dto.AuthResponse, error) {
	m.lastSignup = payload
	if m.err != nil {
		return dto.AuthResponse{}, m.err
	}
	return m.authResponse, nil
}

func (m *mockAuthService) Login(_ context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	m.lastLogin = payload
	if m.err != nil {
		return dto.AuthResponse{}, m.err
	}
	return m.authResponse, nil
}

func (m *mockAuthService) Profile(_ context.Context, userID string) (dto.UserResponse, error) {
	m.lastUserID = userID
	if m.err != nil {
		return dto.UserResponse{}, m.err
	}
	return m.userResponse, nil
}

func (m *mockAuthService) UpdateProfile(_ context.Context, userID string, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	m.lastUserID = userID
	m.lastUpdate = payload
	if m.err != nil {
		return dto.UserResponse{}, m.err
	}
	return m.userResponse, nil
}

func (m *mockAuthService) BatchFor(_ context.Context, _ string) (string, error) {
	return "batch-2009", m.err
}

func newAuthApp(svc service.AuthService, userID string) *fiber.App {
	app := fiber.New()
	h := handler.NewAuthHandler(svc, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	h.RegisterPublic(app.Group("/api/auth"))
	h.RegisterProtected(sessionGroup(app, "/api/auth", userID, "member", "batch-2009"))
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthHandler_SignupSuccess(t *testing.T) {
	svc := &mockAuthService{authResponse: dto.AuthResponse{Token: "jwt-token", User: dto.UserResponse{ID: "user-1", Email: "maya@example.com"}}}
	app := newAuthApp(svc, "")

	payload := dto.SignupRequest{Email: "maya@example.com", Password: "hunter22", FirstName: "Maya", LastName: "Singh"}
	resp := postJSON(t, app, "/api/auth/signup", payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool             `json:"success"`
		Data    dto.AuthResponse `json:"data"`
		Message string           `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "account created", response.Message)
	require.Equal(t, "jwt-token", response.Data.Token)
	require.Equal(t, "maya@example.com", svc.lastSignup.Email)
}

func TestAuthHandler_SignupDuplicateEmail(t *testing.T) {
	svc := &mockAuthService{err: service.ErrEmailTaken}
	app := newAuthApp(svc, "")

	payload := dto.SignupRequest{Email: "maya@example.com", Password: "hunter22", FirstName: "Maya", LastName: "Singh"}
	resp := postJSON(t, app, "/api/auth/signup", payload)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.False(t, response.Success)
	require.Equal(t, service.ErrEmailTaken.Error(), response.Message)
}

func TestAuthHandler_LoginErrors(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "bad credentials", serviceErr: service.ErrInvalidCredentials, wantStatus: fiber.StatusUnauthorized},
		{name: "banned account", serviceErr: service.ErrAccountBanned, wantStatus: fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockAuthService{err: tc.serviceErr}
			app := newAuthApp(svc, "")

			payload := dto.LoginRequest{Email: "maya@example.com", Password: "wrong"}
			resp := postJSON(t, app, "/api/auth/login", payload)
			require.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestAuthHandler_MeReturnsProfile(t *testing.T) {
	svc := &mockAuthService{userResponse: dto.UserResponse{ID: "user-1", FirstName: "Maya"}}
	app := newAuthApp(svc, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool             `json:"success"`
		Data    dto.UserResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "user-1", response.Data.ID)
	require.Equal(t, "user-1", svc.lastUserID)
}

func TestAuthHandler_MeRequiresSession(t *testing.T) {
	svc := &mockAuthService{}
	app := newAuthApp(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
