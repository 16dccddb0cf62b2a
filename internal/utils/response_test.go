package utils_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/alumlink/alumlink-api/internal/utils"
)

func performRequest(t *testing.T, handler fiber.Handler) (*http.Response, utils.APIResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload utils.APIResponse
	require.NoError(t, json.Unmarshal(body, &payload))

	return resp, payload
}

func TestSendSuccess(t *testing.T) {
	resp, payload := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "profile loaded", map[string]string{"name": "Ayu"})
	})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, payload.Success)
	require.Equal(t, "profile loaded", payload.Message)

	data, ok := payload.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "Ayu", data["name"])
}

func TestSendSuccessDefaultsMessage(t *testing.T) {
	resp, payload := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "", nil)
	})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, payload.Success)
	require.Equal(t, "success", payload.Message)
	require.Nil(t, payload.Data)
}

func TestSendSuccessWithStatus(t *testing.T) {
	resp, payload := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "thread created", nil)
	})

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.True(t, payload.Success)
	require.Equal(t, "thread created", payload.Message)
}

func TestSendSuccessWithStatusZeroFallsBackToOK(t *testing.T) {
	resp, _ := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendSuccessWithStatus(c, 0, "ok", nil)
	})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSendError(t *testing.T) {
	resp, payload := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusNotFound, "thread not found")
	})

	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.False(t, payload.Success)
	require.Equal(t, "thread not found", payload.Message)
	require.Nil(t, payload.Data)
}

func TestSendErrorDefaultsMessage(t *testing.T) {
	resp, payload := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusInternalServerError, "")
	})

	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	require.False(t, payload.Success)
	require.Equal(t, "error", payload.Message)
}
