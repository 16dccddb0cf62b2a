package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/middleware"
	"github.com/alumlink/alumlink-api/internal/service"
	"github.com/alumlink/alumlink-api/internal/utils"
)

// MessagingHandler wires direct-message endpoints including the websocket
// upgrade for live delivery.
type MessagingHandler struct {
	service   service.MessagingService
	stream    service.MessageStreamService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewMessagingHandler constructs a handler instance.
func NewMessagingHandler(service service.MessagingService, stream service.MessageStreamService, validator *validator.Validate, logger zerolog.Logger) *MessagingHandler {
	return &MessagingHandler{
		service:   service,
		stream:    stream,
		validator: validator,
		logger:    logger.With().Str("component", "messaging_handler").Logger(),
	}
}

// Register binds the messaging routes.
func (h *MessagingHandler) Register(router fiber.Router) {
	router.Get("/threads", h.listThreads)
	router.Post("/threads", h.openThread)
	router.Get("/threads/:id/messages", h.listMessages)
	router.Post("/threads/:id/messages", h.sendMessage)

	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(h.handleConnection))
}

func (h *MessagingHandler) openThread(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.ThreadOpenRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := withRequestContext(c)

	response, err := h.service.OpenThread(ctx, userID, payload.RecipientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfThread):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrRecipientNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	status := fiber.StatusOK
	if response.Created {
		status = fiber.StatusCreated
	}
	return utils.SendSuccessWithStatus(c, status, "conversation ready", response)
}

func (h *MessagingHandler) listThreads(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	ctx := withRequestContext(c)

	threads, err := h.service.ListThreads(ctx, userID)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "conversations", threads)
}

func (h *MessagingHandler) listMessages(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	threadID := c.Params("id")
	if threadID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "thread id required")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	ctx := withRequestContext(c)

	messages, err := h.service.ListMessages(ctx, threadID, userID, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrNotParticipant) {
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "messages", messages)
}

func (h *MessagingHandler) sendMessage(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	threadID := c.Params("id")
	if threadID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "thread id required")
	}

	var payload dto.MessageSendRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	message, err := h.service.SendMessage(ctx, threadID, userID, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotParticipant):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "thread not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "message sent", message)
}

func (h *MessagingHandler) handleConnection(conn *websocket.Conn) {
	userID := websocketUserID(conn)
	if userID == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusUnauthorized, "user id missing"))
		_ = conn.Close()
		return
	}

	threadID := strings.TrimSpace(conn.Query("thread_id"))
	if threadID == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusBadRequest, "thread_id required"))
		_ = conn.Close()
		return
	}

	baseCtx, _ := conn.Locals("request_ctx").(context.Context)
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	isParticipant, err := h.service.IsParticipant(baseCtx, threadID, userID)
	if err != nil || !isParticipant {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusForbidden, "not a participant"))
		_ = conn.Close()
		return
	}

	correlation := fmt.Sprint(conn.Locals("correlation_id"))

	opts := service.MessageConnectionOptions{
		UserID:        userID,
		ThreadID:      threadID,
		CorrelationID: correlation,
		Context:       baseCtx,
	}

	h.logger.Info().Str("user_id", userID).Str("thread_id", threadID).Msg("message websocket connected")
	h.stream.ServeConnection(conn, opts)
	h.logger.Info().Str("user_id", userID).Str("thread_id", threadID).Msg("message websocket disconnected")
}

func websocketUserID(conn *websocket.Conn) string {
	if value := conn.Locals("user_id"); value != nil {
		switch v := value.(type) {
		case string:
			return strings.TrimSpace(v)
		case fmt.Stringer:
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}
