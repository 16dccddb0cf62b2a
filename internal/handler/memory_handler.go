package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/service"
	"github.com/alumlink/alumlink-api/internal/utils"
)

// MemoryHandler provides HTTP endpoints for the memory wall.
type MemoryHandler struct {
	service   service.MemoryService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewMemoryHandler constructs a handler instance.
func NewMemoryHandler(service service.MemoryService, validator *validator.Validate, logger zerolog.Logger) *MemoryHandler {
	return &MemoryHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "memory_handler").Logger(),
	}
}

// Register binds the memory wall routes.
func (h *MemoryHandler) Register(router fiber.Router) {
	router.Get("/", h.listMemories)
	router.Post("/", h.createMemory)
}

func (h *MemoryHandler) listMemories(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	batchID := batchIDFromContext(c)
	if userID == "" || batchID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	ctx := withRequestContext(c)

	memories, err := h.service.ListMemories(ctx, batchID)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "memories", memories)
}

func (h *MemoryHandler) createMemory(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	batchID := batchIDFromContext(c)
	if userID == "" || batchID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.MemoryCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	memory, err := h.service.CreateMemory(ctx, userID, batchID, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemoryDateInFuture):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "memory shared", memory)
}
