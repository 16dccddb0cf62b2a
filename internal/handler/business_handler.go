package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/service"
	"github.com/alumlink/alumlink-api/internal/utils"
)

// BusinessHandler provides HTTP endpoints for the business directory.
type BusinessHandler struct {
	service   service.BusinessService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewBusinessHandler constructs a handler instance.
func NewBusinessHandler(service service.BusinessService, validator *validator.Validate, logger zerolog.Logger) *BusinessHandler {
	return &BusinessHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "business_handler").Logger(),
	}
}

// Register binds the business directory routes.
func (h *BusinessHandler) Register(router fiber.Router) {
	router.Get("/", h.listBusinesses)
	router.Post("/", h.createBusiness)
}

func (h *BusinessHandler) listBusinesses(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	ctx := withRequestContext(c)

	businesses, err := h.service.ListBusinesses(ctx, c.Query("category"))
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "businesses", businesses)
}

func (h *BusinessHandler) createBusiness(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.BusinessCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	business, err := h.service.CreateBusiness(ctx, userID, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "business listed", business)
}
