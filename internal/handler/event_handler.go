package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/service"
	"github.com/alumlink/alumlink-api/internal/utils"
)

// EventHandler provides HTTP endpoints for batch events and RSVPs.
type EventHandler struct {
	service   service.EventService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEventHandler constructs a handler instance.
func NewEventHandler(service service.EventService, validator *validator.Validate, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "event_handler").Logger(),
	}
}

// Register binds the event routes.
func (h *EventHandler) Register(router fiber.Router) {
	router.Get("/", h.listEvents)
	router.Post("/", h.createEvent)
	router.Get("/:id", h.getEvent)
	router.Put("/:id/rsvp", h.setRsvp)
}

func (h *EventHandler) listEvents(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	batchID := batchIDFromContext(c)
	if userID == "" || batchID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	ctx := withRequestContext(c)

	events, err := h.service.ListEvents(ctx, batchID, userID)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "events", events)
}

func (h *EventHandler) createEvent(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	batchID := batchIDFromContext(c)
	if userID == "" || batchID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.EventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	event, err := h.service.CreateEvent(ctx, userID, batchID, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "event created", event)
}

func (h *EventHandler) getEvent(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	eventID := c.Params("id")
	if eventID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "event id required")
	}

	ctx := withRequestContext(c)

	event, err := h.service.GetEvent(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "event not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "event", event)
}

func (h *EventHandler) setRsvp(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	eventID := c.Params("id")
	if eventID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "event id required")
	}

	var payload dto.RsvpRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	rsvp, err := h.service.SetRsvp(ctx, eventID, userID, payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRsvpStatus):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "event not found")
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccess(c, "rsvp saved", rsvp)
}
