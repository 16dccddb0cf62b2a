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

// PollHandler provides HTTP endpoints for batch polls.
type PollHandler struct {
	service   service.PollService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPollHandler constructs a handler instance.
func NewPollHandler(service service.PollService, validator *validator.Validate, logger zerolog.Logger) *PollHandler {
	return &PollHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "poll_handler").Logger(),
	}
}

// Register binds the poll routes.
func (h *PollHandler) Register(router fiber.Router) {
	router.Get("/", h.listPolls)
	router.Post("/", h.createPoll)
	router.Post("/options/:id/vote", h.castVote)
}

func (h *PollHandler) listPolls(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	batchID := batchIDFromContext(c)
	if userID == "" || batchID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	ctx := withRequestContext(c)

	polls, err := h.service.ListPolls(ctx, batchID, userID)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "polls", polls)
}

func (h *PollHandler) createPoll(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	batchID := batchIDFromContext(c)
	if userID == "" || batchID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.PollCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	poll, err := h.service.CreatePoll(ctx, userID, batchID, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotEnoughOptions):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "poll created", poll)
}

func (h *PollHandler) castVote(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	optionID := c.Params("id")
	if optionID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "option id required")
	}

	ctx := withRequestContext(c)

	poll, err := h.service.CastVote(ctx, optionID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPollOptionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAlreadyVoted):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccess(c, "vote recorded", poll)
}
