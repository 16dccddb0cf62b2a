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

// JobHandler provides HTTP endpoints for the job board.
type JobHandler struct {
	service   service.JobService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewJobHandler constructs a handler instance.
func NewJobHandler(service service.JobService, validator *validator.Validate, logger zerolog.Logger) *JobHandler {
	return &JobHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "job_handler").Logger(),
	}
}

// Register binds the job board routes.
func (h *JobHandler) Register(router fiber.Router) {
	router.Get("/", h.listJobs)
	router.Post("/", h.createJob)
	router.Delete("/:id", h.closeJob)
}

func (h *JobHandler) listJobs(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	batchID := batchIDFromContext(c)
	if userID == "" || batchID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	ctx := withRequestContext(c)

	jobs, err := h.service.ListJobs(ctx, batchID)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "jobs", jobs)
}

func (h *JobHandler) createJob(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	batchID := batchIDFromContext(c)
	if userID == "" || batchID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.JobCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	job, err := h.service.CreateJob(ctx, userID, batchID, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "job posted", job)
}

func (h *JobHandler) closeJob(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	jobID := c.Params("id")
	if jobID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "job id required")
	}

	ctx := withRequestContext(c)

	if err := h.service.CloseJob(ctx, jobID, userID, userRoleFromContext(c)); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "job not found")
		case errors.Is(err, service.ErrJobForbidden):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccess(c, "job closed", nil)
}
