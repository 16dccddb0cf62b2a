package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/repository"
	"github.com/alumlink/alumlink-api/internal/service"
	"github.com/alumlink/alumlink-api/internal/utils"
)

// AdminHandler provides back-office endpoints for administrators.
type AdminHandler struct {
	service   service.AdminService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAdminHandler constructs a handler instance.
func NewAdminHandler(service service.AdminService, validator *validator.Validate, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register binds the admin routes. Role enforcement happens in middleware.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/users", h.listUsers)
	router.Put("/users/:id/role", h.setRole)
	router.Post("/users/:id/ban", h.banUser)
	router.Delete("/users/:id/ban", h.unbanUser)
	router.Delete("/posts/:id", h.removePost)
	router.Get("/ads", h.listAds)
	router.Patch("/ads/:id/status", h.setAdStatus)
	router.Get("/activity", h.listActivity)
}

func (h *AdminHandler) listUsers(c *fiber.Ctx) error {
	var query dto.AdminUserListQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query")
	}

	ctx := withRequestContext(c)

	response, err := h.service.ListUsers(ctx, query)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "users", response)
}

func (h *AdminHandler) setRole(c *fiber.Ctx) error {
	actorID := userIDFromContext(c)
	targetID := c.Params("id")
	if targetID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "user id required")
	}

	var payload dto.AdminRoleUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	user, err := h.service.SetRole(ctx, actorID, targetID, payload.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccess(c, "role updated", user)
}

func (h *AdminHandler) banUser(c *fiber.Ctx) error {
	return h.setBanned(c, true)
}

func (h *AdminHandler) unbanUser(c *fiber.Ctx) error {
	return h.setBanned(c, false)
}

func (h *AdminHandler) setBanned(c *fiber.Ctx, banned bool) error {
	actorID := userIDFromContext(c)
	targetID := c.Params("id")
	if targetID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "user id required")
	}

	ctx := withRequestContext(c)

	user, err := h.service.SetBanned(ctx, actorID, targetID, banned)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCannotBanSelf):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	message := "user unbanned"
	if banned {
		message = "user banned"
	}
	return utils.SendSuccess(c, message, user)
}

func (h *AdminHandler) removePost(c *fiber.Ctx) error {
	actorID := userIDFromContext(c)
	postID := c.Params("id")
	if postID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "post id required")
	}

	ctx := withRequestContext(c)

	if err := h.service.RemovePost(ctx, actorID, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "post not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "post removed", nil)
}

func (h *AdminHandler) listAds(c *fiber.Ctx) error {
	ctx := withRequestContext(c)

	ads, err := h.service.ListAds(ctx)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "advertisements", ads)
}

func (h *AdminHandler) setAdStatus(c *fiber.Ctx) error {
	actorID := userIDFromContext(c)
	adID := c.Params("id")
	if adID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "ad id required")
	}

	var payload dto.AdStatusUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := withRequestContext(c)

	ad, err := h.service.SetAdStatus(ctx, actorID, adID, payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAdStatus):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "advertisement not found")
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccess(c, "advertisement updated", ad)
}

func (h *AdminHandler) listActivity(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	filter := repository.ActivityLogFilter{
		Page:       page,
		PageSize:   pageSize,
		ActorID:    c.Query("actor_id"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}

	ctx := withRequestContext(c)

	response, err := h.service.ListActivity(ctx, filter)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "activity", response)
}
