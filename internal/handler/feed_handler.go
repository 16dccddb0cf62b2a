package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/middleware"
	"github.com/alumlink/alumlink-api/internal/service"
	"github.com/alumlink/alumlink-api/internal/utils"
)

// FeedHandler provides HTTP endpoints for the batch feed.
type FeedHandler struct {
	service   service.FeedService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewFeedHandler constructs a handler instance.
func NewFeedHandler(service service.FeedService, validator *validator.Validate, logger zerolog.Logger) *FeedHandler {
	return &FeedHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "feed_handler").Logger(),
	}
}

// Register binds the feed routes.
func (h *FeedHandler) Register(router fiber.Router) {
	router.Get("/posts", h.listFeed)
	router.Post("/posts", h.createPost)
	router.Delete("/posts/:id", h.deletePost)
	router.Post("/posts/:id/comments", h.createComment)
	router.Post("/posts/:id/like", h.toggleLike)
}

// RegisterProfile binds the per-user activity routes.
func (h *FeedHandler) RegisterProfile(router fiber.Router) {
	router.Get("/stats", middleware.WithAuth(h.authorStats, middleware.AuthOptions{RequireUser: true}))
}

func (h *FeedHandler) authorStats(c *fiber.Ctx) error {
	userID := userIDFromContext(c)

	stats, err := h.service.AuthorStats(withRequestContext(c), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load author stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load stats")
	}
	return utils.SendSuccess(c, "stats", stats)
}

func (h *FeedHandler) listFeed(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	batchID := batchIDFromContext(c)
	if userID == "" || batchID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
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

	posts, err := h.service.ListFeed(ctx, batchID, userID, limit, offset)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "feed", posts)
}

func (h *FeedHandler) createPost(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	batchID := batchIDFromContext(c)
	if userID == "" || batchID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.PostCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	post, err := h.service.CreatePost(ctx, userID, batchID, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "post created", post)
}

func (h *FeedHandler) deletePost(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	postID := c.Params("id")
	if postID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "post id required")
	}

	ctx := withRequestContext(c)

	if err := h.service.DeletePost(ctx, postID, userID, userRoleFromContext(c)); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "post not found")
		case errors.Is(err, service.ErrFeedForbidden):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccess(c, "post deleted", nil)
}

func (h *FeedHandler) createComment(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	postID := c.Params("id")
	if postID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "post id required")
	}

	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	comment, err := h.service.CreateComment(ctx, postID, userID, payload)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "post not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment added", comment)
}

func (h *FeedHandler) toggleLike(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	postID := c.Params("id")
	if postID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "post id required")
	}

	ctx := withRequestContext(c)

	result, err := h.service.ToggleLike(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "post not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "like toggled", result)
}
