package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/repository"
)

var (
	// ErrCannotBanSelf stops an admin from locking themselves out.
	ErrCannotBanSelf = errors.New("cannot ban your own account")
	// ErrInvalidRole indicates an unknown role value.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidAdStatus indicates a status outside the moderation cycle.
	ErrInvalidAdStatus = errors.New("invalid advertisement status")
)

var adStatuses = map[string]struct{}{
	models.AdStatusPending:   {},
	models.AdStatusActive:    {},
	models.AdStatusPaused:    {},
	models.AdStatusRejected:  {},
	models.AdStatusCompleted: {},
}

// AdminService exposes the back-office operations.
type AdminService interface {
	ListUsers(ctx context.Context, query dto.AdminUserListQuery) (dto.AdminUserListResponse, error)
	SetRole(ctx context.Context, actorID, targetID, role string) (dto.UserResponse, error)
	SetBanned(ctx context.Context, actorID, targetID string, banned bool) (dto.UserResponse, error)
	RemovePost(ctx context.Context, actorID, postID string) error
	ListAds(ctx context.Context) ([]dto.AdResponse, error)
	SetAdStatus(ctx context.Context, actorID, adID, status string) (dto.AdResponse, error)
	ListActivity(ctx context.Context, filter repository.ActivityLogFilter) (dto.ActivityLogListResponse, error)
}

type adminService struct {
	users         repository.UserRepository
	posts         repository.PostRepository
	ads           repository.AdRepository
	activity      repository.ActivityLogRepository
	notifications NotificationPublisher
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewAdminService constructs the back-office service.
func NewAdminService(users repository.UserRepository, posts repository.PostRepository, ads repository.AdRepository, activity repository.ActivityLogRepository, notifications NotificationPublisher, validate *validator.Validate, logger zerolog.Logger) AdminService {
	return &adminService{
		users:         users,
		posts:         posts,
		ads:           ads,
		activity:      activity,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "admin_service").Logger(),
		tracer:        otel.Tracer("github.com/alumlink/alumlink-api/internal/service/admin"),
	}
}

func (s *adminService) ListUsers(ctx context.Context, query dto.AdminUserListQuery) (dto.AdminUserListResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.AdminUserListResponse{}, err
	}

	users, total, err := s.users.List(ctx, repository.UserFilter{
		Search:   strings.TrimSpace(query.Search),
		Role:     query.Role,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return dto.AdminUserListResponse{}, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}

	return dto.AdminUserListResponse{Users: responses, Total: total}, nil
}

func (s *adminService) SetRole(ctx context.Context, actorID, targetID, role string) (dto.UserResponse, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role != models.UserRoleMember && role != models.UserRoleAdmin {
		return dto.UserResponse{}, ErrInvalidRole
	}

	spanCtx, span := s.tracer.Start(ctx, "admin.set_role", trace.WithAttributes(
		attribute.String("admin.target_id", targetID),
		attribute.String("admin.role", role),
	))
	defer span.End()

	if err := s.users.SetRole(spanCtx, targetID, role); err != nil {
		span.RecordError(err)
		return dto.UserResponse{}, err
	}

	s.audit(spanCtx, actorID, "role_changed", "user", targetID, datatypes.JSONMap{"role": role})

	user, err := s.users.FindByID(spanCtx, targetID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *adminService) SetBanned(ctx context.Context, actorID, targetID string, banned bool) (dto.UserResponse, error) {
	if actorID == targetID {
		return dto.UserResponse{}, ErrCannotBanSelf
	}

	spanCtx, span := s.tracer.Start(ctx, "admin.set_banned", trace.WithAttributes(
		attribute.String("admin.target_id", targetID),
		attribute.Bool("admin.banned", banned),
	))
	defer span.End()

	if err := s.users.SetBanned(spanCtx, targetID, banned); err != nil {
		span.RecordError(err)
		return dto.UserResponse{}, err
	}

	action := "user_unbanned"
	if banned {
		action = "user_banned"
	}
	s.audit(spanCtx, actorID, action, "user", targetID, nil)

	if banned && s.notifications != nil {
		payload := dto.NotificationCreateRequest{
			UserID:  targetID,
			Type:    models.NotificationTypeAccountBanned,
			Message: "Your account has been suspended by an administrator",
		}
		if _, err := s.notifications.Publish(spanCtx, payload); err != nil {
			s.logger.Warn().Err(err).Str("user_id", targetID).Msg("failed to publish ban notification")
		}
	}

	user, err := s.users.FindByID(spanCtx, targetID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

// RemovePost takes down a post regardless of author, recording the takedown
// in the audit trail.
func (s *adminService) RemovePost(ctx context.Context, actorID, postID string) error {
	spanCtx, span := s.tracer.Start(ctx, "admin.remove_post", trace.WithAttributes(
		attribute.String("admin.post_id", postID),
	))
	defer span.End()

	post, err := s.posts.Find(spanCtx, postID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := s.posts.Delete(spanCtx, postID); err != nil {
		span.RecordError(err)
		return err
	}

	s.audit(spanCtx, actorID, "post_removed", "post", postID, datatypes.JSONMap{"author_id": post.AuthorID})

	return nil
}

func (s *adminService) ListAds(ctx context.Context) ([]dto.AdResponse, error) {
	entries, err := s.ads.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AdResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewAdResponse(entry.Ad, entry.Impressions))
	}
	return responses, nil
}

// SetAdStatus moves an advertisement to a new moderation state and records
// the decision in the audit trail.
func (s *adminService) SetAdStatus(ctx context.Context, actorID, adID, status string) (dto.AdResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if _, ok := adStatuses[status]; !ok {
		return dto.AdResponse{}, ErrInvalidAdStatus
	}

	spanCtx, span := s.tracer.Start(ctx, "admin.set_ad_status", trace.WithAttributes(
		attribute.String("admin.ad_id", adID),
		attribute.String("admin.ad_status", status),
	))
	defer span.End()

	if err := s.ads.UpdateStatus(spanCtx, adID, status); err != nil {
		span.RecordError(err)
		return dto.AdResponse{}, err
	}

	s.audit(spanCtx, actorID, status+"_ad", "ad", adID, nil)

	entry, err := s.ads.Find(spanCtx, adID)
	if err != nil {
		return dto.AdResponse{}, err
	}
	return dto.NewAdResponse(entry.Ad, entry.Impressions), nil
}

func (s *adminService) ListActivity(ctx context.Context, filter repository.ActivityLogFilter) (dto.ActivityLogListResponse, error) {
	entries, total, err := s.activity.List(ctx, filter)
	if err != nil {
		return dto.ActivityLogListResponse{}, err
	}

	responses := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityLogResponse(entry))
	}

	return dto.ActivityLogListResponse{Entries: responses, Total: total}, nil
}

// audit records the action without failing the operation when the write
// itself fails.
func (s *adminService) audit(ctx context.Context, actorID, action, entityType, entityID string, metadata datatypes.JSONMap) {
	entry := models.ActivityLog{
		ActorID:    actorID,
		ActorRole:  models.UserRoleAdmin,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	}
	if err := s.activity.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record audit entry")
	}
}
