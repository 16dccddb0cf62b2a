package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/observability"
	"github.com/alumlink/alumlink-api/internal/repository"
)

// ErrFeedForbidden indicates the user attempted a feed mutation they do not own.
var ErrFeedForbidden = errors.New("insufficient permissions for feed operation")

// NotificationPublisher exposes the subset of the notification service needed
// by content services.
type NotificationPublisher interface {
	Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error)
}

// FeedService exposes the batch feed use-cases.
type FeedService interface {
	ListFeed(ctx context.Context, batchID, viewerID string, limit, offset int) ([]dto.PostResponse, error)
	CreatePost(ctx context.Context, authorID, batchID string, payload dto.PostCreateRequest) (dto.PostResponse, error)
	CreateComment(ctx context.Context, postID, authorID string, payload dto.CommentCreateRequest) (dto.CommentResponse, error)
	DeletePost(ctx context.Context, postID, actorID, actorRole string) error
	ToggleLike(ctx context.Context, postID, userID string) (dto.LikeToggleResponse, error)
	AuthorStats(ctx context.Context, userID string) (dto.UserStatsResponse, error)
}

type feedService struct {
	posts         repository.PostRepository
	notifications NotificationPublisher
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
	// Posts may carry the basic markup UGCPolicy allows; comments are
	// stripped to plain text like messages and memories.
	postSanitizer    *bluemonday.Policy
	commentSanitizer *bluemonday.Policy
}

// NewFeedService constructs a feed service.
func NewFeedService(posts repository.PostRepository, notifications NotificationPublisher, validate *validator.Validate, logger zerolog.Logger) FeedService {
	return &feedService{
		posts:            posts,
		notifications:    notifications,
		validator:        validate,
		logger:           logger.With().Str("component", "feed_service").Logger(),
		tracer:           otel.Tracer("github.com/alumlink/alumlink-api/internal/service/feed"),
		postSanitizer:    bluemonday.UGCPolicy(),
		commentSanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *feedService) ListFeed(ctx context.Context, batchID, viewerID string, limit, offset int) ([]dto.PostResponse, error) {
	posts, err := s.posts.ListByBatch(ctx, batchID, limit, offset)
	if err != nil {
		return nil, err
	}

	postIDs := make([]string, 0, len(posts))
	for _, post := range posts {
		postIDs = append(postIDs, post.ID)
	}

	liked, err := s.posts.LikedPostIDs(ctx, viewerID, postIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		_, likedByMe := liked[post.ID]
		responses = append(responses, dto.NewPostResponse(post, likedByMe))
	}
	return responses, nil
}

func (s *feedService) CreatePost(ctx context.Context, authorID, batchID string, payload dto.PostCreateRequest) (dto.PostResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PostResponse{}, err
	}

	content := strings.TrimSpace(s.postSanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.PostResponse{}, errors.New("post content empty after sanitization")
	}

	postType := payload.Type
	if postType == "" {
		postType = models.PostTypeGeneral
	}

	post := models.Post{
		AuthorID: authorID,
		BatchID:  batchID,
		Type:     postType,
		Content:  content,
	}

	if err := s.posts.Create(ctx, &post); err != nil {
		return dto.PostResponse{}, err
	}

	s.logger.Info().Str("post_id", post.ID).Str("author_id", authorID).Msg("post created")

	created, err := s.posts.Find(ctx, post.ID)
	if err != nil {
		return dto.PostResponse{}, err
	}
	return dto.NewPostResponse(created, false), nil
}

func (s *feedService) CreateComment(ctx context.Context, postID, authorID string, payload dto.CommentCreateRequest) (dto.CommentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CommentResponse{}, err
	}

	content := strings.TrimSpace(s.commentSanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.CommentResponse{}, errors.New("comment content empty after sanitization")
	}

	post, err := s.posts.Find(ctx, postID)
	if err != nil {
		return dto.CommentResponse{}, err
	}

	comment := models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}

	if err := s.posts.CreateComment(ctx, &comment); err != nil {
		return dto.CommentResponse{}, err
	}

	if s.notifications != nil && post.AuthorID != authorID {
		payload := dto.NotificationCreateRequest{
			UserID:  post.AuthorID,
			Type:    models.NotificationTypeComment,
			Message: "Someone commented on your post",
		}
		if _, err := s.notifications.Publish(ctx, payload); err != nil {
			s.logger.Warn().Err(err).Str("post_id", postID).Msg("failed to publish comment notification")
		}
	}

	return dto.NewCommentResponse(comment), nil
}

func (s *feedService) DeletePost(ctx context.Context, postID, actorID, actorRole string) error {
	post, err := s.posts.Find(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != actorID && strings.ToLower(actorRole) != models.UserRoleAdmin {
		return ErrFeedForbidden
	}

	return s.posts.Delete(ctx, postID)
}

// ToggleLike flips the caller's like on a post. The returned count is always
// recomputed from the like rows after the mutation.
func (s *feedService) ToggleLike(ctx context.Context, postID, userID string) (dto.LikeToggleResponse, error) {
	attrs := []attribute.KeyValue{
		attribute.String("post.id", postID),
		attribute.String("user.id", userID),
	}
	spanCtx, span := s.tracer.Start(ctx, "feed.toggle_like", trace.WithAttributes(attrs...))
	defer span.End()

	if _, err := s.posts.Find(spanCtx, postID); err != nil {
		return dto.LikeToggleResponse{}, err
	}

	existing, err := s.posts.FindLike(spanCtx, postID, userID)
	switch {
	case err == nil:
		if err := s.posts.DeleteLike(spanCtx, existing.ID); err != nil {
			span.RecordError(err)
			return dto.LikeToggleResponse{}, err
		}
		count, err := s.posts.CountLikes(spanCtx, postID)
		if err != nil {
			return dto.LikeToggleResponse{}, err
		}
		observability.Interactions().WithLabelValues("like", "removed").Inc()
		return dto.LikeToggleResponse{Liked: false, LikesCount: count}, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.Like{PostID: postID, UserID: userID}
		if err := s.posts.CreateLike(spanCtx, &like); err != nil {
			// A concurrent toggle won the insert; the like is present either
			// way, so report the liked state with a fresh count.
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				span.RecordError(err)
				return dto.LikeToggleResponse{}, err
			}
		}
		count, err := s.posts.CountLikes(spanCtx, postID)
		if err != nil {
			return dto.LikeToggleResponse{}, err
		}
		observability.Interactions().WithLabelValues("like", "added").Inc()
		return dto.LikeToggleResponse{Liked: true, LikesCount: count}, nil

	default:
		span.RecordError(err)
		return dto.LikeToggleResponse{}, fmt.Errorf("lookup like: %w", err)
	}
}

// AuthorStats reports the viewer's own contribution counts, tallied from the
// post and comment rows.
func (s *feedService) AuthorStats(ctx context.Context, userID string) (dto.UserStatsResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return dto.UserStatsResponse{}, errors.New("user id is required")
	}

	posts, comments, err := s.posts.CountByAuthor(ctx, userID)
	if err != nil {
		return dto.UserStatsResponse{}, err
	}

	return dto.UserStatsResponse{PostsCount: posts, CommentsCount: comments}, nil
}
