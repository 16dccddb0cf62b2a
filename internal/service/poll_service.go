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
	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/observability"
	"github.com/alumlink/alumlink-api/internal/repository"
)

// Sentinel errors surfaced by the poll service.
var (
	ErrAlreadyVoted       = errors.New("already voted in this poll")
	ErrNotEnoughOptions   = errors.New("a poll needs a question and at least two options")
	ErrPollOptionNotFound = errors.New("poll option not found")
)

// PollService exposes poll use-cases.
type PollService interface {
	ListPolls(ctx context.Context, batchID, viewerID string) ([]dto.PollResponse, error)
	CreatePoll(ctx context.Context, authorID, batchID string, payload dto.PollCreateRequest) (dto.PollResponse, error)
	CastVote(ctx context.Context, optionID, userID string) (dto.PollResponse, error)
}

type pollService struct {
	polls     repository.PollRepository
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewPollService constructs a poll service.
func NewPollService(polls repository.PollRepository, validate *validator.Validate, logger zerolog.Logger) PollService {
	return &pollService{
		polls:     polls,
		validator: validate,
		logger:    logger.With().Str("component", "poll_service").Logger(),
		tracer:    otel.Tracer("github.com/alumlink/alumlink-api/internal/service/poll"),
	}
}

func (s *pollService) ListPolls(ctx context.Context, batchID, viewerID string) ([]dto.PollResponse, error) {
	polls, err := s.polls.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PollResponse, 0, len(polls))
	for _, poll := range polls {
		responses = append(responses, dto.NewPollResponse(poll, viewerID))
	}
	return responses, nil
}

func (s *pollService) CreatePoll(ctx context.Context, authorID, batchID string, payload dto.PollCreateRequest) (dto.PollResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PollResponse{}, err
	}

	options := make([]models.PollOption, 0, len(payload.Options))
	for _, text := range payload.Options {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		options = append(options, models.PollOption{Text: trimmed})
	}
	if strings.TrimSpace(payload.Question) == "" || len(options) < 2 {
		return dto.PollResponse{}, ErrNotEnoughOptions
	}

	poll := models.Poll{
		AuthorID: authorID,
		BatchID:  batchID,
		Question: strings.TrimSpace(payload.Question),
		EndsAt:   payload.EndsAt,
		Options:  options,
	}

	if err := s.polls.Create(ctx, &poll); err != nil {
		return dto.PollResponse{}, err
	}

	s.logger.Info().Str("poll_id", poll.ID).Str("author_id", authorID).Msg("poll created")

	return dto.NewPollResponse(poll, authorID), nil
}

// CastVote records one vote for the user in the option's parent poll. A user
// who already voted for any option of that poll is rejected with
// ErrAlreadyVoted; the (poll, user) unique index catches the race where two
// votes from the same user pass the guard read concurrently.
func (s *pollService) CastVote(ctx context.Context, optionID, userID string) (dto.PollResponse, error) {
	attrs := []attribute.KeyValue{
		attribute.String("poll.option_id", optionID),
		attribute.String("user.id", userID),
	}
	spanCtx, span := s.tracer.Start(ctx, "poll.cast_vote", trace.WithAttributes(attrs...))
	defer span.End()

	option, err := s.polls.FindOption(spanCtx, optionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PollResponse{}, ErrPollOptionNotFound
		}
		return dto.PollResponse{}, err
	}

	voted, err := s.polls.HasVoted(spanCtx, option.PollID, userID)
	if err != nil {
		return dto.PollResponse{}, err
	}
	if voted {
		return dto.PollResponse{}, ErrAlreadyVoted
	}

	vote := models.PollVote{
		OptionID: option.ID,
		PollID:   option.PollID,
		UserID:   userID,
	}
	if err := s.polls.CreateVote(spanCtx, &vote); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.PollResponse{}, ErrAlreadyVoted
		}
		span.RecordError(err)
		return dto.PollResponse{}, err
	}

	observability.Interactions().WithLabelValues("poll_vote", "cast").Inc()
	s.logger.Info().Str("poll_id", option.PollID).Str("option_id", option.ID).Msg("vote cast")

	poll, err := s.polls.Find(spanCtx, option.PollID)
	if err != nil {
		return dto.PollResponse{}, err
	}

	return dto.NewPollResponse(poll, userID), nil
}
