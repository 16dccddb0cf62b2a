package service

import (
	"context"
	"errors"
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
	"github.com/alumlink/alumlink-api/internal/repository"
)

// Sentinel errors surfaced by the messaging service.
var (
	ErrSelfThread        = errors.New("cannot open a conversation with yourself")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrNotParticipant    = errors.New("not a participant of this conversation")
)

// MessageBroadcaster delivers a freshly posted message to live subscribers.
type MessageBroadcaster interface {
	Broadcast(ctx context.Context, message dto.MessageResponse)
}

// MessagingService exposes the direct-messaging use-cases.
type MessagingService interface {
	OpenThread(ctx context.Context, requesterID, recipientID string) (dto.ThreadOpenResponse, error)
	ListThreads(ctx context.Context, userID string) ([]dto.ThreadSummaryResponse, error)
	ListMessages(ctx context.Context, threadID, userID string, limit, offset int) ([]dto.MessageResponse, error)
	SendMessage(ctx context.Context, threadID, senderID string, payload dto.MessageSendRequest) (dto.MessageResponse, error)
	IsParticipant(ctx context.Context, threadID, userID string) (bool, error)
}

type messagingService struct {
	threads       repository.ThreadRepository
	users         repository.UserRepository
	notifications NotificationPublisher
	broadcaster   MessageBroadcaster
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
	sanitizer     *bluemonday.Policy
}

// NewMessagingService constructs a messaging service. The broadcaster may be
// nil when no live stream is wired (tests).
func NewMessagingService(threads repository.ThreadRepository, users repository.UserRepository, notifications NotificationPublisher, broadcaster MessageBroadcaster, validate *validator.Validate, logger zerolog.Logger) MessagingService {
	return &messagingService{
		threads:       threads,
		users:         users,
		notifications: notifications,
		broadcaster:   broadcaster,
		validator:     validate,
		logger:        logger.With().Str("component", "messaging_service").Logger(),
		tracer:        otel.Tracer("github.com/alumlink/alumlink-api/internal/service/messaging"),
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

// OpenThread finds the unique conversation between the two users, creating it
// on first contact. The pair key carries the uniqueness guarantee: when two
// first messages race, the losing insert observes a duplicate key and falls
// back to reading the winner's thread, so both callers see one id.
func (s *messagingService) OpenThread(ctx context.Context, requesterID, recipientID string) (dto.ThreadOpenResponse, error) {
	requesterID = strings.TrimSpace(requesterID)
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return dto.ThreadOpenResponse{}, ErrRecipientNotFound
	}
	if requesterID == recipientID {
		return dto.ThreadOpenResponse{}, ErrSelfThread
	}

	attrs := []attribute.KeyValue{attribute.String("thread.requester_id", requesterID)}
	spanCtx, span := s.tracer.Start(ctx, "messaging.open_thread", trace.WithAttributes(attrs...))
	defer span.End()

	if _, err := s.users.FindByID(spanCtx, recipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ThreadOpenResponse{}, ErrRecipientNotFound
		}
		return dto.ThreadOpenResponse{}, err
	}

	pairKey := models.ThreadPairKey(requesterID, recipientID)

	existing, err := s.threads.FindByPairKey(spanCtx, pairKey)
	if err == nil {
		return dto.ThreadOpenResponse{ThreadID: existing.ID}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ThreadOpenResponse{}, err
	}

	thread := models.MessageThread{PairKey: pairKey}
	if err := s.threads.CreateWithParticipants(spanCtx, &thread, requesterID, recipientID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, readErr := s.threads.FindByPairKey(spanCtx, pairKey)
			if readErr != nil {
				return dto.ThreadOpenResponse{}, readErr
			}
			return dto.ThreadOpenResponse{ThreadID: winner.ID}, nil
		}
		span.RecordError(err)
		return dto.ThreadOpenResponse{}, err
	}

	s.logger.Info().Str("thread_id", thread.ID).Msg("conversation created")

	return dto.ThreadOpenResponse{ThreadID: thread.ID, Created: true}, nil
}

func (s *messagingService) ListThreads(ctx context.Context, userID string) ([]dto.ThreadSummaryResponse, error) {
	entries, err := s.threads.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.ThreadSummaryResponse, 0, len(entries))
	for _, entry := range entries {
		summaries = append(summaries, dto.NewThreadSummaryResponse(entry))
	}
	return summaries, nil
}

func (s *messagingService) ListMessages(ctx context.Context, threadID, userID string, limit, offset int) ([]dto.MessageResponse, error) {
	isParticipant, err := s.threads.IsParticipant(ctx, threadID, userID)
	if err != nil {
		return nil, err
	}
	if !isParticipant {
		return nil, ErrNotParticipant
	}

	messages, err := s.threads.ListMessages(ctx, threadID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewMessageResponseSlice(messages), nil
}

// SendMessage appends to the thread after verifying the sender belongs to it.
// A non-participant is rejected, never silently dropped.
func (s *messagingService) SendMessage(ctx context.Context, threadID, senderID string, payload dto.MessageSendRequest) (dto.MessageResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MessageResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.MessageResponse{}, errors.New("message content empty after sanitization")
	}

	attrs := []attribute.KeyValue{attribute.String("thread.id", threadID)}
	spanCtx, span := s.tracer.Start(ctx, "messaging.send", trace.WithAttributes(attrs...))
	defer span.End()

	isParticipant, err := s.threads.IsParticipant(spanCtx, threadID, senderID)
	if err != nil {
		return dto.MessageResponse{}, err
	}
	if !isParticipant {
		return dto.MessageResponse{}, ErrNotParticipant
	}

	message := models.DirectMessage{
		ThreadID: threadID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.threads.CreateMessage(spanCtx, &message); err != nil {
		span.RecordError(err)
		return dto.MessageResponse{}, err
	}

	response := dto.NewMessageResponse(message)

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(spanCtx, response)
	}
	s.notifyRecipient(spanCtx, threadID, senderID)

	return response, nil
}

func (s *messagingService) IsParticipant(ctx context.Context, threadID, userID string) (bool, error) {
	return s.threads.IsParticipant(ctx, threadID, userID)
}

func (s *messagingService) notifyRecipient(ctx context.Context, threadID, senderID string) {
	if s.notifications == nil {
		return
	}

	recipientID, err := s.threads.OtherParticipant(ctx, threadID, senderID)
	if err != nil {
		s.logger.Warn().Err(err).Str("thread_id", threadID).Msg("failed to resolve message recipient")
		return
	}

	payload := dto.NotificationCreateRequest{
		UserID:  recipientID,
		Type:    models.NotificationTypeDirectMessage,
		Message: "You have a new message",
	}
	if _, err := s.notifications.Publish(ctx, payload); err != nil {
		s.logger.Warn().Err(err).Str("thread_id", threadID).Msg("failed to publish message notification")
	}
}
