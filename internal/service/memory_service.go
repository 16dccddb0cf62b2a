package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/repository"
)

// ErrMemoryDateInFuture indicates the remembered date has not happened yet.
var ErrMemoryDateInFuture = errors.New("memory date cannot be in the future")

// MemoryService exposes the shared batch memory wall.
type MemoryService interface {
	ListMemories(ctx context.Context, batchID string) ([]dto.MemoryResponse, error)
	CreateMemory(ctx context.Context, authorID, batchID string, payload dto.MemoryCreateRequest) (dto.MemoryResponse, error)
}

type memoryService struct {
	repo      repository.MemoryRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewMemoryService constructs the memory wall service.
func NewMemoryService(repo repository.MemoryRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) MemoryService {
	return &memoryService{
		repo:      repo,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "memory_service").Logger(),
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

func (s *memoryService) ListMemories(ctx context.Context, batchID string) ([]dto.MemoryResponse, error) {
	memories, err := s.repo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]dto.MemoryResponse, 0, len(memories))
	for _, memory := range memories {
		responses = append(responses, dto.NewMemoryResponse(memory, now))
	}
	return responses, nil
}

func (s *memoryService) CreateMemory(ctx context.Context, authorID, batchID string, payload dto.MemoryCreateRequest) (dto.MemoryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MemoryResponse{}, err
	}

	now := s.now()
	if payload.MemoryDate.After(now) {
		return dto.MemoryResponse{}, ErrMemoryDateInFuture
	}

	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return dto.MemoryResponse{}, err
	}

	memory := models.Memory{
		AuthorID:   author.ID,
		BatchID:    batchID,
		Title:      strings.TrimSpace(payload.Title),
		Content:    strings.TrimSpace(s.sanitizer.Sanitize(payload.Content)),
		ImageURL:   strings.TrimSpace(payload.ImageURL),
		MemoryDate: payload.MemoryDate,
	}

	if err := s.repo.Create(ctx, &memory); err != nil {
		return dto.MemoryResponse{}, err
	}

	memory.Author = &author
	s.logger.Info().Str("memory_id", memory.ID).Str("author_id", author.ID).Msg("memory shared")

	return dto.NewMemoryResponse(memory, now), nil
}
