package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/repository"
)

// BusinessService exposes the alumni business directory.
type BusinessService interface {
	ListBusinesses(ctx context.Context, category string) ([]dto.BusinessResponse, error)
	CreateBusiness(ctx context.Context, ownerID string, payload dto.BusinessCreateRequest) (dto.BusinessResponse, error)
}

type businessService struct {
	repo      repository.BusinessRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
	sanitizer *bluemonday.Policy
}

// NewBusinessService constructs the directory service.
func NewBusinessService(repo repository.BusinessRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) BusinessService {
	return &businessService{
		repo:      repo,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "business_service").Logger(),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// ListBusinesses returns listings, optionally narrowed to one category.
// "all" and an empty category both mean no filter.
func (s *businessService) ListBusinesses(ctx context.Context, category string) ([]dto.BusinessResponse, error) {
	businesses, err := s.repo.List(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}
	return dto.NewBusinessResponseSlice(businesses), nil
}

func (s *businessService) CreateBusiness(ctx context.Context, ownerID string, payload dto.BusinessCreateRequest) (dto.BusinessResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BusinessResponse{}, err
	}

	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return dto.BusinessResponse{}, err
	}

	business := models.BusinessProfile{
		UserID:           owner.ID,
		BusinessName:     strings.TrimSpace(payload.BusinessName),
		Category:         strings.ToLower(strings.TrimSpace(payload.Category)),
		ShortDescription: strings.TrimSpace(s.sanitizer.Sanitize(payload.ShortDescription)),
		WebsiteURL:       strings.TrimSpace(payload.WebsiteURL),
		Phone:            strings.TrimSpace(payload.Phone),
		City:             strings.TrimSpace(payload.City),
		Country:          strings.TrimSpace(payload.Country),
	}

	if err := s.repo.Create(ctx, &business); err != nil {
		return dto.BusinessResponse{}, err
	}

	business.User = &owner
	s.logger.Info().Str("business_id", business.ID).Str("owner_id", owner.ID).Msg("business listed")

	return dto.NewBusinessResponse(business), nil
}
