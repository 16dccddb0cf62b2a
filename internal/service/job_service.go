package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/repository"
)

// ErrJobForbidden indicates the caller may not manage the job posting.
var ErrJobForbidden = errors.New("not allowed to manage this job posting")

// JobService exposes the batch job board.
type JobService interface {
	ListJobs(ctx context.Context, batchID string) ([]dto.JobResponse, error)
	CreateJob(ctx context.Context, posterID, batchID string, payload dto.JobCreateRequest) (dto.JobResponse, error)
	CloseJob(ctx context.Context, jobID, userID, role string) error
}

type jobService struct {
	repo      repository.JobRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
	sanitizer *bluemonday.Policy
}

// NewJobService constructs the job board service.
func NewJobService(repo repository.JobRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) JobService {
	return &jobService{
		repo:      repo,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "job_service").Logger(),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// ListJobs returns active, unexpired postings for the batch, newest first.
func (s *jobService) ListJobs(ctx context.Context, batchID string) ([]dto.JobResponse, error) {
	jobs, err := s.repo.ListActiveByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return dto.NewJobResponseSlice(jobs), nil
}

func (s *jobService) CreateJob(ctx context.Context, posterID, batchID string, payload dto.JobCreateRequest) (dto.JobResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.JobResponse{}, err
	}

	poster, err := s.users.FindByID(ctx, posterID)
	if err != nil {
		return dto.JobResponse{}, err
	}

	jobType := payload.Type
	if jobType == "" {
		jobType = "full-time"
	}

	job := models.Job{
		PosterID:     poster.ID,
		BatchID:      batchID,
		Title:        strings.TrimSpace(payload.Title),
		Company:      strings.TrimSpace(payload.Company),
		Location:     strings.TrimSpace(payload.Location),
		Type:         jobType,
		Description:  strings.TrimSpace(s.sanitizer.Sanitize(payload.Description)),
		Salary:       strings.TrimSpace(payload.Salary),
		ContactEmail: strings.TrimSpace(payload.ContactEmail),
		ContactPhone: strings.TrimSpace(payload.ContactPhone),
		IsActive:     true,
		ExpiresAt:    payload.ExpiresAt,
	}

	if err := s.repo.Create(ctx, &job); err != nil {
		return dto.JobResponse{}, err
	}

	job.Poster = &poster
	s.logger.Info().Str("job_id", job.ID).Str("poster_id", poster.ID).Msg("job posted")

	return dto.NewJobResponse(job), nil
}

// CloseJob deactivates a posting. Only its poster or an admin may do so.
func (s *jobService) CloseJob(ctx context.Context, jobID, userID, role string) error {
	job, err := s.repo.Find(ctx, jobID)
	if err != nil {
		return err
	}

	if job.PosterID != userID && role != models.UserRoleAdmin {
		return ErrJobForbidden
	}

	return s.repo.SetActive(ctx, jobID, false)
}
