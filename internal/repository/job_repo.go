package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/models"
)

// JobRepository persists job board postings.
type JobRepository interface {
	ListActiveByBatch(ctx context.Context, batchID string) ([]models.Job, error)
	Create(ctx context.Context, job *models.Job) error
	Find(ctx context.Context, id string) (models.Job, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository constructs a GORM-backed job repository.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) ListActiveByBatch(ctx context.Context, batchID string) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.WithContext(ctx).
		Where("batch_id = ? AND is_active = ?", batchID, true).
		Preload("Poster").
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) Find(ctx context.Context, id string) (models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return models.Job{}, err
	}
	return job, nil
}

func (r *jobRepository) SetActive(ctx context.Context, id string, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
