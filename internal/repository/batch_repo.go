package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/models"
)

// BatchRepository persists schools, batches and member listings.
type BatchRepository interface {
	Find(ctx context.Context, id string) (models.Batch, error)
	EnsureDefault(ctx context.Context, batchID string) (models.Batch, error)
	ListMembers(ctx context.Context, batchID string) ([]models.UserBatch, error)
}

type batchRepository struct {
	db *gorm.DB
}

// NewBatchRepository constructs a GORM-backed batch repository.
func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Find(ctx context.Context, id string) (models.Batch, error) {
	var batch models.Batch
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&batch).Error; err != nil {
		return models.Batch{}, err
	}
	return batch, nil
}

// EnsureDefault returns the batch, seeding the default school and cohort when
// it does not exist yet. The original platform bootstraps its single cohort
// the same way on first use.
func (r *batchRepository) EnsureDefault(ctx context.Context, batchID string) (models.Batch, error) {
	batch, err := r.Find(ctx, batchID)
	if err == nil {
		return batch, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Batch{}, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		school := models.School{ID: "hadera-high", Name: "Hadera High School"}
		if err := tx.Where("id = ?", school.ID).FirstOrCreate(&school).Error; err != nil {
			return err
		}

		batch = models.Batch{
			ID:             batchID,
			Name:           "Hadera class of 2003",
			GraduationYear: 2003,
			SchoolID:       school.ID,
		}
		return tx.Where("id = ?", batch.ID).FirstOrCreate(&batch).Error
	})
	if err != nil {
		return models.Batch{}, err
	}

	return batch, nil
}

func (r *batchRepository) ListMembers(ctx context.Context, batchID string) ([]models.UserBatch, error) {
	var memberships []models.UserBatch
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Preload("User").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
