package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/models"
)

// BusinessRepository persists directory listings.
type BusinessRepository interface {
	List(ctx context.Context, category string) ([]models.BusinessProfile, error)
	Create(ctx context.Context, business *models.BusinessProfile) error
}

type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository constructs a GORM-backed business repository.
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) List(ctx context.Context, category string) ([]models.BusinessProfile, error) {
	query := r.db.WithContext(ctx).Preload("User")
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}

	var businesses []models.BusinessProfile
	if err := query.Order("created_at DESC").Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) Create(ctx context.Context, business *models.BusinessProfile) error {
	return r.db.WithContext(ctx).Create(business).Error
}
