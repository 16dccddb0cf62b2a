package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/models"
)

// AdListEntry pairs an advertisement with its impression total, counted from
// the impression rows at read time.
type AdListEntry struct {
	Ad          models.Advertisement
	Impressions int64
}

// AdRepository persists advertisements and their impression records.
type AdRepository interface {
	Create(ctx context.Context, ad *models.Advertisement) error
	Find(ctx context.Context, id string) (AdListEntry, error)
	List(ctx context.Context) ([]AdListEntry, error)
	UpdateStatus(ctx context.Context, id, status string) error
	RecordImpression(ctx context.Context, adID, userID string) error
}

type adRepository struct {
	db *gorm.DB
}

// NewAdRepository constructs a GORM-backed advertisement repository.
func NewAdRepository(db *gorm.DB) AdRepository {
	return &adRepository{db: db}
}

func (r *adRepository) Create(ctx context.Context, ad *models.Advertisement) error {
	return r.db.WithContext(ctx).Create(ad).Error
}

func (r *adRepository) Find(ctx context.Context, id string) (AdListEntry, error) {
	var ad models.Advertisement
	if err := r.db.WithContext(ctx).Preload("Advertiser").First(&ad, "id = ?", id).Error; err != nil {
		return AdListEntry{}, err
	}

	impressions, err := r.countImpressions(ctx, ad.ID)
	if err != nil {
		return AdListEntry{}, err
	}
	return AdListEntry{Ad: ad, Impressions: impressions}, nil
}

func (r *adRepository) List(ctx context.Context) ([]AdListEntry, error) {
	var ads []models.Advertisement
	if err := r.db.WithContext(ctx).
		Preload("Advertiser").
		Order("created_at DESC").
		Find(&ads).Error; err != nil {
		return nil, err
	}

	entries := make([]AdListEntry, 0, len(ads))
	for _, ad := range ads {
		impressions, err := r.countImpressions(ctx, ad.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, AdListEntry{Ad: ad, Impressions: impressions})
	}
	return entries, nil
}

func (r *adRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Advertisement{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *adRepository) RecordImpression(ctx context.Context, adID, userID string) error {
	impression := models.AdImpression{AdID: adID, UserID: userID}
	return r.db.WithContext(ctx).Create(&impression).Error
}

func (r *adRepository) countImpressions(ctx context.Context, adID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AdImpression{}).
		Where("ad_id = ?", adID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
