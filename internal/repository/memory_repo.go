package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/models"
)

// MemoryRepository persists batch memories.
type MemoryRepository interface {
	ListByBatch(ctx context.Context, batchID string) ([]models.Memory, error)
	Create(ctx context.Context, memory *models.Memory) error
}

type memoryRepository struct {
	db *gorm.DB
}

// NewMemoryRepository constructs a GORM-backed memory repository.
func NewMemoryRepository(db *gorm.DB) MemoryRepository {
	return &memoryRepository{db: db}
}

func (r *memoryRepository) ListByBatch(ctx context.Context, batchID string) ([]models.Memory, error) {
	var memories []models.Memory
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Preload("Author").
		Order("created_at DESC").
		Find(&memories).Error; err != nil {
		return nil, err
	}
	return memories, nil
}

func (r *memoryRepository) Create(ctx context.Context, memory *models.Memory) error {
	return r.db.WithContext(ctx).Create(memory).Error
}
