package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/models"
)

// PollRepository persists polls, options and votes.
type PollRepository interface {
	ListByBatch(ctx context.Context, batchID string) ([]models.Poll, error)
	Create(ctx context.Context, poll *models.Poll) error
	Find(ctx context.Context, id string) (models.Poll, error)
	FindOption(ctx context.Context, optionID string) (models.PollOption, error)
	HasVoted(ctx context.Context, pollID, userID string) (bool, error)
	CreateVote(ctx context.Context, vote *models.PollVote) error
	CountVotesByOption(ctx context.Context, pollID string) (map[string]int64, error)
}

type pollRepository struct {
	db *gorm.DB
}

// NewPollRepository constructs a GORM-backed poll repository.
func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) ListByBatch(ctx context.Context, batchID string) ([]models.Poll, error) {
	var polls []models.Poll
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Preload("Author").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Options.Votes").
		Order("created_at DESC").
		Find(&polls).Error; err != nil {
		return nil, err
	}
	return polls, nil
}

func (r *pollRepository) Create(ctx context.Context, poll *models.Poll) error {
	return r.db.WithContext(ctx).Create(poll).Error
}

func (r *pollRepository) Find(ctx context.Context, id string) (models.Poll, error) {
	var poll models.Poll
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Preload("Author").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Options.Votes").
		First(&poll).Error; err != nil {
		return models.Poll{}, err
	}
	return poll, nil
}

func (r *pollRepository) FindOption(ctx context.Context, optionID string) (models.PollOption, error) {
	var option models.PollOption
	if err := r.db.WithContext(ctx).Where("id = ?", optionID).First(&option).Error; err != nil {
		return models.PollOption{}, err
	}
	return option, nil
}

// HasVoted reports whether the user holds a vote against any option of the
// poll. The vote rows carry the poll id, so one indexed lookup covers all
// options.
func (r *pollRepository) HasVoted(ctx context.Context, pollID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PollVote{}).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *pollRepository) CreateVote(ctx context.Context, vote *models.PollVote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *pollRepository) CountVotesByOption(ctx context.Context, pollID string) (map[string]int64, error) {
	type optionCount struct {
		OptionID string
		Total    int64
	}

	var rows []optionCount
	if err := r.db.WithContext(ctx).
		Model(&models.PollVote{}).
		Select("option_id, COUNT(*) AS total").
		Where("poll_id = ?", pollID).
		Group("option_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.OptionID] = row.Total
	}
	return counts, nil
}
