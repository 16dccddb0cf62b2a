package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/models"
)

// ThreadListEntry is one inbox row: the thread, the other participant and the
// most recent message for preview.
type ThreadListEntry struct {
	Thread      models.MessageThread
	Other       models.User
	LastMessage *models.DirectMessage
}

// ThreadRepository persists two-party message threads.
type ThreadRepository interface {
	FindByPairKey(ctx context.Context, pairKey string) (models.MessageThread, error)
	CreateWithParticipants(ctx context.Context, thread *models.MessageThread, userA, userB string) error
	ListForUser(ctx context.Context, userID string) ([]ThreadListEntry, error)
	IsParticipant(ctx context.Context, threadID, userID string) (bool, error)
	OtherParticipant(ctx context.Context, threadID, userID string) (string, error)
	CreateMessage(ctx context.Context, message *models.DirectMessage) error
	ListMessages(ctx context.Context, threadID string, limit, offset int) ([]models.DirectMessage, error)
}

type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository constructs a GORM-backed thread repository.
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) FindByPairKey(ctx context.Context, pairKey string) (models.MessageThread, error) {
	var thread models.MessageThread
	if err := r.db.WithContext(ctx).Where("pair_key = ?", pairKey).First(&thread).Error; err != nil {
		return models.MessageThread{}, err
	}
	return thread, nil
}

// CreateWithParticipants writes the thread and both participant rows in one
// transaction. A duplicate pair key from a racing creation surfaces as
// gorm.ErrDuplicatedKey; the caller falls back to a read.
func (r *threadRepository) CreateWithParticipants(ctx context.Context, thread *models.MessageThread, userA, userB string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(thread).Error; err != nil {
			return err
		}

		participants := []models.ThreadParticipant{
			{ThreadID: thread.ID, UserID: userA},
			{ThreadID: thread.ID, UserID: userB},
		}
		return tx.Create(&participants).Error
	})
}

func (r *threadRepository) ListForUser(ctx context.Context, userID string) ([]ThreadListEntry, error) {
	var threads []models.MessageThread
	if err := r.db.WithContext(ctx).
		Joins("JOIN thread_participants ON thread_participants.thread_id = message_threads.id").
		Where("thread_participants.user_id = ?", userID).
		Preload("Participants").
		Preload("Participants.User").
		Order("message_threads.created_at DESC").
		Find(&threads).Error; err != nil {
		return nil, err
	}

	entries := make([]ThreadListEntry, 0, len(threads))
	for _, thread := range threads {
		entry := ThreadListEntry{Thread: thread}

		for _, participant := range thread.Participants {
			if participant.UserID != userID && participant.User != nil {
				entry.Other = *participant.User
			}
		}

		var last models.DirectMessage
		err := r.db.WithContext(ctx).
			Where("thread_id = ?", thread.ID).
			Order("created_at DESC").
			First(&last).Error
		switch {
		case err == nil:
			entry.LastMessage = &last
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Thread without messages yet: preview stays empty.
		default:
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (r *threadRepository) IsParticipant(ctx context.Context, threadID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ThreadParticipant{}).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// OtherParticipant returns the id of the participant on the far side of a
// two-person thread.
func (r *threadRepository) OtherParticipant(ctx context.Context, threadID, userID string) (string, error) {
	var participant models.ThreadParticipant
	if err := r.db.WithContext(ctx).
		Where("thread_id = ? AND user_id <> ?", threadID, userID).
		First(&participant).Error; err != nil {
		return "", err
	}
	return participant.UserID, nil
}

func (r *threadRepository) CreateMessage(ctx context.Context, message *models.DirectMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *threadRepository) ListMessages(ctx context.Context, threadID string, limit, offset int) ([]models.DirectMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var messages []models.DirectMessage
	if err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Preload("Sender").
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
