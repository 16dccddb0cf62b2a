package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/models"
)

// PostRepository persists feed posts, comments and likes.
type PostRepository interface {
	ListByBatch(ctx context.Context, batchID string, limit, offset int) ([]models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Find(ctx context.Context, id string) (models.Post, error)
	Delete(ctx context.Context, id string) error
	CreateComment(ctx context.Context, comment *models.Comment) error
	FindLike(ctx context.Context, postID, userID string) (models.Like, error)
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, id string) error
	CountLikes(ctx context.Context, postID string) (int64, error)
	LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]struct{}, error)
	CountByAuthor(ctx context.Context, authorID string) (posts, comments int64, err error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository constructs a GORM-backed post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) ListByBatch(ctx context.Context, batchID string, limit, offset int) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var posts []models.Post
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author").
		Preload("Likes").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Find(ctx context.Context, id string) (models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Preload("Author").
		First(&post).Error; err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *postRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *postRepository) FindLike(ctx context.Context, postID, userID string) (models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&like).Error; err != nil {
		return models.Like{}, err
	}
	return like, nil
}

func (r *postRepository) CreateLike(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *postRepository) DeleteLike(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Like{}).Error
}

func (r *postRepository) CountLikes(ctx context.Context, postID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postRepository) LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]struct{}, error) {
	liked := make(map[string]struct{}, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}

	var likes []models.Like
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&likes).Error; err != nil {
		return nil, err
	}

	for _, like := range likes {
		liked[like.PostID] = struct{}{}
	}
	return liked, nil
}

// CountByAuthor tallies how many posts and comments a user has written.
func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (posts, comments int64, err error) {
	if err = r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Count(&posts).Error; err != nil {
		return 0, 0, err
	}

	if err = r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("author_id = ?", authorID).
		Count(&comments).Error; err != nil {
		return 0, 0, err
	}

	return posts, comments, nil
}
