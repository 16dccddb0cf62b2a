package dto

import (
	"time"

	"github.com/alumlink/alumlink-api/internal/models"
)

// PostCreateRequest is the payload for publishing a feed post.
type PostCreateRequest struct {
	Content string `json:"content" validate:"required,min=1,max=8000"`
	Type    string `json:"type" validate:"omitempty,oneof=general opportunity question"`
}

// CommentCreateRequest is the payload for replying to a post.
type CommentCreateRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

// CommentResponse is the serialized representation of a comment.
type CommentResponse struct {
	ID        string      `json:"id"`
	PostID    string      `json:"post_id"`
	Author    UserSummary `json:"author"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewCommentResponse converts a comment model into a DTO.
func NewCommentResponse(comment models.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Author:    NewUserSummary(comment.Author),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

// PostResponse is the serialized representation of a feed post.
type PostResponse struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	Content       string            `json:"content"`
	Author        UserSummary       `json:"author"`
	Comments      []CommentResponse `json:"comments"`
	CommentsCount int               `json:"comments_count"`
	LikesCount    int               `json:"likes_count"`
	LikedByMe     bool              `json:"liked_by_me"`
	CreatedAt     time.Time         `json:"created_at"`
}

// NewPostResponse converts a post model into a DTO. likedByMe is resolved by
// the caller since it depends on the requesting user.
func NewPostResponse(post models.Post, likedByMe bool) PostResponse {
	comments := make([]CommentResponse, 0, len(post.Comments))
	for _, comment := range post.Comments {
		comments = append(comments, NewCommentResponse(comment))
	}

	return PostResponse{
		ID:            post.ID,
		Type:          post.Type,
		Content:       post.Content,
		Author:        NewUserSummary(post.Author),
		Comments:      comments,
		CommentsCount: len(comments),
		LikesCount:    len(post.Likes),
		LikedByMe:     likedByMe,
		CreatedAt:     post.CreatedAt,
	}
}

// LikeToggleResponse reports the resulting like state and the fresh count.
type LikeToggleResponse struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// UserStatsResponse reports how much a member has contributed to the feed.
type UserStatsResponse struct {
	PostsCount    int64 `json:"posts_count"`
	CommentsCount int64 `json:"comments_count"`
}
