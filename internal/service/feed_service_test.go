package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/repository"
)

func setupFeedService(t *testing.T) (FeedService, *publisherStub, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t, &models.User{}, &models.Post{}, &models.Comment{}, &models.Like{})
	publisher := &publisherStub{}
	svc := NewFeedService(repository.NewPostRepository(db), publisher, testValidator(), testLogger())
	return svc, publisher, db
}

func TestFeedServiceToggleLike(t *testing.T) {
	svc, _, db := setupFeedService(t)
	author := seedUser(t, db, "author@example.com")
	fan := seedUser(t, db, "fan@example.com")

	post, err := svc.CreatePost(context.Background(), author.ID, "batch-2009", dto.PostCreateRequest{Content: "we made it"})
	require.NoError(t, err)

	liked, err := svc.ToggleLike(context.Background(), post.ID, fan.ID)
	require.NoError(t, err)
	require.True(t, liked.Liked)
	require.Equal(t, int64(1), liked.LikesCount)

	unliked, err := svc.ToggleLike(context.Background(), post.ID, fan.ID)
	require.NoError(t, err)
	require.False(t, unliked.Liked)
	require.Zero(t, unliked.LikesCount)

	again, err := svc.ToggleLike(context.Background(), post.ID, fan.ID)
	require.NoError(t, err)
	require.True(t, again.Liked)
	require.Equal(t, int64(1), again.LikesCount)
}

func TestFeedServiceToggleLikeUnknownPost(t *testing.T) {
	svc, _, db := setupFeedService(t)
	fan := seedUser(t, db, "fan@example.com")

	_, err := svc.ToggleLike(context.Background(), "no-such-post", fan.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFeedServiceCommentNotifiesAuthor(t *testing.T) {
	svc, publisher, db := setupFeedService(t)
	author := seedUser(t, db, "author@example.com")
	commenter := seedUser(t, db, "commenter@example.com")

	post, err := svc.CreatePost(context.Background(), author.ID, "batch-2009", dto.PostCreateRequest{Content: "remember the last day of school?"})
	require.NoError(t, err)

	comment, err := svc.CreateComment(context.Background(), post.ID, commenter.ID, dto.CommentCreateRequest{
		Content: "<img src=x onerror=alert(1)>of course",
	})
	require.NoError(t, err)
	require.Equal(t, "of course", comment.Content)

	require.Len(t, publisher.calls, 1)
	require.Equal(t, author.ID, publisher.calls[0].UserID)
	require.Equal(t, models.NotificationTypeComment, publisher.calls[0].Type)
}

func TestFeedServiceSanitizationPolicies(t *testing.T) {
	svc, _, db := setupFeedService(t)
	author := seedUser(t, db, "author@example.com")
	commenter := seedUser(t, db, "commenter@example.com")

	// Posts keep the basic formatting UGCPolicy allows; scripts still go.
	post, err := svc.CreatePost(context.Background(), author.ID, "batch-2009", dto.PostCreateRequest{
		Content: "<script>alert(1)</script><b>reunion</b> is on",
	})
	require.NoError(t, err)
	require.Equal(t, "<b>reunion</b> is on", post.Content)

	// Comments are plain text.
	comment, err := svc.CreateComment(context.Background(), post.ID, commenter.ID, dto.CommentCreateRequest{
		Content: "<b>count me in</b>",
	})
	require.NoError(t, err)
	require.Equal(t, "count me in", comment.Content)
}

func TestFeedServiceAuthorStats(t *testing.T) {
	svc, _, db := setupFeedService(t)
	author := seedUser(t, db, "author@example.com")
	commenter := seedUser(t, db, "commenter@example.com")

	first, err := svc.CreatePost(context.Background(), author.ID, "batch-2009", dto.PostCreateRequest{Content: "first reunion photos are up"})
	require.NoError(t, err)
	_, err = svc.CreatePost(context.Background(), author.ID, "batch-2009", dto.PostCreateRequest{Content: "second batch of photos"})
	require.NoError(t, err)

	_, err = svc.CreateComment(context.Background(), first.ID, commenter.ID, dto.CommentCreateRequest{Content: "great shots"})
	require.NoError(t, err)
	_, err = svc.CreateComment(context.Background(), first.ID, author.ID, dto.CommentCreateRequest{Content: "more coming soon"})
	require.NoError(t, err)

	stats, err := svc.AuthorStats(context.Background(), author.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.PostsCount)
	require.Equal(t, int64(1), stats.CommentsCount)

	empty, err := svc.AuthorStats(context.Background(), commenter.ID)
	require.NoError(t, err)
	require.Zero(t, empty.PostsCount)
	require.Equal(t, int64(1), empty.CommentsCount)
}

func TestFeedServiceSelfCommentSkipsNotification(t *testing.T) {
	svc, publisher, db := setupFeedService(t)
	author := seedUser(t, db, "author@example.com")

	post, err := svc.CreatePost(context.Background(), author.ID, "batch-2009", dto.PostCreateRequest{Content: "first!"})
	require.NoError(t, err)

	_, err = svc.CreateComment(context.Background(), post.ID, author.ID, dto.CommentCreateRequest{Content: "replying to myself"})
	require.NoError(t, err)
	require.Empty(t, publisher.calls)
}

func TestFeedServiceDeletePostAuthorization(t *testing.T) {
	svc, _, db := setupFeedService(t)
	author := seedUser(t, db, "author@example.com")
	stranger := seedUser(t, db, "stranger@example.com")

	post, err := svc.CreatePost(context.Background(), author.ID, "batch-2009", dto.PostCreateRequest{Content: "short lived"})
	require.NoError(t, err)

	err = svc.DeletePost(context.Background(), post.ID, stranger.ID, models.UserRoleMember)
	require.ErrorIs(t, err, ErrFeedForbidden)

	require.NoError(t, svc.DeletePost(context.Background(), post.ID, stranger.ID, models.UserRoleAdmin))

	err = svc.DeletePost(context.Background(), post.ID, author.ID, models.UserRoleMember)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFeedServiceListMarksViewerLikes(t *testing.T) {
	svc, _, db := setupFeedService(t)
	author := seedUser(t, db, "author@example.com")
	fan := seedUser(t, db, "fan@example.com")

	first, err := svc.CreatePost(context.Background(), author.ID, "batch-2009", dto.PostCreateRequest{Content: "post one"})
	require.NoError(t, err)
	_, err = svc.CreatePost(context.Background(), author.ID, "batch-2009", dto.PostCreateRequest{Content: "post two"})
	require.NoError(t, err)

	_, err = svc.ToggleLike(context.Background(), first.ID, fan.ID)
	require.NoError(t, err)

	posts, err := svc.ListFeed(context.Background(), "batch-2009", fan.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, post := range posts {
		if post.ID == first.ID {
			require.True(t, post.LikedByMe)
			require.Equal(t, 1, post.LikesCount)
		} else {
			require.False(t, post.LikedByMe)
		}
	}
}
