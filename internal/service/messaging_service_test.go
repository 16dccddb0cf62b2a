package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/repository"
)

type publisherStub struct {
	calls []dto.NotificationCreateRequest
}

func (p *publisherStub) Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	p.calls = append(p.calls, payload)
	return dto.NotificationResponse{UserID: payload.UserID, Type: payload.Type, Message: payload.Message}, nil
}

type broadcasterStub struct {
	messages []dto.MessageResponse
}

func (b *broadcasterStub) Broadcast(ctx context.Context, message dto.MessageResponse) {
	b.messages = append(b.messages, message)
}

func setupMessagingService(t *testing.T) (MessagingService, *publisherStub, *broadcasterStub, models.User, models.User) {
	t.Helper()
	db := setupServiceDB(t, &models.User{}, &models.MessageThread{}, &models.ThreadParticipant{}, &models.DirectMessage{})
	publisher := &publisherStub{}
	broadcaster := &broadcasterStub{}
	svc := NewMessagingService(
		repository.NewThreadRepository(db),
		repository.NewUserRepository(db),
		publisher,
		broadcaster,
		testValidator(),
		testLogger(),
	)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	return svc, publisher, broadcaster, alice, bob
}

func TestMessagingServiceOpenThreadIdempotentAndSymmetric(t *testing.T) {
	svc, _, _, alice, bob := setupMessagingService(t)

	first, err := svc.OpenThread(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotEmpty(t, first.ThreadID)
	require.True(t, first.Created)

	again, err := svc.OpenThread(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, first.ThreadID, again.ThreadID)
	require.False(t, again.Created)

	reversed, err := svc.OpenThread(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, first.ThreadID, reversed.ThreadID, "both directions resolve to one conversation")
	require.False(t, reversed.Created)
}

func TestMessagingServiceOpenThreadRejectsSelf(t *testing.T) {
	svc, _, _, alice, _ := setupMessagingService(t)

	_, err := svc.OpenThread(context.Background(), alice.ID, alice.ID)
	require.ErrorIs(t, err, ErrSelfThread)
}

func TestMessagingServiceOpenThreadUnknownRecipient(t *testing.T) {
	svc, _, _, alice, _ := setupMessagingService(t)

	_, err := svc.OpenThread(context.Background(), alice.ID, "no-such-user")
	require.ErrorIs(t, err, ErrRecipientNotFound)

	_, err = svc.OpenThread(context.Background(), alice.ID, "  ")
	require.ErrorIs(t, err, ErrRecipientNotFound)
}

func TestMessagingServiceSendMessageGuardsParticipants(t *testing.T) {
	svc, publisher, broadcaster, alice, bob := setupMessagingService(t)

	opened, err := svc.OpenThread(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), opened.ThreadID, "outsider", dto.MessageSendRequest{Content: "let me in"})
	require.ErrorIs(t, err, ErrNotParticipant)
	require.Empty(t, broadcaster.messages)
	require.Empty(t, publisher.calls)

	sent, err := svc.SendMessage(context.Background(), opened.ThreadID, alice.ID, dto.MessageSendRequest{
		Content: "<script>alert(1)</script>see you at the reunion",
	})
	require.NoError(t, err)
	require.Equal(t, "see you at the reunion", sent.Content)
	require.Equal(t, alice.ID, sent.SenderID)

	require.Len(t, broadcaster.messages, 1)
	require.Equal(t, sent.ID, broadcaster.messages[0].ID)

	require.Len(t, publisher.calls, 1)
	require.Equal(t, bob.ID, publisher.calls[0].UserID, "the other participant gets notified")
	require.Equal(t, models.NotificationTypeDirectMessage, publisher.calls[0].Type)
}

func TestMessagingServiceSendMessageRejectsEmptyAfterSanitize(t *testing.T) {
	svc, _, _, alice, bob := setupMessagingService(t)

	opened, err := svc.OpenThread(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), opened.ThreadID, alice.ID, dto.MessageSendRequest{Content: "<script>alert(1)</script>"})
	require.Error(t, err)
}

func TestMessagingServiceListMessagesRequiresParticipant(t *testing.T) {
	svc, _, _, alice, bob := setupMessagingService(t)

	opened, err := svc.OpenThread(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	for _, content := range []string{"hello", "how are you"} {
		_, err := svc.SendMessage(context.Background(), opened.ThreadID, alice.ID, dto.MessageSendRequest{Content: content})
		require.NoError(t, err)
	}

	_, err = svc.ListMessages(context.Background(), opened.ThreadID, "outsider", 10, 0)
	require.ErrorIs(t, err, ErrNotParticipant)

	messages, err := svc.ListMessages(context.Background(), opened.ThreadID, bob.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, "hello", messages[0].Content, "oldest first")
}

func TestMessagingServiceListThreadsShowsPreview(t *testing.T) {
	svc, _, _, alice, bob := setupMessagingService(t)

	opened, err := svc.OpenThread(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), opened.ThreadID, bob.ID, dto.MessageSendRequest{Content: "long time no see"})
	require.NoError(t, err)

	threads, err := svc.ListThreads(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	require.Equal(t, opened.ThreadID, threads[0].ThreadID)
	require.Equal(t, bob.ID, threads[0].Other.ID)
	require.NotNil(t, threads[0].LastMessage)
	require.Equal(t, "long time no see", threads[0].LastMessage.Content)
}
