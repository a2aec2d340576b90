package service

import (
	"coachfit/coaching-app/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageSendAndConversation(t *testing.T) {
	ctx := context.Background()
	f := newCoachFixture(t)
	messages := &fakeMessageRepo{}
	svc := NewMessageService(f.users, messages)

	_, err := svc.Send(ctx, f.coach.ID, f.client.ID, "")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.Send(ctx, f.coach.ID, f.client.ID, "How did the week go?")
	require.NoError(t, err)
	_, err = svc.Send(ctx, f.client.ID, f.coach.ID, "Pretty good, legs are sore")
	require.NoError(t, err)

	conversation, err := svc.GetConversation(ctx, f.coach.ID, f.client.ID)
	require.NoError(t, err)
	require.Len(t, conversation, 2)
	assert.Equal(t, f.coach.ID, conversation[0].SenderID)
	assert.Equal(t, f.client.ID, conversation[1].SenderID)
	assert.Nil(t, conversation[1].ReadAt)

	// The coach marks the client's messages as read.
	require.NoError(t, svc.MarkConversationRead(ctx, f.coach.ID, f.client.ID))
	conversation, err = svc.GetConversation(ctx, f.coach.ID, f.client.ID)
	require.NoError(t, err)
	assert.NotNil(t, conversation[1].ReadAt)
	// The coach's own outgoing message is untouched.
	assert.Nil(t, conversation[0].ReadAt)
}

func TestMessagePairingRequired(t *testing.T) {
	ctx := context.Background()
	f := newCoachFixture(t)
	svc := NewMessageService(f.users, &fakeMessageRepo{})

	stranger := f.users.add(&domain.User{Name: "Stranger", Email: "s@test.com", Role: domain.RoleClient})
	_, err := svc.Send(ctx, f.coach.ID, stranger.ID, "hello")
	assert.ErrorIs(t, err, ErrNotPaired)

	otherCoach := f.users.add(&domain.User{Name: "Other", Email: "o@test.com", Role: domain.RoleCoach})
	_, err = svc.Send(ctx, f.client.ID, otherCoach.ID, "hello")
	assert.ErrorIs(t, err, ErrNotPaired)

	// Client to their own coach is allowed.
	_, err = svc.Send(ctx, f.client.ID, f.coach.ID, "hello coach")
	require.NoError(t, err)
}
