package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"friendgraph-api/config"
	"friendgraph-api/events"
	"friendgraph-api/models"
	"friendgraph-api/repositories"
)

type capturedMail struct {
	to      []string
	subject []string
	body    string
}

type fakeSender struct {
	sent []capturedMail
	err  error
}

func (s *fakeSender) DialAndSend(msgs ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	for _, m := range msgs {
		var buf bytes.Buffer
		if _, err := m.WriteTo(&buf); err != nil {
			return err
		}
		s.sent = append(s.sent, capturedMail{to: m.GetHeader("To"), subject: m.GetHeader("Subject"), body: buf.String()})
	}
	return nil
}

func newEmailService(t *testing.T) (*EmailService, *fakeSender) {
	t.Helper()
	store := repositories.NewMemoryStore()
	store.AddUser(models.User{ID: "1", Username: "alice", Email: "alice@example.com"})
	store.AddUser(models.User{ID: "2", Username: "bob", Email: "bob@example.com"})

	sender := &fakeSender{}
	return &EmailService{
		config: &config.Config{FromEmail: "noreply@friendgraph.dev", FromName: "FriendGraph"},
		sender: sender,
		users:  store,
		log:    zap.NewNop(),
	}, sender
}

func TestEmailServiceNotifiesRecipientOfRequest(t *testing.T) {
	es, sender := newEmailService(t)
	friendship := models.NewFriendship("f-1", "1", "2")

	err := es.Publish(context.Background(), events.NewFriendshipEvent(events.FriendshipRequested, "1", friendship))
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"bob@example.com"}, sender.sent[0].to)
	assert.Equal(t, []string{"New friend request"}, sender.sent[0].subject)
	assert.Contains(t, sender.sent[0].body, "alice sent you a friend request")
}

func TestEmailServiceNotifiesRequesterOfConfirmation(t *testing.T) {
	es, sender := newEmailService(t)
	friendship := models.NewFriendship("f-1", "1", "2")
	friendship.Status = models.FriendshipStatusConfirmed

	err := es.Publish(context.Background(), events.NewFriendshipEvent(events.FriendshipConfirmed, "2", friendship))
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"alice@example.com"}, sender.sent[0].to)
	assert.Contains(t, sender.sent[0].body, "bob accepted your friend request")
}

func TestEmailServiceIgnoresRemovals(t *testing.T) {
	es, sender := newEmailService(t)
	friendship := models.NewFriendship("f-1", "1", "2")

	err := es.Publish(context.Background(), events.NewFriendshipEvent(events.FriendshipRemoved, "1", friendship))
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestEmailServiceReportsSendFailures(t *testing.T) {
	es, sender := newEmailService(t)
	sender.err = errors.New("connection refused")

	err := es.SendFriendRequestEmail(context.Background(), "2", "1")
	assert.ErrorContains(t, err, "failed to send friend request email")

	err = es.SendFriendRequestEmail(context.Background(), "99", "1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
