package services

import (
	"context"
	"fmt"
	"html"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"friendgraph-api/config"
	"friendgraph-api/events"
	"friendgraph-api/repositories"
)

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService notifies users about friend requests addressed to them and
// about their requests being accepted. It consumes friendship events.
type EmailService struct {
	config *config.Config
	sender mailSender
	users  repositories.UserRepository
	log    *zap.Logger
}

var _ events.Publisher = (*EmailService)(nil)

func NewEmailService(cfg *config.Config, users repositories.UserRepository, log *zap.Logger) *EmailService {
	return &EmailService{
		config: cfg,
		sender: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		users:  users,
		log:    log,
	}
}

func (es *EmailService) Publish(ctx context.Context, event events.FriendshipEvent) error {
	switch event.Type {
	case events.FriendshipRequested:
		return es.SendFriendRequestEmail(ctx, event.FriendUserID, event.UserID)
	case events.FriendshipConfirmed:
		return es.SendFriendConfirmedEmail(ctx, event.UserID, event.FriendUserID)
	default:
		return nil
	}
}

// SendFriendRequestEmail tells recipientID that requesterID wants to connect.
func (es *EmailService) SendFriendRequestEmail(ctx context.Context, recipientID, requesterID string) error {
	recipient, err := es.users.GetUser(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("failed to load recipient: %w", err)
	}
	requester, err := es.users.GetUsername(ctx, requesterID)
	if err != nil {
		return fmt.Errorf("failed to load requester: %w", err)
	}

	textBody := fmt.Sprintf(`
Hi %s!

%s sent you a friend request.

Open the app to confirm it, or simply ignore this email.

The %s Team
`, recipient.Username, requester, es.config.FromName)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <h2>Hi %s!</h2>
    <p><strong>%s</strong> sent you a friend request.</p>
    <p>Open the app to confirm it, or simply ignore this email.</p>
    <p><strong>The %s Team</strong></p>
</body>
</html>`, html.EscapeString(recipient.Username), html.EscapeString(requester), html.EscapeString(es.config.FromName))

	if err := es.send(recipient.Email, "New friend request", textBody, htmlBody); err != nil {
		return fmt.Errorf("failed to send friend request email: %w", err)
	}

	es.log.Info("friend request email sent", zap.String("recipient_id", recipientID))
	return nil
}

// SendFriendConfirmedEmail tells requesterID that accepterID confirmed.
func (es *EmailService) SendFriendConfirmedEmail(ctx context.Context, requesterID, accepterID string) error {
	requester, err := es.users.GetUser(ctx, requesterID)
	if err != nil {
		return fmt.Errorf("failed to load requester: %w", err)
	}
	accepter, err := es.users.GetUsername(ctx, accepterID)
	if err != nil {
		return fmt.Errorf("failed to load accepter: %w", err)
	}

	textBody := fmt.Sprintf(`
Hi %s!

%s accepted your friend request. You are now friends.

The %s Team
`, requester.Username, accepter, es.config.FromName)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <h2>Hi %s!</h2>
    <p><strong>%s</strong> accepted your friend request. You are now friends.</p>
    <p><strong>The %s Team</strong></p>
</body>
</html>`, html.EscapeString(requester.Username), html.EscapeString(accepter), html.EscapeString(es.config.FromName))

	if err := es.send(requester.Email, "Friend request accepted", textBody, htmlBody); err != nil {
		return fmt.Errorf("failed to send friend confirmed email: %w", err)
	}

	es.log.Info("friend confirmed email sent", zap.String("recipient_id", requesterID))
	return nil
}

func (es *EmailService) send(to, subject, textBody, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(es.config.FromEmail, es.config.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	return es.sender.DialAndSend(m)
}
