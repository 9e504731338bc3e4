package notifier

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"sparestock/config"
	"sparestock/models"
)

// ProfileLookup resolves a user ID to their profile (for the email address).
type ProfileLookup interface {
	GetByID(id string) (*models.Profile, error)
}

// MailNotifier sends notifications by email. Notify returns immediately and
// the send happens on its own goroutine; failures are logged and never
// surfaced to the caller, so a broken mail relay cannot fail or roll back a
// delivery.
type MailNotifier struct {
	dialer   *gomail.Dialer
	from     string
	profiles ProfileLookup
	log      *zap.Logger
}

func NewMailNotifier(profiles ProfileLookup, log *zap.Logger) *MailNotifier {
	return &MailNotifier{
		dialer:   gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword),
		from:     config.SMTPFrom,
		profiles: profiles,
		log:      log,
	}
}

func (n *MailNotifier) Notify(userID, title, body string, meta map[string]string) {
	go n.send(userID, title, body, meta)
}

func (n *MailNotifier) send(userID, title, body string, meta map[string]string) {
	profile, err := n.profiles.GetByID(userID)
	if err != nil || profile == nil || profile.Email == "" {
		n.log.Warn("notification skipped: no recipient address",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return
	}

	var sb strings.Builder
	sb.WriteString(body)
	if len(meta) > 0 {
		sb.WriteString("\n")
		for key, value := range meta {
			sb.WriteString(fmt.Sprintf("\n%s: %s", key, value))
		}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", profile.Email)
	m.SetHeader("Subject", title)
	m.SetBody("text/plain", sb.String())

	if err := n.dialer.DialAndSend(m); err != nil {
		n.log.Warn("notification send failed",
			zap.String("user_id", userID),
			zap.String("title", title),
			zap.Error(err),
		)
	}
}
