package notifications

import (
	"log"

	"github.com/apparts-js/apparts-login-server/domain"
)

// LogMailerImpl implements domain.NotificationService by logging the
// rendered mail. Actual delivery is the embedding application's concern;
// this keeps development and test environments self-contained.
type LogMailerImpl struct{}

// NewLogMailer creates a logging notification service
func NewLogMailer() domain.NotificationService {
	return &LogMailerImpl{}
}

// SendEmail implements domain.NotificationService
func (m *LogMailerImpl) SendEmail(to, subject, body string) error {
	log.Printf("[MAIL] To: %s, Subject: %s, Body: %s", to, subject, body)
	return nil
}
