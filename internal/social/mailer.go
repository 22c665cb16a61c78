package social

import (
	"context"
	"log"
)

// Mailer delivers account emails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes the reset token to the server log. It is the default until
// a real transport is configured.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	log.Printf("Mailer: password reset requested for %s, token: %s", email, token)
	return nil
}
