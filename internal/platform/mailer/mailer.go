// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mailer delivers transactional email to end users.

It currently carries a single message type, the signup confirmation code, but
the [Notifier] interface keeps the delivery mechanism swappable so services
never depend on SMTP directly.

Implementations:

  - SMTPMailer: Real delivery via an external SMTP relay.
  - LogMailer: Development fallback that writes the message to the log.
*/
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/taibuivan/critica/internal/platform/ctxutil"
)

// Notifier dispatches a confirmation code to a user's email address.
//
// Implementations must treat delivery failure as a hard error: signup is not
// complete until the user can actually receive the code.
type Notifier interface {
	SendConfirmationCode(ctx context.Context, email string, username string, code string) error
}

// # SMTP Delivery

// SMTPMailer sends mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	from     string
	password string
}

// NewSMTPMailer builds an SMTPMailer from relay settings.
func NewSMTPMailer(host, port, from, password string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		from:     from,
		password: password,
	}
}

// SendConfirmationCode delivers the signup confirmation code as plain text.
//
// # Flow
//  1. Compose an RFC 5322 message with CRLF line endings.
//  2. Authenticate against the relay with PLAIN auth.
//  3. Send. Any relay error bubbles up unchanged for the caller to classify.
func (mailer *SMTPMailer) SendConfirmationCode(ctx context.Context, email string, username string, code string) error {

	// 1. Compose the message body
	subject := "Your Critica confirmation code"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour confirmation code is:\n\n%s\n\nExchange it for an access token at /api/v1/auth/token.\n",
		username, code,
	)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + mailer.from + "\r\n" +
		"To: " + email + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	// 2. Authenticate and send
	auth := smtp.PlainAuth("", mailer.from, mailer.password, mailer.host)

	if err := smtp.SendMail(mailer.host+":"+mailer.port, auth, mailer.from, []string{email}, message); err != nil {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "smtp_send_failed",
			slog.String("to", email),
			slog.Any("error", err),
		)
		return fmt.Errorf("mailer: smtp send failed: %w", err)
	}

	return nil
}

// # Development Fallback

// LogMailer writes the confirmation code to the structured log instead of
// sending mail. Used when no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer returns a LogMailer backed by the given logger.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendConfirmationCode logs the code at INFO level. It never fails.
func (mailer *LogMailer) SendConfirmationCode(_ context.Context, email string, username string, code string) error {
	mailer.logger.Info("confirmation_code_issued",
		slog.String("email", email),
		slog.String("username", username),
		slog.String("code", code),
	)
	return nil
}
