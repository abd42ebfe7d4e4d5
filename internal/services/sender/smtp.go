package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"strings"
	"time"

	"github.com/magabrotheeeer/member-gate/internal/lib/sl"
	"github.com/magabrotheeeer/member-gate/internal/lib/smtp"
	"github.com/magabrotheeeer/member-gate/internal/models"
	"github.com/magabrotheeeer/member-gate/internal/view"
)

// ErrNoRecipient возвращается для письма без адресата.
var ErrNoRecipient = errors.New("mail has no recipient")

// SMTPSender оборачивает письмо в макет сайта и отправляет его через SMTP-релей.
type SMTPSender struct {
	transport smtp.TransportInterface
	identity  Identity
	log       *slog.Logger
	now       func() time.Time
}

// NewSMTPSender создает новый экземпляр SMTPSender.
func NewSMTPSender(transport smtp.TransportInterface, identity Identity, log *slog.Logger) *SMTPSender {
	return &SMTPSender{
		transport: transport,
		identity:  identity,
		log:       log,
		now:       time.Now,
	}
}

// Send отправляет письмо m.
func (s *SMTPSender) Send(ctx context.Context, m models.Mail) error {
	const op = "sender.SMTPSender.Send"
	log := s.log.With(slog.String("op", op), slog.String("to", m.To))

	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("%s: %w", op, ErrNoRecipient)
	}

	html, err := view.MailLayout(s.identity.SiteTitle, m.HTML)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := s.compose(m, html)

	client, err := s.transport.Connect(ctx)
	if err != nil {
		log.Error("failed to connect to SMTP server", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Mail(s.identity.Address); err != nil {
		log.Error("failed to set MAIL FROM", slog.String("from", s.identity.Address), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Rcpt(m.To); err != nil {
		log.Error("failed to set RCPT TO", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	wc, err := client.Data()
	if err != nil {
		log.Error("failed to get Data writer", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		log.Error("failed to write email body", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := wc.Close(); err != nil {
		log.Error("failed to close Data writer", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Quit(); err != nil {
		log.Error("failed to quit SMTP client", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("email sent successfully", slog.String("subject", m.Subject))
	return nil
}

// HandleMessage декодирует письмо из очереди и отправляет его.
func (s *SMTPSender) HandleMessage(ctx context.Context, body []byte) error {
	const op = "sender.SMTPSender.HandleMessage"
	var m models.Mail
	if err := json.Unmarshal(body, &m); err != nil {
		s.log.Error("failed to unmarshal message body", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.Send(ctx, m)
}

func (s *SMTPSender) compose(m models.Mail, html string) string {
	return strings.Join([]string{
		"From: " + s.identity.From(),
		"Reply-To: " + s.identity.Address,
		"To: " + m.To,
		"Subject: " + mime.QEncoding.Encode("utf-8", m.Subject),
		"Date: " + s.now().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		html,
	}, "\r\n")
}
