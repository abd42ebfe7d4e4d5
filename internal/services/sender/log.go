package sender

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/member-gate/internal/models"
)

// LogSender ничего не отправляет, только пишет письмо в лог. Для локальной разработки.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (l *LogSender) Send(_ context.Context, m models.Mail) error {
	l.log.Info("mail not sent, log transport",
		slog.String("to", m.To),
		slog.String("subject", m.Subject),
	)
	return nil
}
