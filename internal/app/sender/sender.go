// Package sender собирает воркер доставки писем из очереди RabbitMQ.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/member-gate/internal/config"
	"github.com/magabrotheeeer/member-gate/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/member-gate/internal/lib/sl"
	"github.com/magabrotheeeer/member-gate/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/member-gate/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SMTPSender
	logger        *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.sender.New"
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("%s: rabbitmq.url is required", op)
	}
	if cfg.SMTP.Host == "" {
		return nil, fmt.Errorf("%s: smtp.host is required", op)
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.MailQueues())
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.NewSMTPSender(transport, senderservice.NewIdentity(cfg.Site), logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run обрабатывает очередь писем до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.Consume(ctx, a.logger, a.ch, rabbitmq.MailQueue, a.senderService.HandleMessage)
	if err != nil {
		a.logger.Error("mail queue consumer stopped", sl.Err(err))
	}

	a.logger.Info("sender shutting down gracefully")
	if cerr := a.ch.Close(); cerr != nil {
		a.logger.Error("failed to close channel", sl.Err(cerr))
	}
	if cerr := a.conn.Close(); cerr != nil {
		a.logger.Error("failed to close connection", sl.Err(cerr))
	}
	return err
}
