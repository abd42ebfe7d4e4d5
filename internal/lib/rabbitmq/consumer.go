package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/member-gate/internal/lib/sl"
)

// Handler обрабатывает тело сообщения. Ошибка приводит к nack без повторной постановки в очередь.
type Handler func(ctx context.Context, body []byte) error

// Consume читает очередь до отмены ctx или закрытия канала.
// Одновременно обрабатывается не больше prefetch сообщений.
// Начатые обработчики доводятся до конца и после отмены ctx,
// Consume возвращает после их завершения.
func Consume(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler Handler) error {
	const op = "rabbitmq.Consume"
	deliveries, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queueName))
	consume(ctx, log, deliveries, handler)
	return nil
}

func consume(ctx context.Context, log *slog.Logger, deliveries <-chan amqp.Delivery, handler Handler) {
	sem := make(chan struct{}, prefetch)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				log.Info("delivery channel closed")
				return
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				// сообщение ещё не обработано, брокер отдаст его снова
				if err := d.Nack(false, true); err != nil {
					log.Error("failed to requeue message", sl.Err(err))
				}
				return
			}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				handle(context.WithoutCancel(ctx), log, d, handler)
			}(d)
		}
	}
}

func handle(ctx context.Context, log *slog.Logger, d amqp.Delivery, handler Handler) {
	if err := handler(ctx, d.Body); err != nil {
		log.Error("failed to handle message", sl.Err(err))
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := d.Ack(false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}
