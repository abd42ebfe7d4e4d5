package sender

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/member-gate/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/member-gate/internal/models"
)

// QueueSender откладывает доставку: публикует письмо в RabbitMQ,
// а отправляет его notification-sender.
type QueueSender struct {
	mu  sync.Mutex
	pub rabbitmq.Publisher
	log *slog.Logger
}

// NewQueueSender создает новый экземпляр QueueSender.
func NewQueueSender(pub rabbitmq.Publisher, log *slog.Logger) *QueueSender {
	return &QueueSender{pub: pub, log: log}
}

// Send публикует письмо m в очередь писем.
func (q *QueueSender) Send(ctx context.Context, m models.Mail) error {
	const op = "sender.QueueSender.Send"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	q.mu.Lock()
	err := rabbitmq.PublishMessage(q.pub, rabbitmq.Exchange, rabbitmq.MailRoutingKey, m)
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	q.log.Debug("mail queued", slog.String("op", op), slog.String("to", m.To))
	return nil
}
