package rabbitmq

const (
	// Exchange — direct-обменник для всех исходящих уведомлений.
	Exchange = "notifications"

	MailQueue      = "member_mail_queue"
	MailRoutingKey = "member_mail"

	prefetch = 10
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// MailQueues возвращает очереди, которые нужны для доставки писем.
func MailQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: MailQueue, RoutingKey: MailRoutingKey},
	}
}
