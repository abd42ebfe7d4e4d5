// Package smtp открывает аутентифицированные SMTP-сессии для отправителя писем.
package smtp

import (
	"context"
	"io"
)

// Client — часть *smtp.Client, которой пользуется отправитель.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface открывает новую SMTP-сессию на каждое письмо.
type TransportInterface interface {
	Connect(ctx context.Context) (Client, error)
}
