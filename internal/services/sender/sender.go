// Package sender доставляет письма участникам: напрямую через SMTP,
// через очередь RabbitMQ или только в лог.
package sender

import (
	"context"
	"net/mail"

	"github.com/magabrotheeeer/member-gate/internal/config"
	"github.com/magabrotheeeer/member-gate/internal/models"
)

// Mailer отправляет одно письмо.
type Mailer interface {
	Send(ctx context.Context, m models.Mail) error
}

// Identity — отправитель писем: название сайта и адрес noreply@<домен>.
type Identity struct {
	SiteTitle string
	Address   string
}

// NewIdentity строит отправителя из настроек сайта.
func NewIdentity(site config.Site) Identity {
	return Identity{
		SiteTitle: site.Title,
		Address:   "noreply@" + site.Domain,
	}
}

// From возвращает значение заголовка From: "<сайт> <noreply@домен>".
func (i Identity) From() string {
	return (&mail.Address{Name: i.SiteTitle, Address: i.Address}).String()
}
