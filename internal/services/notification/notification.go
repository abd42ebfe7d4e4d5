// Package notification рассылает письма участникам: о новой публикации
// всем участникам и приветственное письмо после регистрации.
//
// Ошибки доставки не возвращаются вызывающему: они логируются,
// учитываются в метриках и передаются в FailureHook, если он задан.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/member-gate/internal/lib/sl"
	"github.com/magabrotheeeer/member-gate/internal/metrics"
	"github.com/magabrotheeeer/member-gate/internal/models"
	"github.com/magabrotheeeer/member-gate/internal/services/sender"
	"github.com/magabrotheeeer/member-gate/internal/view"
)

// MemberLister отдаёт всех участников.
type MemberLister interface {
	List(ctx context.Context) ([]models.Member, error)
}

// FailureHook получает каждое неотправленное письмо.
type FailureHook func(kind string, m models.Mail, err error)

// Report — итог одной рассылки.
type Report struct {
	Recipients int `json:"recipients"`
	Sent       int `json:"sent"`
	Skipped    int `json:"skipped"` // участники с некорректной почтой
	Failed     int `json:"failed"`
}

// Dispatcher рассылает уведомления.
type Dispatcher struct {
	log               *slog.Logger
	members           MemberLister
	mailer            sender.Mailer
	siteTitle         string
	metrics           *metrics.Metrics
	limiter           *rate.Limiter
	notifyOnEveryEdit bool
	onFailure         FailureHook
	validate          *validator.Validate
}

// Option настраивает Dispatcher.
type Option func(*Dispatcher)

// WithSendRate ограничивает отправку perSecond письмами в секунду; 0 — без ограничения.
func WithSendRate(perSecond float64) Option {
	return func(d *Dispatcher) {
		if perSecond > 0 {
			d.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithNotifyOnEveryEdit задаёт, рассылать ли письма при повторном сохранении
// уже опубликованной страницы.
func WithNotifyOnEveryEdit(v bool) Option {
	return func(d *Dispatcher) { d.notifyOnEveryEdit = v }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithFailureHook(h FailureHook) Option {
	return func(d *Dispatcher) { d.onFailure = h }
}

// New создает новый экземпляр Dispatcher.
func New(log *slog.Logger, members MemberLister, mailer sender.Mailer, siteTitle string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		log:               log,
		members:           members,
		mailer:            mailer,
		siteTitle:         siteTitle,
		notifyOnEveryEdit: true,
		validate:          validator.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ContentCreated рассылает письмо о новой странице, если она опубликована.
func (d *Dispatcher) ContentCreated(ctx context.Context, item models.ContentItem) (Report, error) {
	const op = "notification.Dispatcher.ContentCreated"
	if !item.Published() {
		d.log.Debug("content is not published, skipping", slog.String("op", op), slog.String("slug", item.Slug))
		return Report{}, nil
	}
	return d.broadcast(ctx, op, item)
}

// ContentEdited рассылает письмо после сохранения опубликованной страницы.
// Без notifyOnEveryEdit повторные сохранения уже опубликованной страницы пропускаются.
func (d *Dispatcher) ContentEdited(ctx context.Context, item models.ContentItem) (Report, error) {
	const op = "notification.Dispatcher.ContentEdited"
	log := d.log.With(slog.String("op", op), slog.String("slug", item.Slug))
	if !item.Published() {
		log.Debug("content is not published, skipping")
		return Report{}, nil
	}
	if !d.notifyOnEveryEdit && item.WasPublished() {
		log.Debug("content was already published, skipping")
		return Report{}, nil
	}
	return d.broadcast(ctx, op, item)
}

// Welcome отправляет приветственное письмо новому участнику.
func (d *Dispatcher) Welcome(ctx context.Context, username, email string) {
	const op = "notification.Dispatcher.Welcome"
	body, err := view.WelcomeBody(d.siteTitle, username)
	if err != nil {
		d.log.Error("failed to render welcome mail", slog.String("op", op), sl.Err(err))
		return
	}
	d.deliver(ctx, op, metrics.MailWelcome, models.Mail{
		To:      email,
		Subject: view.WelcomeSubject(d.siteTitle),
		HTML:    body,
	})
}

func (d *Dispatcher) broadcast(ctx context.Context, op string, item models.ContentItem) (Report, error) {
	log := d.log.With(slog.String("op", op), slog.String("slug", item.Slug))

	members, err := d.members.List(ctx)
	if err != nil {
		log.Error("failed to list members", sl.Err(err))
		return Report{}, fmt.Errorf("%s: %w", op, err)
	}

	body, err := view.NewPostBody(d.siteTitle, item)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", op, err)
	}
	subject := view.NewPostSubject(item.Title)

	report := Report{Recipients: len(members)}
	for _, m := range members {
		if err := d.validate.Var(m.Email, "required,email"); err != nil {
			log.Warn("skipping member with invalid email", slog.String("username", m.Username))
			report.Skipped++
			continue
		}
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				log.Warn("broadcast interrupted", slog.Int("sent", report.Sent), sl.Err(err))
				return report, fmt.Errorf("%s: %w", op, err)
			}
		}
		mail := models.Mail{To: m.Email, Subject: subject, HTML: body}
		if d.deliver(ctx, op, metrics.MailNewPost, mail) {
			report.Sent++
		} else {
			report.Failed++
		}
	}

	log.Info("broadcast finished",
		slog.Int("recipients", report.Recipients),
		slog.Int("sent", report.Sent),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

// deliver отправляет письмо и поглощает ошибку доставки.
func (d *Dispatcher) deliver(ctx context.Context, op, kind string, m models.Mail) bool {
	err := d.mailer.Send(ctx, m)
	d.metrics.MailResult(kind, err)
	if err == nil {
		return true
	}
	d.log.Error("failed to send mail",
		slog.String("op", op),
		slog.String("kind", kind),
		slog.String("to", m.To),
		sl.Err(err),
	)
	if d.onFailure != nil {
		d.onFailure(kind, m, err)
	}
	return false
}
