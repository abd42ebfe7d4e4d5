// Package register реализует страницу регистрации участника.
//
// Если регистрация выключена, вместо формы показывается страница входа
// с сообщением. После успешной регистрации участнику уходит приветственное
// письмо, а посетитель видит страницу входа: автоматического входа нет.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/member-gate/internal/http/form"
	"github.com/magabrotheeeer/member-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/member-gate/internal/lib/sl"
	"github.com/magabrotheeeer/member-gate/internal/services/auth"
	"github.com/magabrotheeeer/member-gate/internal/view"
)

// Service описывает регистрацию участника.
type Service interface {
	Register(ctx context.Context, username, password, email string) error
}

// Notifier отправляет приветственное письмо. Ошибки доставки поглощаются.
type Notifier interface {
	Welcome(ctx context.Context, username, email string)
}

// Handler обрабатывает страницу регистрации.
type Handler struct {
	log       *slog.Logger
	auth      Service
	notifier  Notifier
	siteTitle string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service, notifier Notifier, siteTitle string) *Handler {
	return &Handler{
		log:       log,
		auth:      auth,
		notifier:  notifier,
		siteTitle: siteTitle,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rc, ok := middlewarectx.FromContext(r.Context())
	if !ok {
		log.Error("request context is missing")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	cfg := rc.Config

	if !cfg.AllowRegistration {
		log.Info("registration is disabled")
		h.renderLogin(w, log, http.StatusForbidden, view.LoginPage{
			SiteTitle: h.siteTitle,
			Error:     auth.MsgRegistrationOff,
		})
		return
	}

	page := view.RegisterPage{SiteTitle: h.siteTitle, LoginURL: cfg.LoginPath()}
	if r.Method != http.MethodPost {
		h.render(w, log, http.StatusOK, page)
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse form", sl.Err(err))
		page.Error = auth.MsgRequiredFields
		h.render(w, log, http.StatusBadRequest, page)
		return
	}
	email := form.Field(r, "email")
	username := form.Field(r, "username")
	password := form.Secret(r, "password")

	err := h.auth.Register(r.Context(), username, password, email)
	var vErr *auth.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.Info("validation failed", slog.String("reason", vErr.Message))
		page.Error = vErr.Message
		h.render(w, log, http.StatusUnprocessableEntity, page)
		return
	case errors.Is(err, auth.ErrDuplicateUsername):
		log.Info("username already taken", slog.String("username", username))
		page.Error = auth.MsgUsernameTaken
		h.render(w, log, http.StatusConflict, page)
		return
	case err != nil:
		log.Error("registration failed", sl.Err(err))
		page.Error = auth.MsgStorageFailure
		h.render(w, log, http.StatusInternalServerError, page)
		return
	}

	log.Info("member registered", slog.String("username", username))
	h.notifier.Welcome(context.WithoutCancel(r.Context()), username, email)

	h.renderLogin(w, log, http.StatusOK, view.LoginPage{
		SiteTitle:   h.siteTitle,
		Success:     auth.MsgRegistered,
		RegisterURL: cfg.RegisterPath(),
	})
}

func (h *Handler) render(w http.ResponseWriter, log *slog.Logger, status int, page view.RegisterPage) {
	if err := view.WriteRegister(w, status, page); err != nil {
		log.Error("failed to render register page", sl.Err(err))
	}
}

func (h *Handler) renderLogin(w http.ResponseWriter, log *slog.Logger, status int, page view.LoginPage) {
	if err := view.WriteLogin(w, status, page); err != nil {
		log.Error("failed to render login page", sl.Err(err))
	}
}
