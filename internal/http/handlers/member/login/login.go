// Package login реализует страницу входа участника.
//
// GET отдаёт пустую форму. POST проверяет имя и пароль: при успехе сессия
// сохраняется под новым идентификатором и посетитель уходит на главную,
// при неудаче форма показывается снова с общим сообщением об ошибке.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/member-gate/internal/http/form"
	"github.com/magabrotheeeer/member-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/member-gate/internal/lib/sl"
	"github.com/magabrotheeeer/member-gate/internal/models"
	"github.com/magabrotheeeer/member-gate/internal/services/auth"
	"github.com/magabrotheeeer/member-gate/internal/view"
)

// Service описывает вход участника.
type Service interface {
	Login(ctx context.Context, sess *models.Session, username, password string) error
}

// Sessions сохраняет сессию после входа.
type Sessions interface {
	Start(ctx context.Context, w http.ResponseWriter, sess *models.Session) error
}

// Handler обрабатывает страницу входа.
type Handler struct {
	log       *slog.Logger
	auth      Service
	sessions  Sessions
	siteTitle string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service, sessions Sessions, siteTitle string) *Handler {
	return &Handler{
		log:       log,
		auth:      auth,
		sessions:  sessions,
		siteTitle: siteTitle,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.login"

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

	page := view.LoginPage{SiteTitle: h.siteTitle}
	if rc.Config.AllowRegistration {
		page.RegisterURL = rc.Config.RegisterPath()
	}

	if r.Method != http.MethodPost {
		h.render(w, log, http.StatusOK, page)
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse form", sl.Err(err))
		page.Error = auth.MsgInvalidLogin
		h.render(w, log, http.StatusBadRequest, page)
		return
	}
	username := form.Field(r, "username")
	password := form.Secret(r, "password")

	err := h.auth.Login(r.Context(), rc.Session, username, password)
	switch {
	case errors.Is(err, auth.ErrAuthentication):
		log.Info("login failed", slog.String("username", username))
		page.Error = auth.MsgInvalidLogin
		h.render(w, log, http.StatusUnauthorized, page)
		return
	case err != nil:
		log.Error("login failed", sl.Err(err))
		page.Error = auth.MsgStorageFailure
		h.render(w, log, http.StatusInternalServerError, page)
		return
	}

	if err := h.sessions.Start(r.Context(), w, rc.Session); err != nil {
		log.Error("failed to save session", sl.Err(err))
		rc.Session.Clear()
		page.Error = auth.MsgStorageFailure
		h.render(w, log, http.StatusInternalServerError, page)
		return
	}

	log.Info("login success", slog.String("username", username))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) render(w http.ResponseWriter, log *slog.Logger, status int, page view.LoginPage) {
	if err := view.WriteLogin(w, status, page); err != nil {
		log.Error("failed to render login page", sl.Err(err))
	}
}
