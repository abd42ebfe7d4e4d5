// Package logout реализует выход участника: сброс сессии и переход на страницу входа.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/member-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/member-gate/internal/lib/sl"
	"github.com/magabrotheeeer/member-gate/internal/models"
)

type Service interface {
	Logout(sess *models.Session)
}

type Sessions interface {
	End(ctx context.Context, w http.ResponseWriter, sess *models.Session) error
}

type Handler struct {
	log      *slog.Logger
	auth     Service
	sessions Sessions
}

func New(log *slog.Logger, auth Service, sessions Sessions) *Handler {
	return &Handler{log: log, auth: auth, sessions: sessions}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.logout"

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

	username := rc.Session.Username
	h.auth.Logout(rc.Session)
	if err := h.sessions.End(r.Context(), w, rc.Session); err != nil {
		// cookie уже стёрта, в хранилище сессия доживёт до TTL
		log.Error("failed to delete session", sl.Err(err))
	}

	log.Info("logout", slog.String("username", username))
	http.Redirect(w, r, rc.Config.LoginPath(), http.StatusFound)
}
