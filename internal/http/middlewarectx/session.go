package middlewarectx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/member-gate/internal/config"
	"github.com/magabrotheeeer/member-gate/internal/lib/sl"
	"github.com/magabrotheeeer/member-gate/internal/models"
	"github.com/magabrotheeeer/member-gate/internal/session"
)

// Sessions загружает сессию посетителя по cookie и сохраняет её после входа и выхода.
// Анонимным посетителям сессия в хранилище не заводится: ID появляется при входе.
type Sessions struct {
	log   *slog.Logger
	store session.Store
	cfg   config.Session
	gate  models.GateConfig
	now   func() time.Time
	newID func() string
}

// NewSessions создает новый экземпляр Sessions.
func NewSessions(log *slog.Logger, store session.Store, cfg config.Session, gate models.GateConfig) *Sessions {
	return &Sessions{
		log:   log,
		store: store,
		cfg:   cfg,
		gate:  gate,
		now:   time.Now,
		newID: session.NewID,
	}
}

// Middleware кладёт RequestContext в контекст запроса.
// Неизвестная или истёкшая cookie даёт пустую сессию; ошибка хранилища — 500.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "middlewarectx.Sessions.Middleware"

		sess, err := s.load(r)
		if err != nil {
			s.log.Error("failed to load session",
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				sl.Err(err),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		rc := &RequestContext{Session: &sess, Config: s.gate}
		next.ServeHTTP(w, r.WithContext(WithRequestContext(r.Context(), rc)))
	})
}

func (s *Sessions) load(r *http.Request) (models.Session, error) {
	cookie, err := r.Cookie(s.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return models.Session{}, nil
	}
	sess, err := s.store.Get(r.Context(), cookie.Value)
	if errors.Is(err, session.ErrNotFound) {
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

// Start сохраняет вошедшую сессию под новым идентификатором и выдаёт cookie.
// Старый идентификатор удаляется.
func (s *Sessions) Start(ctx context.Context, w http.ResponseWriter, sess *models.Session) error {
	const op = "middlewarectx.Sessions.Start"
	oldID := sess.ID
	sess.ID = s.newID()

	if err := s.store.Save(ctx, *sess); err != nil {
		sess.ID = oldID
		return fmt.Errorf("%s: %w", op, err)
	}
	if oldID != "" {
		if err := s.store.Delete(ctx, oldID); err != nil {
			s.log.Warn("failed to delete rotated session", slog.String("op", op), sl.Err(err))
		}
	}

	http.SetCookie(w, s.cookie(sess.ID, s.now().Add(s.cfg.TTL), int(s.cfg.TTL.Seconds())))
	return nil
}

// End удаляет сессию из хранилища и стирает cookie. Повторный вызов безопасен.
func (s *Sessions) End(ctx context.Context, w http.ResponseWriter, sess *models.Session) error {
	const op = "middlewarectx.Sessions.End"
	id := sess.ID
	sess.ID = ""
	http.SetCookie(w, s.cookie("", time.Unix(0, 0), -1))
	if id == "" {
		return nil
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Sessions) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
