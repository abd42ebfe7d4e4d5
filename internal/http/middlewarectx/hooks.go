package middlewarectx

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/member-gate/internal/http/response"
	"github.com/magabrotheeeer/member-gate/internal/lib/sl"
)

// HookTokenHeader — заголовок с общим секретом хоста.
const HookTokenHeader = "X-Hook-Token"

// HookToken пропускает только запросы с верным X-Hook-Token.
// Пустой token отключает проверку.
func HookToken(log *slog.Logger, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.HookToken"
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get(HookTokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				log.Warn("invalid hook token",
					sl.Op(op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid hook token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NoWriteDeadline снимает WriteTimeout сервера с запросов, путь которых начинается с prefix.
// Рассылка по хуку публикации идёт с паузами между письмами и может быть дольше таймаута.
// Должен стоять первым в цепочке, пока ResponseWriter ещё не обёрнут.
func NoWriteDeadline(log *slog.Logger, prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, prefix) {
				if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
					log.Debug("cannot lift write deadline", sl.Op("middlewarectx.NoWriteDeadline"), sl.Err(err))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
