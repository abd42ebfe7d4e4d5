package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/member-gate/internal/metrics"
	"github.com/magabrotheeeer/member-gate/internal/models"
)

// Routes — служебные обработчики шлюза. Каждый из них завершает запрос.
type Routes struct {
	Login    http.Handler
	Register http.Handler
	Logout   http.Handler
}

// Gate решает судьбу запроса по порядку:
//  1. шлюз выключен — пропустить;
//  2. администратор — пропустить;
//  3. участник не вошёл и slug не вход/регистрация — 302 на страницу входа;
//  4. slug входа, регистрации или выхода — соответствующий обработчик;
//  5. иначе пропустить к сайту.
//
// Требует SessionMiddleware выше по цепочке.
func Gate(log *slog.Logger, m *metrics.Metrics, admin AdminChecker, routes Routes) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Gate"

			rc, ok := FromContext(r.Context())
			if !ok {
				log.Error("request context is missing",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			decision, handler := decide(r, rc, admin, routes)
			m.Decision(decision)

			switch decision {
			case metrics.DecisionRedirect:
				http.Redirect(w, r, rc.Config.LoginPath(), http.StatusFound)
			case metrics.DecisionDisabled, metrics.DecisionAdmin, metrics.DecisionPass:
				next.ServeHTTP(w, r)
			default:
				handler.ServeHTTP(w, r)
			}
		})
	}
}

func decide(r *http.Request, rc *RequestContext, admin AdminChecker, routes Routes) (string, http.Handler) {
	cfg := rc.Config
	if !cfg.Enable {
		return metrics.DecisionDisabled, nil
	}
	if admin.IsAdmin(r) {
		return metrics.DecisionAdmin, nil
	}

	slug := models.SlugFromPath(r.URL.Path)
	if !rc.Session.LoggedIn && slug != cfg.LoginSlug && slug != cfg.RegisterSlug {
		return metrics.DecisionRedirect, nil
	}

	switch slug {
	case cfg.LoginSlug:
		return metrics.DecisionLogin, routes.Login
	case cfg.RegisterSlug:
		return metrics.DecisionRegister, routes.Register
	case cfg.LogoutSlug:
		return metrics.DecisionLogout, routes.Logout
	}
	return metrics.DecisionPass, nil
}
