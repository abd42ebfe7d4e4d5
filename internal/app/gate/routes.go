// Package gate собирает HTTP-сервер шлюза: маршруты, хранилища и рассылку.
package gate

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/member-gate/docs" // описание хуков для /docs

	"github.com/magabrotheeeer/member-gate/internal/http/handlers/hooks/listing"
	"github.com/magabrotheeeer/member-gate/internal/http/handlers/hooks/publish"
	"github.com/magabrotheeeer/member-gate/internal/http/handlers/member/login"
	"github.com/magabrotheeeer/member-gate/internal/http/handlers/member/logout"
	"github.com/magabrotheeeer/member-gate/internal/http/handlers/member/register"
	"github.com/magabrotheeeer/member-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/member-gate/internal/metrics"
	"github.com/magabrotheeeer/member-gate/internal/models"
	"github.com/magabrotheeeer/member-gate/internal/services/auth"
	"github.com/magabrotheeeer/member-gate/internal/services/notification"
)

// Deps — всё, что нужно маршрутам.
type Deps struct {
	Gate       models.GateConfig
	SiteTitle  string
	HookToken  string
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Sessions   *middlewarectx.Sessions
	Admin      middlewarectx.AdminChecker
	Auth       *auth.AuthService
	Dispatcher *notification.Dispatcher
	Upstream   http.Handler
}

// RegisterRoutes регистрирует все маршруты шлюза.
//
// Порядок middleware для страниц сайта фиксирован:
// RequestID -> Logger -> Recoverer -> Sessions -> Gate -> прокси к сайту.
// /metrics, /docs и /hooks не проходят через шлюз; /metrics и /hooks требуют X-Hook-Token.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	r.Use(
		middlewarectx.NoWriteDeadline(logger, "/hooks/"),
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.With(middlewarectx.HookToken(logger, d.HookToken)).
		Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Route("/hooks", func(r chi.Router) {
		r.Use(middlewarectx.HookToken(logger, d.HookToken))
		r.Post("/content/created", publish.New(logger, d.Dispatcher, publish.Created).ServeHTTP)
		r.Post("/content/edited", publish.New(logger, d.Dispatcher, publish.Edited).ServeHTTP)
		r.Post("/content/listing", listing.New(logger, d.Gate).ServeHTTP)
	})

	routes := middlewarectx.Routes{
		Login:    login.New(logger, d.Auth, d.Sessions, d.SiteTitle),
		Register: register.New(logger, d.Auth, d.Dispatcher, d.SiteTitle),
		Logout:   logout.New(logger, d.Auth, d.Sessions),
	}
	r.With(
		d.Sessions.Middleware,
		middlewarectx.Gate(logger, d.Metrics, d.Admin, routes),
	).Handle("/*", d.Upstream)
}
