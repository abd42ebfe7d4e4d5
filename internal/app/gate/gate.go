package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/member-gate/internal/config"
	"github.com/magabrotheeeer/member-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/member-gate/internal/lib/jwt"
	"github.com/magabrotheeeer/member-gate/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/member-gate/internal/lib/sl"
	"github.com/magabrotheeeer/member-gate/internal/lib/smtp"
	"github.com/magabrotheeeer/member-gate/internal/metrics"
	"github.com/magabrotheeeer/member-gate/internal/migrations"
	"github.com/magabrotheeeer/member-gate/internal/proxy"
	"github.com/magabrotheeeer/member-gate/internal/services/auth"
	"github.com/magabrotheeeer/member-gate/internal/services/notification"
	"github.com/magabrotheeeer/member-gate/internal/services/sender"
	"github.com/magabrotheeeer/member-gate/internal/session"
	"github.com/magabrotheeeer/member-gate/internal/storage"
	"github.com/magabrotheeeer/member-gate/internal/storage/filestore"
	"github.com/magabrotheeeer/member-gate/internal/storage/postgresql"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server  *http.Server
	logger  *slog.Logger
	closers []func() error
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.gate.New"
	a := &App{logger: logger}

	store, err := a.initStorage(ctx, cfg.Storage)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sessions, err := a.initSessions(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	mailer, err := a.initMailer(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	upstream, err := proxy.New(logger, cfg.Upstream.URL)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	gateCfg := cfg.GateConfig()
	dispatcher := notification.New(logger, store, mailer, cfg.Site.Title,
		notification.WithSendRate(cfg.Mail.SendRate),
		notification.WithNotifyOnEveryEdit(cfg.NotifyOnEveryEdit()),
		notification.WithMetrics(m),
	)

	var admin middlewarectx.AdminChecker = middlewarectx.NoAdmin{}
	if cfg.Admin.JWTSecret != "" {
		admin = middlewarectx.NewJWTAdminChecker(jwt.NewJWTMaker(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL), cfg.Admin.CookieName)
	} else {
		logger.Warn("admin.jwt_secret is not set, admin bypass is disabled")
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Gate:       gateCfg,
		SiteTitle:  cfg.Site.Title,
		HookToken:  cfg.Hooks.Token,
		Registry:   reg,
		Metrics:    m,
		Sessions:   middlewarectx.NewSessions(logger, sessions, cfg.Session, gateCfg),
		Admin:      admin,
		Auth:       auth.NewAuthService(store, gateCfg.RequiredDomain),
		Dispatcher: dispatcher,
		Upstream:   upstream,
	})
	if cfg.Hooks.Token == "" {
		logger.Warn("hooks.token is not set, hook and metrics endpoints are unprotected")
	}

	a.server = &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return a, nil
}

func (a *App) initStorage(ctx context.Context, cfg config.Storage) (storage.Store, error) {
	switch cfg.Driver {
	case config.StoragePostgres:
		pool, err := postgresql.Connect(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })

		db := stdlib.OpenDBFromPool(pool)
		a.closers = append(a.closers, db.Close)
		if err := migrations.Run(db, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		a.logger.Info("using postgres member storage")
		return postgresql.New(pool), nil
	default:
		a.logger.Info("using file member storage", slog.String("path", cfg.MembersFile))
		return filestore.New(cfg.MembersFile), nil
	}
}

func (a *App) initSessions(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Driver {
	case config.SessionRedis:
		rdb, err := session.InitRedis(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		return session.NewRedisStore(rdb, cfg.Session.TTL), nil
	default:
		return session.NewMemoryStore(cfg.Session.TTL), nil
	}
}

func (a *App) initMailer(ctx context.Context, cfg *config.Config) (sender.Mailer, error) {
	switch cfg.Mail.Transport {
	case config.MailSMTP:
		transport := smtp.NewTransport(cfg.SMTP, a.logger)
		return sender.NewSMTPSender(transport, sender.NewIdentity(cfg.Site), a.logger), nil
	case config.MailAMQP:
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, conn.Close)
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.MailQueues())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, ch.Close)
		return sender.NewQueueSender(ch, a.logger), nil
	default:
		return sender.NewLogSender(a.logger), nil
	}
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close освобождает ресурсы в обратном порядке открытия.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}
