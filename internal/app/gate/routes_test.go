package gate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/member-gate/internal/config"
	"github.com/magabrotheeeer/member-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/member-gate/internal/lib/jwt"
	"github.com/magabrotheeeer/member-gate/internal/metrics"
	"github.com/magabrotheeeer/member-gate/internal/models"
	"github.com/magabrotheeeer/member-gate/internal/services/auth"
	"github.com/magabrotheeeer/member-gate/internal/services/notification"
	"github.com/magabrotheeeer/member-gate/internal/session"
	"github.com/magabrotheeeer/member-gate/internal/storage/filestore"
)

const hookToken = "hook-secret"

type recordingMailer struct {
	mu    sync.Mutex
	sent  []models.Mail
	delay time.Duration
}

func (r *recordingMailer) Send(_ context.Context, m models.Mail) error {
	r.mu.Lock()
	delay := r.delay
	r.mu.Unlock()
	time.Sleep(delay)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, m)
	return nil
}

func (r *recordingMailer) SetDelay(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delay = d
}

func (r *recordingMailer) Sent() []models.Mail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Mail(nil), r.sent...)
}

type testEnv struct {
	router http.Handler
	mailer *recordingMailer
	maker  *jwt.MakerImpl
	reg    *prometheus.Registry
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := newNoopLogger()

	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "upstream: "+r.URL.Path)
	})

	gateCfg := models.GateConfig{
		Enable:            true,
		AllowRegistration: true,
		LoginSlug:         "member-login",
		RegisterSlug:      "member-register",
		LogoutSlug:        "member-logout",
		RequiredDomain:    "afripoli.org",
	}
	store := filestore.New(filepath.Join(t.TempDir(), "members.json"))
	mailer := &recordingMailer{}
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	maker := jwt.NewJWTMaker("admin-secret", time.Hour)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Gate:      gateCfg,
		SiteTitle: "Knowledge Base",
		HookToken: hookToken,
		Registry:  reg,
		Metrics:   m,
		Sessions: middlewarectx.NewSessions(logger, session.NewMemoryStore(time.Hour),
			config.Session{CookieName: "member_session", TTL: time.Hour}, gateCfg),
		Admin:      middlewarectx.NewJWTAdminChecker(maker, "admin_token"),
		Auth:       auth.NewAuthService(store, gateCfg.RequiredDomain),
		Dispatcher: notification.New(logger, store, mailer, "Knowledge Base", notification.WithMetrics(m)),
		Upstream:   upstream,
	})

	return &testEnv{router: router, mailer: mailer, maker: maker, reg: reg}
}

func (e *testEnv) do(t *testing.T, req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == "member_session" {
			return c
		}
	}
	require.FailNow(t, "session cookie is not set")
	return nil
}

func TestRoutes_MemberJourney(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/news", nil))
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/member-login", rr.Header().Get("Location"))

	rr = env.do(t, httptest.NewRequest(http.MethodGet, "/member-login", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Member Login")

	rr = env.do(t, postForm("/member-register", url.Values{
		"email":    {"alice@afripoli.org"},
		"username": {"alice"},
		"password": {"pw123!"},
	}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), auth.MsgRegistered)
	sent := env.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@afripoli.org", sent[0].To)
	assert.Equal(t, "Welcome to Knowledge Base", sent[0].Subject)

	rr = env.do(t, postForm("/member-login", url.Values{
		"username": {"alice"},
		"password": {"pw123!"},
	}))
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	cookie := sessionCookie(t, rr)

	rr = env.do(t, httptest.NewRequest(http.MethodGet, "/news", nil), cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "upstream: /news", rr.Body.String())

	rr = env.do(t, httptest.NewRequest(http.MethodGet, "/member-logout", nil), cookie)
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/member-login", rr.Header().Get("Location"))

	rr = env.do(t, httptest.NewRequest(http.MethodGet, "/news", nil), cookie)
	assert.Equal(t, http.StatusFound, rr.Code, "old cookie no longer grants access")
}

func TestRoutes_AdminBypass(t *testing.T) {
	env := newTestEnv(t)
	token, err := env.maker.GenerateToken("editor", jwt.RoleAdmin)
	require.NoError(t, err)

	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/drafts/1", nil),
		&http.Cookie{Name: "admin_token", Value: token})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "upstream: /drafts/1", rr.Body.String())
}

func TestRoutes_Hooks(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, postForm("/member-register", url.Values{
		"email":    {"alice@afripoli.org"},
		"username": {"alice"},
		"password": {"pw123!"},
	}))
	require.Equal(t, http.StatusOK, rr.Code)

	item := models.ContentItem{
		Slug:      "budget-2025",
		Title:     "Budget 2025",
		Permalink: "https://kb.afripoli.org/budget-2025",
		Status:    models.StatusPublished,
	}
	body, err := json.Marshal(item)
	require.NoError(t, err)

	rr = env.do(t, httptest.NewRequest(http.MethodPost, "/hooks/content/created", bytes.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/hooks/content/created", bytes.NewReader(body))
	req.Header.Set(middlewarectx.HookTokenHeader, hookToken)
	rr = env.do(t, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK","data":{"recipients":1,"sent":1,"skipped":0,"failed":0}}`, rr.Body.String())

	sent := env.mailer.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "New Post Published: Budget 2025", sent[1].Subject)

	req = httptest.NewRequest(http.MethodPost, "/hooks/content/listing",
		strings.NewReader(`[{"slug":"member-login"},{"slug":"budget-2025"}]`))
	req.Header.Set(middlewarectx.HookTokenHeader, hookToken)
	rr = env.do(t, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "member-login")
	assert.Contains(t, rr.Body.String(), "budget-2025")
}

func TestRoutes_Metrics(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, httptest.NewRequest(http.MethodGet, "/news", nil))

	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotContains(t, rr.Body.String(), "member_gate_decisions_total")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set(middlewarectx.HookTokenHeader, hookToken)
	rr = env.do(t, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `member_gate_decisions_total{decision="redirect"} 1`)
}

func TestRoutes_Docs(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/hooks/content/{event}")
	assert.Contains(t, rr.Body.String(), "/hooks/content/listing")
	assert.Contains(t, rr.Body.String(), "X-Hook-Token")
}

func TestRoutes_SlowBroadcastBehindWriteTimeout(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"alice", "bob", "carol"} {
		rr := env.do(t, postForm("/member-register", url.Values{
			"email":    {name + "@afripoli.org"},
			"username": {name},
			"password": {"pw123!"},
		}))
		require.Equal(t, http.StatusOK, rr.Code)
	}
	env.mailer.SetDelay(60 * time.Millisecond)

	srv := httptest.NewUnstartedServer(env.router)
	srv.Config.WriteTimeout = 100 * time.Millisecond
	srv.Start()
	defer srv.Close()

	body, err := json.Marshal(models.ContentItem{
		Slug:   "budget-2025",
		Title:  "Budget 2025",
		Status: models.StatusPublished,
	})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/hooks/content/created", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set(middlewarectx.HookTokenHeader, hookToken)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"OK","data":{"recipients":3,"sent":3,"skipped":0,"failed":0}}`, string(got))
	assert.Len(t, env.mailer.Sent(), 6)
}
