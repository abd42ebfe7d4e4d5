// Package proxy передаёт разрешённые шлюзом запросы сайту с контентом.
package proxy

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/member-gate/internal/lib/sl"
)

// New создаёт обратный прокси к upstream. Недоступный upstream даёт 502.
func New(log *slog.Logger, upstream string) (http.Handler, error) {
	const op = "proxy.New"
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("%s: upstream %q must be an absolute URL", op, upstream)
	}

	p := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			pr.Out.Host = pr.In.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error("upstream request failed",
				sl.Op("proxy.ServeHTTP"),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("path", r.URL.Path),
				sl.Err(err),
			)
			w.WriteHeader(http.StatusBadGateway)
		},
	}
	return p, nil
}
