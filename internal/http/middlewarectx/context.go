// Package middlewarectx содержит HTTP middleware шлюза доступа.
//
// Порядок цепочки фиксирован (см. app/gate/routes.go):
// SessionMiddleware кладёт в контекст RequestContext с сессией посетителя
// и снимком настроек шлюза, Gate по нему решает, пропустить запрос к сайту,
// перенаправить на вход или отдать служебному обработчику.
package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/member-gate/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// RequestKey — ключ RequestContext в контексте.
const RequestKey Key = "member_gate_request"

// RequestContext — состояние одного запроса: сессия посетителя и настройки шлюза.
type RequestContext struct {
	Session *models.Session
	Config  models.GateConfig
}

// WithRequestContext возвращает копию ctx с rc.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, RequestKey, rc)
}

// FromContext достаёт RequestContext, положенный SessionMiddleware.
func FromContext(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(RequestKey).(*RequestContext)
	return rc, ok && rc != nil && rc.Session != nil
}
