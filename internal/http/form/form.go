// Package form читает поля HTML-форм шлюза.
package form

import (
	"html"
	"net/http"
	"strings"
)

// Field возвращает поле формы без пробелов по краям и с экранированным HTML.
func Field(r *http.Request, name string) string {
	return html.EscapeString(strings.TrimSpace(r.PostFormValue(name)))
}

// Secret возвращает поле пароля. Пробелы сохраняются, HTML экранируется,
// чтобы пароль при регистрации и входе обрабатывался одинаково.
func Secret(r *http.Request, name string) string {
	return html.EscapeString(r.PostFormValue(name))
}
