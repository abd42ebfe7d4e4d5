// Package models содержит доменные структуры member-gate: участника сайта,
// сессию посетителя, элемент контента и исходящее письмо.
// Структуры используются в бизнес‑логике, хранилищах и HTTP‑слое.
package models

import (
	"sort"
	"time"
)

// Member представляет зарегистрированного участника сайта.
// Username является ключом и в JSON‑снимке не дублируется.
type Member struct {
	Username     string    `json:"-"`             // Имя участника (уникальное, чувствительно к регистру)
	PasswordHash string    `json:"password"`      // bcrypt‑хэш пароля
	Email        string    `json:"email"`         // Электронная почта
	RegisteredAt time.Time `json:"registered_at"` // Момент регистрации, задаётся один раз
}

// Members — отображение username -> Member, в таком виде хранится снимок участников.
type Members map[string]Member

// Sorted возвращает участников, отсортированных по имени, с заполненным полем Username.
func (m Members) Sorted() []Member {
	out := make([]Member, 0, len(m))
	for username, member := range m {
		member.Username = username
		out = append(out, member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}
