// Package session хранит состояние посетителей между запросами.
//
// Идентификатор сессии — непрозрачная строка из cookie; само состояние
// (вошёл ли участник и под каким именем) лежит в Store.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/member-gate/internal/models"
)

// ErrNotFound возвращается, если сессии нет или она истекла.
var ErrNotFound = errors.New("session not found")

// Store — хранилище сессий.
type Store interface {
	Get(ctx context.Context, id string) (models.Session, error)
	Save(ctx context.Context, s models.Session) error
	Delete(ctx context.Context, id string) error
}

// NewID выпускает новый идентификатор сессии.
func NewID() string {
	return uuid.NewString()
}
