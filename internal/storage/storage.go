// Package storage описывает хранилище участников сайта и общие ошибки его реализаций.
//
// Реализации: filestore — JSON‑снимок в одном файле, postgresql — таблица members.
package storage

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/member-gate/internal/models"
)

// ErrStorage оборачивает любые сбои чтения или записи хранилища, включая повреждённый снимок.
var ErrStorage = errors.New("member storage failure")

// Store — хранилище участников. Все изменения сериализуются реализацией,
// поэтому параллельные регистрации не теряют друг друга.
type Store interface {
	// Load возвращает всех участников; отсутствующее хранилище создаётся пустым.
	Load(ctx context.Context) (models.Members, error)
	// Save целиком заменяет снимок участников.
	Save(ctx context.Context, members models.Members) error
	// Create добавляет участника и возвращает false, если имя уже занято.
	Create(ctx context.Context, username, password, email string) (bool, error)
	// Verify сообщает, существует ли участник с таким паролем.
	Verify(ctx context.Context, username, password string) (bool, error)
	// List возвращает участников, отсортированных по имени.
	List(ctx context.Context) ([]models.Member, error)
}
