// Package postgresql реализует хранилище участников на основе PostgreSQL.
//
// Уникальность имени обеспечивает первичный ключ таблицы members:
// вставка с ON CONFLICT DO NOTHING проверяет и записывает участника одной командой.
package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/magabrotheeeer/member-gate/internal/lib/password"
	"github.com/magabrotheeeer/member-gate/internal/models"
	"github.com/magabrotheeeer/member-gate/internal/storage"
)

// DB — подмножество pgxpool.Pool, которое нужно хранилищу.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ storage.Store = (*Storage)(nil)

// Storage инкапсулирует соединение с PostgreSQL.
type Storage struct {
	db  DB
	now func() time.Time
}

// Connect открывает пул соединений и проверяет доступность базы.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	const op = "postgresql.Connect"
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pool, nil
}

// New создаёт хранилище поверх пула или мока.
func New(db DB) *Storage {
	return &Storage{db: db, now: time.Now}
}

// Load возвращает всех участников.
func (s *Storage) Load(ctx context.Context) (models.Members, error) {
	const op = "postgresql.Load"
	rows, err := s.db.Query(ctx, `SELECT username, password_hash, email, registered_at FROM members`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrStorage, err)
	}
	defer rows.Close()

	members := models.Members{}
	for rows.Next() {
		var (
			username string
			m        models.Member
		)
		if err := rows.Scan(&username, &m.PasswordHash, &m.Email, &m.RegisteredAt); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrStorage, err)
		}
		members[username] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrStorage, err)
	}
	return members, nil
}

// Save заменяет содержимое таблицы снимком в одной транзакции.
func (s *Storage) Save(ctx context.Context, members models.Members) error {
	const op = "postgresql.Save"
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrStorage, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM members`); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("%s: %w: %w", op, storage.ErrStorage, err)
	}
	for _, m := range members.Sorted() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO members (username, password_hash, email, registered_at) VALUES ($1, $2, $3, $4)`,
			m.Username, m.PasswordHash, m.Email, m.RegisteredAt); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("%s: %w: %w", op, storage.ErrStorage, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrStorage, err)
	}
	return nil
}

// Create добавляет участника, если имя свободно.
func (s *Storage) Create(ctx context.Context, username, pass, email string) (bool, error) {
	const op = "postgresql.Create"
	hash, err := password.GetHash(pass)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	tag, err := s.db.Exec(ctx,
		`INSERT INTO members (username, password_hash, email, registered_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (username) DO NOTHING`,
		username, hash, email, s.now().UTC().Truncate(time.Second))
	if err != nil {
		return false, fmt.Errorf("%s: %w: %w", op, storage.ErrStorage, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Verify проверяет пароль участника.
func (s *Storage) Verify(ctx context.Context, username, pass string) (bool, error) {
	const op = "postgresql.Verify"
	var hash string
	err := s.db.QueryRow(ctx, `SELECT password_hash FROM members WHERE username = $1`, username).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return password.BurnCompare(pass), nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w: %w", op, storage.ErrStorage, err)
	}
	return password.Matches(hash, pass), nil
}

// List возвращает участников, отсортированных по имени.
func (s *Storage) List(ctx context.Context) ([]models.Member, error) {
	members, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgresql.List: %w", err)
	}
	return members.Sorted(), nil
}
