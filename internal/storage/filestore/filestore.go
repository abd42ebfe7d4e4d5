// Package filestore хранит участников в одном JSON‑файле.
//
// Файл читается целиком перед каждым изменением и перезаписывается целиком после него.
// Цикл чтение‑изменение‑запись выполняется под мьютексом, а запись идёт через
// временный файл и rename, так что читатель никогда не видит половину снимка.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/magabrotheeeer/member-gate/internal/lib/password"
	"github.com/magabrotheeeer/member-gate/internal/models"
	"github.com/magabrotheeeer/member-gate/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store — файловое хранилище участников.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// New создаёт хранилище поверх файла path. Файл создаётся при первом обращении.
func New(path string) *Store {
	return &Store{
		path: path,
		now:  time.Now,
	}
}

// Load читает снимок участников. Если файла нет, создаёт пустой снимок.
func (s *Store) Load(ctx context.Context) (models.Members, error) {
	const op = "filestore.Load"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save перезаписывает снимок участников.
func (s *Store) Save(ctx context.Context, members models.Members) error {
	const op = "filestore.Save"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(members)
}

// Create добавляет участника, если имя свободно.
func (s *Store) Create(ctx context.Context, username, pass, email string) (bool, error) {
	const op = "filestore.Create"
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	members, err := s.load()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := members[username]; ok {
		return false, nil
	}

	hash, err := password.GetHash(pass)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	members[username] = models.Member{
		PasswordHash: hash,
		Email:        email,
		RegisteredAt: s.now().UTC().Truncate(time.Second),
	}
	if err := s.save(members); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Verify проверяет пароль участника. Для неизвестного имени всё равно
// выполняется сравнение bcrypt, чтобы промах не отличался по времени.
func (s *Store) Verify(ctx context.Context, username, pass string) (bool, error) {
	const op = "filestore.Verify"
	members, err := s.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	member, ok := members[username]
	if !ok {
		return password.BurnCompare(pass), nil
	}
	return password.Matches(member.PasswordHash, pass), nil
}

// List возвращает участников, отсортированных по имени.
func (s *Store) List(ctx context.Context) ([]models.Member, error) {
	members, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("filestore.List: %w", err)
	}
	return members.Sorted(), nil
}

func (s *Store) load() (models.Members, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.save(models.Members{}); err != nil {
			return nil, err
		}
		return models.Members{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", s.path, storage.ErrStorage, err)
	}
	return decode(data, s.path)
}

func decode(data []byte, path string) (models.Members, error) {
	trimmed := bytes.TrimSpace(data)
	// PHP сериализует пустой массив как [], такой снимок тоже считается пустым.
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("[]")) || bytes.Equal(trimmed, []byte("null")) {
		return models.Members{}, nil
	}
	members := models.Members{}
	if err := json.Unmarshal(trimmed, &members); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", path, storage.ErrStorage, err)
	}
	return members, nil
}

func (s *Store) save(members models.Members) error {
	if members == nil {
		members = models.Members{}
	}
	data, err := json.MarshalIndent(members, "", "    ")
	if err != nil {
		return fmt.Errorf("encode members: %w: %w", storage.ErrStorage, err)
	}
	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("write %s: %w: %w", s.path, storage.ErrStorage, err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".members-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
