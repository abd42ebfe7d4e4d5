package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/member-gate/internal/config"
	"github.com/magabrotheeeer/member-gate/internal/models"
)

const keyPrefix = "member-gate:session:"

// RedisStore хранит сессии в redis с TTL.
type RedisStore struct {
	Db  *redis.Client
	ttl time.Duration
}

// InitRedis подключается к redis и проверяет соединение.
func InitRedis(ctx context.Context, cfg config.RedisConnection) (*redis.Client, error) {
	const op = "session.InitRedis"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return db, nil
}

// NewRedisStore создаёт хранилище сессий поверх клиента redis.
func NewRedisStore(db *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Db: db, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, id string) (models.Session, error) {
	const op = "session.RedisStore.Get"
	val, err := r.Db.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	var s models.Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s models.Session) error {
	const op = "session.RedisStore.Save"
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := r.Db.Set(ctx, keyPrefix+s.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	const op = "session.RedisStore.Delete"
	if err := r.Db.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
