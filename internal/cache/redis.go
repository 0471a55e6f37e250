package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/movie-gateway/internal/config"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/movie-gateway/internal/models"
)

const keyPrefix = "category:"

// Redis кеш категорий, разделяемый между экземплярами шлюза.
//
// Свежесть обеспечивается временем жизни ключа, равным окну свежести.
type Redis struct {
	Db        *redis.Client
	freshness time.Duration
	log       *slog.Logger
}

// InitRedis подключается к Redis и проверяет соединение.
func InitRedis(ctx context.Context, cfg config.RedisConnection, freshness time.Duration, log *slog.Logger) (*Redis, error) {
	const op = "cache.InitRedis"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &Redis{Db: db, freshness: freshness, log: log}, nil
}

// Get возвращает запись, если ключ ещё не истёк. Ошибки Redis считаются промахом.
func (c *Redis) Get(ctx context.Context, key string) (*models.Listing, bool) {
	const op = "cache.Redis.Get"
	val, err := c.Db.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("category cache read failed", sl.Op(op), slog.String("key", key), sl.Err(err))
		return nil, false
	}
	var listing models.Listing
	if err := json.Unmarshal(val, &listing); err != nil {
		c.log.Warn("category cache entry is corrupted", sl.Op(op), slog.String("key", key), sl.Err(err))
		return nil, false
	}
	return &listing, true
}

// Put сохраняет запись со временем жизни, равным окну свежести.
func (c *Redis) Put(ctx context.Context, key string, listing *models.Listing) error {
	const op = "cache.Redis.Put"
	jsonData, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.Db.Set(ctx, keyPrefix+key, jsonData, c.freshness).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает соединение.
func (c *Redis) Close() error {
	return c.Db.Close()
}
