// Package cache содержит реализации кэша заметок.
package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"notekeeper/internal/notes/ports/cache"
	"notekeeper/pkg/db/redis"
	"notekeeper/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodGet    = "RedisCache.Get"
	LogMethodSet    = "RedisCache.Set"
	LogMethodSetNX  = "RedisCache.SetIfAbsent"
	LogMethodDelete = "RedisCache.Delete"

	ErrorFailedToGet    = "failed to get value from redis"
	ErrorFailedToSet    = "failed to set value in redis"
	ErrorFailedToDelete = "failed to delete value from redis"
	ErrorFailedToClose  = "failed to close redis connection"
)

// RedisCache реализует интерфейс Cache поверх общего клиента Redis.
type RedisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisCache создает кэш. Нулевой TTL в Set заменяется defaultTTL.
func NewRedisCache(client *redis.Client, defaultTTL time.Duration) cache.Cache {
	return &RedisCache{
		client:     client,
		defaultTTL: defaultTTL,
	}
}

// Get получает значение по ключу. Промах дает пустую строку без ошибки.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodGet), zap.String("key", key))

	value, err := c.client.Get(ctx, key)
	if err != nil {
		if redis.IsNil(err) {
			return "", nil
		}
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	return value, nil
}

// Set устанавливает значение для ключа с временем жизни.
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSet), zap.String("key", key))

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if err := c.client.Set(ctx, key, value, ttl); err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return nil
}

// SetIfAbsent устанавливает значение, если ключ еще не существует.
func (c *RedisCache) SetIfAbsent(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSetNX), zap.String("key", key))

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	stored, err := c.client.SetNX(ctx, key, value, ttl)
	if err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return stored, nil
}

// Delete удаляет значение по ключу.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodDelete), zap.String("key", key))

	if err := c.client.Delete(ctx, key); err != nil {
		log.Error(ctx, ErrorFailedToDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDelete, err)
	}

	return nil
}

// Close закрывает соединение с Redis.
func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
