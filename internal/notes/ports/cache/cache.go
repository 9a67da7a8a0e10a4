// Package cache определяет интерфейсы для кэширования.
package cache

import (
	"context"
	"time"
)

// Cache определяет интерфейс для работы с кэшем.
// Отсутствующий ключ возвращается как пустая строка без ошибки.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// SetIfAbsent записывает значение, только если ключа нет, и сообщает, была ли запись.
	SetIfAbsent(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)

	Delete(ctx context.Context, key string) error

	Close() error
}
