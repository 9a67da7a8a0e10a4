package cache

import (
	"context"
	"time"

	"notekeeper/internal/notes/ports/cache"
)

// NoopCache используется, когда Redis отключен: каждое чтение дает промах.
type NoopCache struct{}

// NewNoopCache создает пустой кэш.
func NewNoopCache() cache.Cache {
	return NoopCache{}
}

func (NoopCache) Get(context.Context, string) (string, error) { return "", nil }

func (NoopCache) Set(context.Context, string, string, time.Duration) error { return nil }

func (NoopCache) SetIfAbsent(context.Context, string, string, time.Duration) (bool, error) {
	return false, nil
}

func (NoopCache) Delete(context.Context, string) error { return nil }

func (NoopCache) Close() error { return nil }
