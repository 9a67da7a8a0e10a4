package cache

import (
	"context"
	"time"

	"notekeeper/internal/notes/ports/cache"
	"notekeeper/pkg/resilience"
)

// BreakerCache защищает кэш Circuit Breaker-ом. Пока он открыт, операции
// сразу возвращают resilience.ErrCircuitOpen, не обращаясь к Redis.
type BreakerCache struct {
	next    cache.Cache
	breaker *resilience.CircuitBreaker
}

// NewBreakerCache оборачивает кэш в Circuit Breaker.
func NewBreakerCache(next cache.Cache, breaker *resilience.CircuitBreaker) cache.Cache {
	return &BreakerCache{next: next, breaker: breaker}
}

func (c *BreakerCache) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := c.breaker.Execute(ctx, func() error {
		var err error
		value, err = c.next.Get(ctx, key)
		return err
	})
	return value, err
}

func (c *BreakerCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.breaker.Execute(ctx, func() error {
		return c.next.Set(ctx, key, value, ttl)
	})
}

func (c *BreakerCache) SetIfAbsent(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	var stored bool
	err := c.breaker.Execute(ctx, func() error {
		var err error
		stored, err = c.next.SetIfAbsent(ctx, key, value, ttl)
		return err
	})
	return stored, err
}

func (c *BreakerCache) Delete(ctx context.Context, key string) error {
	return c.breaker.Execute(ctx, func() error {
		return c.next.Delete(ctx, key)
	})
}

func (c *BreakerCache) Close() error {
	return c.next.Close()
}
