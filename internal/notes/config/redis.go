package config

import (
	"time"

	"notekeeper/pkg/db/redis"
	"notekeeper/pkg/resilience"
)

// RedisConfig представляет конфигурацию кэша заметок.
type RedisConfig struct {
	Enabled      bool          `yaml:"enabled" env:"NOTES_REDIS_ENABLED" env-default:"false"`
	Host         string        `yaml:"host" env:"NOTES_REDIS_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"NOTES_REDIS_PORT" env-default:"6379"`
	Password     string        `yaml:"password" env:"NOTES_REDIS_PASSWORD" env-default:""`
	DB           int           `yaml:"db" env:"NOTES_REDIS_DB" env-default:"0"`
	PoolSize     int           `yaml:"pool_size" env:"NOTES_REDIS_POOL_SIZE" env-default:"10"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"NOTES_REDIS_DIAL_TIMEOUT" env-default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"NOTES_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"NOTES_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	TTL          time.Duration `yaml:"ttl" env:"NOTES_REDIS_TTL" env-default:"15m"`

	BreakerThreshold int           `yaml:"breaker_threshold" env:"NOTES_REDIS_BREAKER_THRESHOLD" env-default:"5"`
	BreakerTimeout   time.Duration `yaml:"breaker_timeout" env:"NOTES_REDIS_BREAKER_TIMEOUT" env-default:"10s"`
}

// ClientConfig переводит настройки в конфигурацию общего клиента Redis.
func (c *RedisConfig) ClientConfig() *redis.Config {
	return &redis.Config{
		Host:         c.Host,
		Port:         c.Port,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}

// BreakerConfig возвращает настройки Circuit Breaker для кэша.
func (c *RedisConfig) BreakerConfig() resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig()
	if c.BreakerThreshold > 0 {
		cfg.ErrorThreshold = c.BreakerThreshold
	}
	if c.BreakerTimeout > 0 {
		cfg.Timeout = c.BreakerTimeout
	}
	return cfg
}
