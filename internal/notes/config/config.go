// Package config содержит конфигурацию сервиса заметок.
package config

import (
	"context"
	"os"

	pkgconfig "notekeeper/pkg/config"
)

const serviceName = "notes"

// EnvConfigPath задает путь к файлу конфигурации, если он не передан явно.
const EnvConfigPath = "NOTES_CONFIG_PATH"

// Config представляет полную конфигурацию сервиса заметок.
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	HTTP     HTTPConfig     `yaml:"http"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load загружает конфигурацию. Пустой path заменяется значением NOTES_CONFIG_PATH.
func Load(ctx context.Context, path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	return pkgconfig.Load[Config](ctx, serviceName, path)
}
