package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/pkg/config"
)

type sampleConfig struct {
	Name string `yaml:"name" env:"SAMPLE_NAME" env-default:"default-name"`
	Port int    `yaml:"port" env:"SAMPLE_PORT" env-default:"8000"`
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults from environment only", func(t *testing.T) {
		cfg, err := config.Load[sampleConfig](ctx, "sample", "")
		require.NoError(t, err)

		assert.Equal(t, "default-name", cfg.Name)
		assert.Equal(t, 8000, cfg.Port)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("SAMPLE_PORT", "9100")

		cfg, err := config.Load[sampleConfig](ctx, "sample", "")
		require.NoError(t, err)

		assert.Equal(t, 9100, cfg.Port)
	})

	t.Run("values from yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: from-file\nport: 7000\n"), 0o600))

		cfg, err := config.Load[sampleConfig](ctx, "sample", path)
		require.NoError(t, err)

		assert.Equal(t, "from-file", cfg.Name)
		assert.Equal(t, 7000, cfg.Port)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg, err := config.Load[sampleConfig](ctx, "sample", filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("SAMPLE_PORT", "not_a_number")

		cfg, err := config.Load[sampleConfig](ctx, "sample", "")
		require.Error(t, err)
		assert.Nil(t, cfg)
	})
}
