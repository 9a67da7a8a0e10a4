package config

// AuthConfig содержит настройки проверки bearer-токенов.
type AuthConfig struct {
	Enabled   bool   `yaml:"enabled" env:"NOTES_AUTH_ENABLED" env-default:"false"`
	SecretKey string `yaml:"secret_key" env:"NOTES_JWT_SECRET_KEY" env-default:""`
}
