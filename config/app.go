package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// AppConfig is the configuration of the amount2words server.
type AppConfig struct {
	// Bitrix24 application credentials, for refreshing OAuth tokens. Not
	// read by the server yet.
	ClientID          string `json:"client_id" env:"BITRIX24_CLIENT_ID"`
	ClientSecret      string `json:"client_secret" env:"BITRIX24_CLIENT_SECRET"`
	Env               string `json:"env" env:"ENV"`
	Port              int    `json:"port" env:"PORT" validate:"min=1,max=65535"`
	TokenStore        string `json:"token_store" env:"TOKEN_STORE" validate:"oneof=file redis postgres"`
	TokensFile        string `json:"tokens_file" env:"TOKENS_FILE" validate:"required_if=TokenStore file"`
	RedisAddr         string `json:"redis_addr" env:"REDIS_ADDR" validate:"required_if=TokenStore redis"`
	RedisPassword     string `json:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB           int    `json:"redis_db" env:"REDIS_DB" validate:"min=0"`
	PostgresURL       string `json:"postgres_url" env:"POSTGRES_URL" validate:"required_if=TokenStore postgres"`
	RequestTimeoutSec int    `json:"request_timeout_sec" env:"REQUEST_TIMEOUT_SEC" validate:"min=1"`
	ErrorTypesFile    string `json:"error_types_file" env:"ERROR_TYPES_FILE"`
}

// DefaultAppConfig returns the configuration used for anything a source
// leaves unset.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Env:               "DEVELOPMENT",
		Port:              8080,
		TokenStore:        "file",
		TokensFile:        "utils_bitrix_app_tokens.json",
		RedisAddr:         "localhost:6379",
		RequestTimeoutSec: 10,
	}
}

// RequestTimeout returns the per-request timeout.
func (c AppConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

var validate = validator.New()

// Validate checks the loaded values.
func (c AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadApp loads an AppConfig from cs on top of the defaults and validates it.
func LoadApp(cs Config) (AppConfig, error) {
	cfg := DefaultAppConfig()
	if err := Load(cs, &cfg); err != nil {
		return AppConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}
