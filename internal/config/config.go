// Package config loads application configuration from environment variables.
// Everything is read once at startup and handed to the other packages via
// dependency injection; no other package touches the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port.
	Port int

	// BaseURL is the public-facing URL embedded in reset-password links.
	BaseURL string

	Mongo  MongoConfig
	Auth   AuthConfig
	Mail   MailConfig
	Geo    GeoConfig
	Upload UploadConfig
}

type MongoConfig struct {
	URI      string
	Database string
}

type AuthConfig struct {
	// JWTSecret signs session tokens. Required in production.
	JWTSecret string

	// JWTExpire is the lifetime of an issued session token.
	JWTExpire time.Duration

	// CookieExpire is the lifetime of the token cookie.
	CookieExpire time.Duration

	// ResetTokenExpire is how long a password-reset token stays valid.
	ResetTokenExpire time.Duration
}

type MailConfig struct {
	ResendAPIKey string
	From         string
}

type GeoConfig struct {
	MapQuestAPIKey string
}

type UploadConfig struct {
	// MaxSize is the maximum photo upload size in bytes.
	MaxSize int64

	// Path is the directory uploaded photos are written to.
	Path string
}

// Load reads the enumerated environment variables, applying development
// defaults. It fails when production is missing a signing secret.
func Load() (*Config, error) {
	cfg := &Config{
		Env:     getEnv("APP_ENV", "development"),
		Port:    getEnvInt("PORT", 5000),
		BaseURL: getEnv("BASE_URL", "http://localhost:5000"),

		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "bootcamp_directory"),
		},

		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", ""),
			JWTExpire:        time.Duration(getEnvInt("JWT_EXPIRE_HOURS", 720)) * time.Hour,
			CookieExpire:     time.Duration(getEnvInt("JWT_COOKIE_EXPIRE_DAYS", 30)) * 24 * time.Hour,
			ResetTokenExpire: time.Duration(getEnvInt("RESET_TOKEN_EXPIRE_MINUTES", 10)) * time.Minute,
		},

		Mail: MailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("EMAIL_FROM", "BootcampDirectory <noreply@resend.dev>"),
		},

		Geo: GeoConfig{
			MapQuestAPIKey: getEnv("MAPQUEST_API_KEY", ""),
		},

		Upload: UploadConfig{
			MaxSize: getEnvInt64("MAX_FILE_UPLOAD", 1_000_000),
			Path:    getEnv("FILE_UPLOAD_PATH", "./public/uploads"),
		},
	}

	if cfg.IsProduction() {
		if cfg.Auth.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		if len(cfg.Auth.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
	}
	// Dev-only fallback so local runs work without an env file.
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "dev-secret-please-change"
	}

	return cfg, nil
}

// IsProduction reports whether the app runs in a production-like mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Env)
	return env == "production" || env == "prod"
}

func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}
