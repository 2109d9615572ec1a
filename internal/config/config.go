// Package config holds environment configuration and product constants.
package config

import (
	"fmt"
	"os"
)

// Config is the process configuration, read once at startup.
type Config struct {
	SecretKey   string
	DatabaseURL string
	RedisAddr   string
	RedisDB     int
	UploadDir   string
	ListenAddr  string
}

// Load reads configuration from the environment. SECRET_KEY and either
// DATABASE_URL or the DB_* variables are mandatory.
func Load() (*Config, error) {
	cfg := &Config{
		SecretKey:   os.Getenv("SECRET_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
		UploadDir:   getenv("UPLOAD_DIR", "static/uploads"),
		ListenAddr:  getenv("LISTEN_ADDR", ":8080"),
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY environment variable is not set")
	}

	if cfg.DatabaseURL == "" {
		host := getenv("DB_HOST", "localhost")
		user := os.Getenv("DB_USER")
		password := os.Getenv("DB_PASSWORD")
		name := os.Getenv("DB_NAME")
		port := getenv("DB_PORT", "5432")
		if user == "" || name == "" {
			return nil, fmt.Errorf("DATABASE_URL or DB_USER/DB_NAME environment variables are not set")
		}
		cfg.DatabaseURL = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			host, user, password, name, port)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
