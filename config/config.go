// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host            string
	Port            string
	DatabaseURL     string
	DatabaseName    string
	StoreBackend    string
	DataDir         string
	AllowedOrigins  []string
	LogMode         string
	MaxRequestBytes int64
	ShutdownTimeout time.Duration
}

// Load reads files (default ".env") into the environment without overriding
// variables that are already set, then builds a Config. Missing files are ignored.
func Load(files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
	return Config{
		Host:            env("HOST", "0.0.0.0"),
		Port:            env("PORT", "8000"),
		DatabaseURL:     env("DATABASE_URL", ""),
		DatabaseName:    env("DATABASE_NAME", "study_app"),
		StoreBackend:    env("STORE_BACKEND", ""),
		DataDir:         env("DATA_DIR", "./data"),
		AllowedOrigins:  strings.Split(env("ALLOWED_ORIGINS", "*"), ","),
		LogMode:         env("LOG_MODE", "dev"),
		MaxRequestBytes: int64(envInt("MAX_REQUEST_BYTES", 1<<20)),
		ShutdownTimeout: time.Duration(envInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

// Addr is the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
