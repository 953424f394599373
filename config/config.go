package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/vainnor/airlab-probe/client"
	"github.com/vainnor/airlab-probe/db"
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
	DefaultSkip     = 0
	DefaultLimit    = 20
)

// Config is everything a probe run needs.
type Config struct {
	BaseURL    string
	Username   string
	Password   string
	Skip       int
	Limit      int
	Status     string
	FlightType string
	Timeout    time.Duration
	Database   db.Settings
}

// Load reads env files and then the environment. With no files the
// default .env is optional; files named by the caller must exist.
func Load(files ...string) Config {
	err := godotenv.Load(files...)
	switch {
	case err == nil:
	case len(files) == 0 && os.IsNotExist(err):
	default:
		log.Printf("Warning: Error loading .env file: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables, falling back to the
// built-in defaults.
func FromEnv() Config {
	return Config{
		BaseURL:    getEnv("AIRLAB_BASE_URL", client.DefaultBaseURL),
		Username:   getEnv("AIRLAB_USERNAME", DefaultUsername),
		Password:   getEnv("AIRLAB_PASSWORD", DefaultPassword),
		Skip:       getEnvInt("PROBE_SKIP", DefaultSkip),
		Limit:      getEnvInt("PROBE_LIMIT", DefaultLimit),
		Status:     os.Getenv("PROBE_STATUS"),
		FlightType: os.Getenv("PROBE_FLIGHT_TYPE"),
		Timeout:    getEnvDuration("PROBE_TIMEOUT", 0),
		Database: db.Settings{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  os.Getenv("DB_SSLMODE"),
		},
	}
}

// ListParams returns the listing parameters of c.
func (c Config) ListParams() client.ListParams {
	return client.ListParams{
		Skip:       c.Skip,
		Limit:      c.Limit,
		Status:     c.Status,
		FlightType: c.FlightType,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		log.Printf("Warning: invalid %s %q, using %d", key, raw, def)
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		log.Printf("Warning: invalid %s %q, using %s", key, raw, def)
		return def
	}
	return v
}
