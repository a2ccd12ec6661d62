package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQL    = "sql"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Port             string        `yaml:"port"`
	StoreBackend     string        `yaml:"storeBackend"`
	DBDSN            string        `yaml:"dbDSN"`
	RedisAddr        string        `yaml:"redisAddr"`
	RedisPassword    string        `yaml:"redisPassword"`
	JWTSecret        string        `yaml:"jwtSecret"`
	ProfileTokenTTL  time.Duration `yaml:"profileTokenTTL"`
	ProfileIdleTTL   time.Duration `yaml:"profileIdleTTL"`
	TMDBAPIKey       string        `yaml:"tmdbAPIKey"`
	TMDBBaseURL      string        `yaml:"tmdbBaseURL"`
	TMDBLanguage     string        `yaml:"tmdbLanguage"`
	TMDBTimeout      time.Duration `yaml:"tmdbTimeout"`
	CatalogCacheTTL  time.Duration `yaml:"catalogCacheTTL"`
	NotifySimulation bool          `yaml:"notifySimulation"`
	LogLevel         string        `yaml:"logLevel"`
	CORSOrigins      []string      `yaml:"corsOrigins"`
}

func defaults() Config {
	return Config{
		Port:             "8080",
		StoreBackend:     BackendSQL,
		DBDSN:            "data/animewatcher.db",
		ProfileTokenTTL:  365 * 24 * time.Hour,
		ProfileIdleTTL:   30 * time.Minute,
		TMDBLanguage:     "ar-SA",
		TMDBTimeout:      10 * time.Second,
		CatalogCacheTTL:  5 * time.Minute,
		NotifySimulation: true,
		LogLevel:         "info",
		CORSOrigins:      []string{"*"},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (when set) and finally environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("PORT", &cfg.Port)
	setString("STORE_BACKEND", &cfg.StoreBackend)
	setString("DB_DSN", &cfg.DBDSN)
	setString("REDIS_ADDR", &cfg.RedisAddr)
	setString("REDIS_PASSWORD", &cfg.RedisPassword)
	setString("JWT_SECRET", &cfg.JWTSecret)
	setString("TMDB_API_KEY", &cfg.TMDBAPIKey)
	setString("TMDB_BASE_URL", &cfg.TMDBBaseURL)
	setString("TMDB_LANGUAGE", &cfg.TMDBLanguage)
	setString("LOG_LEVEL", &cfg.LogLevel)

	durations := map[string]*time.Duration{
		"PROFILE_TOKEN_TTL": &cfg.ProfileTokenTTL,
		"PROFILE_IDLE_TTL":  &cfg.ProfileIdleTTL,
		"TMDB_TIMEOUT":      &cfg.TMDBTimeout,
		"CATALOG_CACHE_TTL": &cfg.CatalogCacheTTL,
	}
	for key, dst := range durations {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s: %w", key, err)
		}
		*dst = d
	}

	if v := os.Getenv("NOTIFY_SIMULATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid NOTIFY_SIMULATION: %w", err)
		}
		cfg.NotifySimulation = b
	}

	// CORS origins: comma-separated list or "*"
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validate(cfg Config) error {
	if cfg.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	switch cfg.StoreBackend {
	case BackendSQL:
		if cfg.DBDSN == "" {
			return errors.New("config: DB_DSN is required for the sql backend")
		}
	case BackendRedis:
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return errors.New("config: REDIS_ADDR is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if cfg.ProfileIdleTTL <= 0 {
		return errors.New("config: PROFILE_IDLE_TTL must be positive")
	}
	return nil
}
