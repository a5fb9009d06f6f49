// Package config loads server configuration from the environment, with an
// optional .env file for local development and an optional YAML file for
// scoring weight overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tokensentry/tokensentry/internal/scoring"
)

// Config holds every runtime setting of the scanner service.
type Config struct {
	Port        string
	Environment string

	EtherscanAPIKey string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CacheTTL        time.Duration
	RateLimitPerMin int

	CORSOrigins []string

	// WeightsFile optionally points to a YAML file overriding the
	// component weights used by the scoring engine.
	WeightsFile string
	Weights     scoring.Weights
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded configuration from .env file")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		EtherscanAPIKey: os.Getenv("ETHERSCAN_API_KEY"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTL:        getEnvDuration("CACHE_TTL", 5*time.Minute),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 60),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		WeightsFile:     os.Getenv("WEIGHTS_FILE"),
		Weights:         scoring.DefaultWeights(),
	}

	if cfg.WeightsFile != "" {
		weights, err := loadWeights(cfg.WeightsFile)
		if err != nil {
			return nil, fmt.Errorf("loading weights from %s: %w", cfg.WeightsFile, err)
		}
		cfg.Weights = weights
		slog.Info("Loaded scoring weight overrides", "file", cfg.WeightsFile)
	}

	if cfg.EtherscanAPIKey == "" {
		slog.Warn("ETHERSCAN_API_KEY not set, on-chain facts will be unavailable")
	}

	return cfg, nil
}

// loadWeights reads and validates a YAML weights file. Every weight must be
// present and inside (0, 1].
func loadWeights(path string) (scoring.Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Weights{}, err
	}

	var w scoring.Weights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return scoring.Weights{}, fmt.Errorf("malformed YAML: %w", err)
	}

	if err := validateWeights(w); err != nil {
		return scoring.Weights{}, err
	}

	return w, nil
}

func validateWeights(w scoring.Weights) error {
	checks := map[string]float64{
		"contract":   w.Contract,
		"market":     w.Market,
		"reputation": w.Reputation,
		"advanced":   w.Advanced,
	}
	for name, v := range checks {
		if v <= 0 || v > 1 {
			return fmt.Errorf("weight %q must be in (0, 1], got %v", name, v)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("Invalid duration in environment, using default", "key", key, "value", v)
		return fallback
	}
	return d
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
