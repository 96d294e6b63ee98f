package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// SourceConfig holds the per-source fetch settings. Every source tolerates a
// different load, so delays and concurrency caps are configured per source.
type SourceConfig struct {
	Name            string `yaml:"name"`
	BaseURL         string `yaml:"base_url"`
	RateLimitMs     int    `yaml:"rate_limit_ms"`
	MaxConcurrent   int    `yaml:"max_concurrent"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	MaxRetries      int    `yaml:"max_retries"`
	RequiresBrowser bool   `yaml:"requires_browser"`
	UserAgent       string `yaml:"user_agent"`
}

// RateLimitDelay returns the minimum inter-request delay for the source.
func (s SourceConfig) RateLimitDelay() time.Duration {
	return time.Duration(s.RateLimitMs) * time.Millisecond
}

// Timeout returns the per-request timeout for the source.
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// Config holds all application configuration loaded from environment
// variables plus the per-source settings file.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrentTotal int
	CacheTTLMinutes    int
	RateLimitBackoffMs int
	SearchPages        int
	DefaultLimit       int

	CSVOutputPath  string
	StorageEnabled bool
	APIPort        string
	ServeAPI       bool

	Sources []SourceConfig
}

type sourcesFile struct {
	Sources []SourceConfig `yaml:"sources"`
}

// Load reads the .env file, the sources config file, and returns a
// populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "property"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "property123"),
		PostgresDB:       getEnv("POSTGRES_DB", "property_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrentTotal: getEnvInt("MAX_CONCURRENT_TOTAL", 10),
		CacheTTLMinutes:    getEnvInt("CACHE_TTL_MINUTES", 30),
		RateLimitBackoffMs: getEnvInt("RATE_LIMIT_BACKOFF_MS", 5000),
		SearchPages:        getEnvInt("SEARCH_PAGES", 2),
		DefaultLimit:       getEnvInt("DEFAULT_RESULT_LIMIT", 10),

		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "./output/raw_properties.csv"),
		StorageEnabled: getEnvBool("STORAGE_ENABLED", false),
		APIPort:        getEnv("API_PORT", "8080"),
		ServeAPI:       getEnvBool("SERVE_API", false),
	}

	sources, err := loadSources(getEnv("SOURCES_CONFIG_PATH", "./configs/sources.yaml"))
	if err != nil {
		log.Printf("[config] %v, using built-in source defaults", err)
		sources = DefaultSources()
	}
	cfg.Sources = sources

	return cfg
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// CacheTTL returns the result-cache time-to-live.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// RateLimitBackoff returns the extended back-off applied after a 429. It is
// configured strictly greater than every source's inter-request delay.
func (c *Config) RateLimitBackoff() time.Duration {
	return time.Duration(c.RateLimitBackoffMs) * time.Millisecond
}

// DefaultSources returns the built-in configuration for the three supported
// Sydney listing sources.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{
			Name:          "realestate.com.au",
			BaseURL:       "https://www.realestate.com.au",
			RateLimitMs:   2000,
			MaxConcurrent: 3,
			TimeoutSec:    30,
			MaxRetries:    3,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
				"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		{
			Name:          "domain.com.au",
			BaseURL:       "https://www.domain.com.au",
			RateLimitMs:   1500,
			MaxConcurrent: 4,
			TimeoutSec:    25,
			MaxRetries:    3,
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
				"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		{
			Name:          "rent.com.au",
			BaseURL:       "https://www.rent.com.au",
			RateLimitMs:   1000,
			MaxConcurrent: 5,
			TimeoutSec:    20,
			MaxRetries:    2,
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
				"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
	}
}

func loadSources(path string) ([]SourceConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sources config %q not readable: %w", path, err)
	}

	var parsed sourcesFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("sources config %q invalid: %w", path, err)
	}
	if len(parsed.Sources) == 0 {
		return nil, fmt.Errorf("sources config %q lists no sources", path)
	}

	for i := range parsed.Sources {
		s := &parsed.Sources[i]
		if s.Name == "" || s.BaseURL == "" {
			return nil, fmt.Errorf("sources config %q: source %d missing name or base_url", path, i)
		}
		if s.MaxConcurrent < 1 {
			s.MaxConcurrent = 1
		}
		if s.MaxRetries < 1 {
			s.MaxRetries = 1
		}
		if s.TimeoutSec < 1 {
			s.TimeoutSec = 20
		}
	}
	return parsed.Sources, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
