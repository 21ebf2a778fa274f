// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// ServiceAccountJSON is the raw Google Cloud service-account key. It is
	// parsed lazily on the first labeling request, so an empty value does not
	// prevent startup.
	ServiceAccountJSON string

	ListenAddr        string
	BasicAuthUser     string
	BasicAuthPassword string

	VisionTimeout    time.Duration
	VisionMaxResults int32
	MaxUploadBytes   int64

	CacheDBPath        string
	CacheTTL           time.Duration
	CachePurgeInterval time.Duration
}

// HasServiceAccount returns true when a service-account key was supplied.
// Used by the composition root to log whether labeling is available.
func (c *Config) HasServiceAccount() bool {
	return c.ServiceAccountJSON != ""
}

// CacheEnabled returns true when a label cache database path is configured.
func (c *Config) CacheEnabled() bool {
	return c.CacheDBPath != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// GCP_SA_JSON is optional at startup; without it the labeling endpoint answers 500.
// Optional variables with defaults: IMAGELABELS_LISTEN_ADDR (127.0.0.1:8080),
// IMAGELABELS_BASIC_AUTH_USER (samsung), IMAGELABELS_BASIC_AUTH_PASSWORD (gemini),
// IMAGELABELS_VISION_TIMEOUT (30s), IMAGELABELS_VISION_MAX_RESULTS (0, service default),
// IMAGELABELS_MAX_UPLOAD_BYTES (20 MiB), IMAGELABELS_CACHE_DB_PATH (empty, cache off),
// IMAGELABELS_CACHE_TTL (24h), IMAGELABELS_CACHE_PURGE_INTERVAL (1h).
func Load() (*Config, error) {
	cfg := &Config{
		ServiceAccountJSON: os.Getenv("GCP_SA_JSON"),
		ListenAddr:         "127.0.0.1:8080",
		BasicAuthUser:      "samsung",
		BasicAuthPassword:  "gemini",
		VisionTimeout:      30 * time.Second,
		MaxUploadBytes:     20 << 20,
		CacheTTL:           24 * time.Hour,
		CachePurgeInterval: time.Hour,
	}

	if v, ok := os.LookupEnv("IMAGELABELS_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("IMAGELABELS_BASIC_AUTH_USER"); ok {
		cfg.BasicAuthUser = v
	}
	if v, ok := os.LookupEnv("IMAGELABELS_BASIC_AUTH_PASSWORD"); ok {
		cfg.BasicAuthPassword = v
	}
	if cfg.BasicAuthUser == "" || cfg.BasicAuthPassword == "" {
		return nil, fmt.Errorf("IMAGELABELS_BASIC_AUTH_USER and IMAGELABELS_BASIC_AUTH_PASSWORD must not be empty")
	}

	var err error
	if cfg.VisionTimeout, err = durationEnv("IMAGELABELS_VISION_TIMEOUT", cfg.VisionTimeout); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = durationEnv("IMAGELABELS_CACHE_TTL", cfg.CacheTTL); err != nil {
		return nil, err
	}
	if cfg.CachePurgeInterval, err = durationEnv("IMAGELABELS_CACHE_PURGE_INTERVAL", cfg.CachePurgeInterval); err != nil {
		return nil, err
	}

	if v, ok := os.LookupEnv("IMAGELABELS_VISION_MAX_RESULTS"); ok {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("IMAGELABELS_VISION_MAX_RESULTS has invalid value %q: must be a non-negative 32-bit integer", v)
		}
		cfg.VisionMaxResults = int32(n)
	}

	if v, ok := os.LookupEnv("IMAGELABELS_MAX_UPLOAD_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("IMAGELABELS_MAX_UPLOAD_BYTES has invalid value %q: must be a positive integer", v)
		}
		cfg.MaxUploadBytes = n
	}

	if v, ok := os.LookupEnv("IMAGELABELS_CACHE_DB_PATH"); ok {
		cfg.CacheDBPath = v
	}

	return cfg, nil
}

// durationEnv parses key as a positive time.Duration, returning def when unset.
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", key, v)
	}
	return parsed, nil
}
