// Package config loads the emulator's runtime configuration from
// environment variables, with every value defaulted so the binary runs
// with zero setup.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds every tunable the emulator reads at startup.
type Config struct {
	// Port is the TCP port the dispatcher listens on.
	Port int
	// Environment selects the logger's encoding ("production" for JSON).
	Environment string
	// OTLPEndpoint, if set, is where trace spans are exported via gRPC.
	// Left empty, spans are still created but never leave the process.
	OTLPEndpoint string
	// SeedFile, if set, is a YAML file of tables/items to load at startup.
	SeedFile string
}

// Load reads configuration from the environment, applying the same
// defaults a developer running `go run ./cmd/api` with no setup expects.
func Load() (*Config, error) {
	port, err := getEnvInt("PORT", 3050)
	if err != nil {
		return nil, err
	}
	return &Config{
		Port:         port,
		Environment:  getEnv("ENVIRONMENT", "development"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		SeedFile:     getEnv("DDBLOCAL_SEED_FILE", ""),
	}, nil
}

// Addr returns the loopback address the server should bind, matching the
// reference implementation's 127.0.0.1-only listener: this emulator is a
// local development tool, not a service meant to be reachable from outside
// the host.
func (c *Config) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", c.Port)
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid integer for %s: %w", key, err)
	}
	return v, nil
}
