package config

import (
	"strings"
	"time"
)

// DevAPIConfig holds configuration for the development backend.
type DevAPIConfig struct {
	BindAddr         string
	PortCandidates   []string
	PortAutoFallback bool

	// Price ticker behavior
	TickInterval time.Duration
	TickEnabled  bool

	// Seed data sizes
	SeedCompanies int
	SeedStocks    int
	SeedUsers     int

	LogLevel string
	LogFile  string
}

// LoadDevAPI reads development backend configuration from environment
// variables.
func LoadDevAPI() (*DevAPIConfig, error) {
	cfg := &DevAPIConfig{
		BindAddr:         getEnvOrDefault("DEVAPI_BIND_ADDR", "127.0.0.1:8090"),
		PortCandidates:   splitList(getEnvOrDefault("DEVAPI_PORT_CANDIDATES", "127.0.0.1:8091,127.0.0.1:8092")),
		PortAutoFallback: getEnvBoolOrDefault("DEVAPI_PORT_AUTO_FALLBACK", true),
		TickInterval:     time.Duration(getEnvIntOrDefault("DEVAPI_TICK_INTERVAL_MS", 1_000)) * time.Millisecond,
		TickEnabled:      getEnvBoolOrDefault("DEVAPI_TICK_ENABLED", true),
		SeedCompanies:    getEnvIntOrDefault("DEVAPI_SEED_COMPANIES", 5),
		SeedStocks:       getEnvIntOrDefault("DEVAPI_SEED_STOCKS", 25),
		SeedUsers:        getEnvIntOrDefault("DEVAPI_SEED_USERS", 12),
		LogLevel:         strings.ToLower(getEnvOrDefault("DEVAPI_LOG_LEVEL", "info")),
		LogFile:          getEnvOrDefault("DEVAPI_LOG_FILE", "logs/devapi.log"),
	}
	if cfg.TickInterval < 50*time.Millisecond {
		cfg.TickInterval = 50 * time.Millisecond
	}
	return cfg, nil
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
