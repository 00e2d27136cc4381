package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ConsoleConfig holds all configuration for the console process.
type ConsoleConfig struct {
	// Remote API settings
	APIBaseURL     string
	RequestTimeout time.Duration

	// Push channel settings
	HandshakeTimeout  time.Duration
	ReconnectInterval time.Duration

	// Local state and presentation
	AppTitle       string
	StateDir       string
	DefaultCulture string

	// Optional automatic login for headless runs. Left empty, the console
	// starts unauthenticated and relies on a previously stored session.
	LoginEmail    string
	LoginPassword string

	// Logging
	LogLevel string
	LogFile  string
}

// LoadConsole reads console configuration from environment variables and an
// optional .env file.
func LoadConsole() (*ConsoleConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &ConsoleConfig{
		APIBaseURL:        strings.TrimRight(getEnvOrDefault("CONSOLE_API_BASE_URL", "http://127.0.0.1:8090"), "/"),
		RequestTimeout:    time.Duration(getEnvIntOrDefault("CONSOLE_REQUEST_TIMEOUT_MS", 60_000)) * time.Millisecond,
		HandshakeTimeout:  time.Duration(getEnvIntOrDefault("CONSOLE_HANDSHAKE_TIMEOUT_MS", 30_000)) * time.Millisecond,
		ReconnectInterval: time.Duration(getEnvIntOrDefault("CONSOLE_RECONNECT_INTERVAL_MS", 5_000)) * time.Millisecond,
		AppTitle:          getEnvOrDefault("CONSOLE_APP_TITLE", "QuoteDesk"),
		StateDir:          getEnvOrDefault("CONSOLE_STATE_DIR", "./state"),
		DefaultCulture:    getEnvOrDefault("CONSOLE_DEFAULT_CULTURE", "en-us"),
		LoginEmail:        getEnvOrDefault("CONSOLE_LOGIN_EMAIL", ""),
		LoginPassword:     getEnvOrDefault("CONSOLE_LOGIN_PASSWORD", ""),
		LogLevel:          strings.ToLower(getEnvOrDefault("CONSOLE_LOG_LEVEL", "info")),
		LogFile:           getEnvOrDefault("CONSOLE_LOG_FILE", "logs/console.log"),
	}
	if cfg.ReconnectInterval < 100*time.Millisecond {
		cfg.ReconnectInterval = 100 * time.Millisecond
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
