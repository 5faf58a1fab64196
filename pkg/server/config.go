package server

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/appforge/skelgen/pkg/logging"
)

// EnvPort overrides the listen port.
const EnvPort = "PORT"

// DefaultConfig returns the default server configuration, with the port and
// log level taken from the environment when set.
func DefaultConfig() *Config {
	cfg := &Config{
		Address:         "",
		Port:            8080,
		RateLimit:       20, // req/s
		RateLimitBurst:  40,
		MaxRequestTime:  15 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		LogLevel:        slog.LevelInfo.String(),
	}

	if portStr := os.Getenv(EnvPort); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		}
	}

	if level := os.Getenv(logging.EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}

	return cfg
}
