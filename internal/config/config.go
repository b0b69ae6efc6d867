// Package config provides centralized configuration management for the
// converter. It loads settings from environment variables with sensible
// defaults and validates everything on startup to fail fast on
// misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Convert  ConvertConfig
	Session  SessionConfig
	Seed     SeedConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// forwarding headers may be believed
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// DatabaseConfig holds the embedded database settings.
type DatabaseConfig struct {
	// Path is the SQLite database file (default: conversor.db)
	// Supports both DATABASE_PATH and DB_PATH env vars for compatibility
	Path string `env:"DATABASE_PATH" envAlt:"DB_PATH" default:"conversor.db"`
}

// ConvertConfig holds file conversion settings.
type ConvertConfig struct {
	// OutputDir is where generated TXT files are written (default: out)
	OutputDir string `env:"CONVERT_OUTPUT_DIR" default:"out"`

	// MaxFileSize is the maximum allowed upload size in bytes (default: 20MB)
	MaxFileSize int64 `env:"CONVERT_MAX_FILE_SIZE" default:"20971520"`

	// Timeout is the maximum duration for a single conversion (default: 2m)
	Timeout time.Duration `env:"CONVERT_TIMEOUT" default:"2m"`
}

// SessionConfig holds login session settings.
type SessionConfig struct {
	// TTL is how long a login session stays valid (default: 8h)
	TTL time.Duration `env:"SESSION_TTL" default:"8h"`
}

// SeedConfig holds the initial account passwords used when the database is
// created for the first time.
type SeedConfig struct {
	// AdminPassword is the initial admin password (default: admin)
	AdminPassword string `env:"SEED_ADMIN_PASSWORD" default:"admin"`

	// OperatorPassword is the initial operator password (default: operator)
	OperatorPassword string `env:"SEED_OPERATOR_PASSWORD" default:"operator"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
