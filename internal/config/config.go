// Package config provides environment-driven configuration for the lease
// registry server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL Secret
	Port        string
	MetricsPort string
	ListenHost  string
	CORSOrigins []string
	LogLevel    string

	// OwnerParty is the platform operator identity: the only party allowed
	// to mint properties and change admin settings.
	OwnerParty uuid.UUID
	// EscrowParty is the account that custodies property assets while a
	// lease is active.
	EscrowParty uuid.UUID

	GracePeriodSeconds int64
	AuditQueueSize     int

	// OwnerAPIKey and EscrowAPIKey, when set, seed the owner and escrow
	// party records at startup so a fresh database is usable immediately.
	OwnerAPIKey  Secret
	EscrowAPIKey Secret
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: Secret(envOrDefault("DATABASE_URL", "")),
		Port:        envOrDefault("PORT", "4040"),
		MetricsPort: envOrDefault("METRICS_PORT", "9091"),
		ListenHost:  envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
	}

	owner, err := uuid.Parse(envOrDefault("OWNER_PARTY_ID", ""))
	if err != nil {
		return nil, fmt.Errorf("OWNER_PARTY_ID must be a valid UUID: %w", err)
	}
	cfg.OwnerParty = owner

	escrow, err := uuid.Parse(envOrDefault("ESCROW_PARTY_ID", ""))
	if err != nil {
		return nil, fmt.Errorf("ESCROW_PARTY_ID must be a valid UUID: %w", err)
	}
	cfg.EscrowParty = escrow

	grace, err := strconv.ParseInt(envOrDefault("GRACE_PERIOD_SECONDS", "604800"), 10, 64)
	if err != nil || grace <= 0 {
		return nil, fmt.Errorf("GRACE_PERIOD_SECONDS must be a positive integer")
	}
	cfg.GracePeriodSeconds = grace

	queueSize, err := strconv.Atoi(envOrDefault("AUDIT_QUEUE_SIZE", "256"))
	if err != nil || queueSize < 1 || queueSize > 65536 {
		return nil, fmt.Errorf("AUDIT_QUEUE_SIZE must be an integer between 1 and 65536")
	}
	cfg.AuditQueueSize = queueSize

	cfg.OwnerAPIKey = Secret(envOrDefault("OWNER_API_KEY", ""))
	cfg.EscrowAPIKey = Secret(envOrDefault("ESCROW_API_KEY", ""))

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3002")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
