// Package config loads server settings from defaults, an optional config
// file, an optional .env file and CARREST_* environment variables.
package config

import "time"

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"gt=0,lt=65536"`
	Env             string        `mapstructure:"env" validate:"oneof=development production test"`
	LogLevel        string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	Gzip            bool          `mapstructure:"gzip"`
}

// IsDevelopment reports whether the server runs in development mode.
func (s ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

// DatabaseConfig selects and configures the storage provider.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=postgres memory"`
	URL             string        `mapstructure:"url" validate:"required_if=Driver postgres"`
	MaxConns        int32         `mapstructure:"max_conns" validate:"gte=1"`
	MinConns        int32         `mapstructure:"min_conns" validate:"gte=0,ltefield=MaxConns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime" validate:"gt=0"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time" validate:"gt=0"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// AuthConfig contains bearer token settings.
type AuthConfig struct {
	// JWTSecret is the base64url-encoded HMAC key
	JWTSecret string        `mapstructure:"jwt_secret" validate:"required"`
	Issuer    string        `mapstructure:"issuer" validate:"required"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
}

// AuditConfig controls the audit trail.
type AuditConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// CompressThreshold is the snapshot size in bytes above which zstd is applied
	CompressThreshold int `mapstructure:"compress_threshold" validate:"gte=0"`
}
