package config

import "time"

type Config struct {
	Server    ServerConfig
	Transport TransportConfig
	Database  DatabaseConfig
	Hub       HubConfig
	Presence  PresenceConfig
	Telemetry TelemetryConfig
	Log       LogConfig
}

type ServerConfig struct {
	Address         string
	Auth            AuthConfig
	ConnectionLimit ConnectionLimitConfig `mapstructure:"connectionLimit"`
}

// AuthConfig enables session verification on upgrade when JWTSecret is set.
type AuthConfig struct {
	JWTSecret  string `mapstructure:"jwtSecret"`
	CookieName string `mapstructure:"cookieName"`
	Required   bool   `mapstructure:"required"`
}

type ConnectionLimitConfig struct {
	MaxPerIP int    `mapstructure:"maxPerIP"`
	Mode     string `mapstructure:"mode"` // "reject" or "cycle"
}

type TransportConfig struct {
	ReadTimeout   time.Duration `mapstructure:"readTimeout"`
	WriteTimeout  time.Duration `mapstructure:"writeTimeout"`
	SendQueueSize int           `mapstructure:"sendQueueSize"`
	RateLimit     string        `mapstructure:"rateLimit"` // "40/s", empty disables
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "postgres" or "sqlite"
	DSN    string `mapstructure:"dsn"`
}

type HubConfig struct {
	AnonymousUserID int64 `mapstructure:"anonymousUserID"`
}

type PresenceConfig struct {
	ReconcileInterval time.Duration `mapstructure:"reconcileInterval"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlpEndpoint"`
	ServiceName  string `mapstructure:"serviceName"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}
