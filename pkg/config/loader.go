package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

const (
	LimitModeReject = "reject"
	LimitModeCycle  = "cycle"
)

// Load reads configuration from a file and environment variables.
func Load(logger *slog.Logger, fileName string) (*Config, error) {
	v := viper.New()

	// 1. Set default values
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.auth.jwtSecret", "")
	v.SetDefault("server.auth.cookieName", "session-token")
	v.SetDefault("server.auth.required", false)
	v.SetDefault("server.connectionLimit.maxPerIP", 20)
	v.SetDefault("server.connectionLimit.mode", LimitModeReject)
	v.SetDefault("transport.readTimeout", "60s")
	v.SetDefault("transport.writeTimeout", "10s")
	v.SetDefault("transport.sendQueueSize", 256)
	v.SetDefault("transport.rateLimit", "40/s")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:hub.db?_pragma=busy_timeout(5000)")
	v.SetDefault("hub.anonymousUserID", 1)
	v.SetDefault("presence.reconcileInterval", "5m")
	v.SetDefault("telemetry.otlpEndpoint", "")
	v.SetDefault("telemetry.serviceName", "hubd")
	v.SetDefault("log.level", "info")

	// 2. Set config file details
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// 3. Set up environment variable handling
	v.SetEnvPrefix("HUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Read the configuration file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		logger.Warn("config file not found, relying on defaults and env vars", slog.String("file", fileName))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Server.ConnectionLimit.Mode {
	case LimitModeReject, LimitModeCycle:
	default:
		return fmt.Errorf("server.connectionLimit.mode: unknown mode %q", c.Server.ConnectionLimit.Mode)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver)
	}
	if c.Transport.SendQueueSize <= 0 {
		return fmt.Errorf("transport.sendQueueSize must be positive")
	}
	return nil
}
