package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Server    ServerConfig    `mapstructure:"server"`
	Session   SessionConfig   `mapstructure:"session"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Profiles  ProfilesConfig  `mapstructure:"profiles"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type SessionConfig struct {
	TTL               time.Duration `mapstructure:"ttl"`
	MaxRenderAttempts int           `mapstructure:"max_render_attempts"`
}

type DashboardConfig struct {
	Currency string `mapstructure:"currency"`
}

type ProfilesConfig struct {
	Path    string `mapstructure:"path"`
	Default string `mapstructure:"default"`
}

// TracingConfig enables OTLP/HTTP span export when Endpoint is set.
type TracingConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}

// LoadAppConfig reads the YAML file at path when given, then applies
// SALESPULSE_* environment overrides (e.g. SALESPULSE_SERVER_PORT).
func LoadAppConfig(path string) (AppConfig, error) {
	v := viper.New()

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.max_render_attempts", 3)
	v.SetDefault("dashboard.currency", "R$")
	v.SetDefault("profiles.path", "profiles.ini")
	v.SetDefault("profiles.default", "local")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.service_name", "salespulse")
	v.SetDefault("tracing.insecure", true)

	v.SetEnvPrefix("SALESPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c AppConfig
	if err := v.Unmarshal(&c); err != nil {
		return AppConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
