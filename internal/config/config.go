package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the service configuration. Values load from a TOML file;
// cmd/main.go layers env-var overrides on top for deployment.
type Config struct {
	Upstream UpstreamConfig `toml:"upstream"`
	Server   ServerConfig   `toml:"server"`
	Redis    RedisConfig    `toml:"redis"`
	Jobs     JobsConfig     `toml:"jobs"`
}

// UpstreamConfig points at the inventory REST backend.
type UpstreamConfig struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type ServerConfig struct {
	Port      int    `toml:"port"`
	JWTSecret string `toml:"jwt_secret"`
}

// RedisConfig backs the idempotency-key store. An empty Addr selects the
// in-memory store instead.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type JobsConfig struct {
	RefreshIntervalMinutes int `toml:"refresh_interval_minutes"`
	IdempotencyTTLSeconds  int `toml:"idempotency_ttl_seconds"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Upstream: UpstreamConfig{TimeoutSeconds: 10},
		Server:   ServerConfig{Port: 8080},
		Jobs:     JobsConfig{RefreshIntervalMinutes: 15, IdempotencyTTLSeconds: 60},
	}
}

// Load reads configuration from a TOML file, filling unset fields with
// defaults.
func Load(filename string) (*Config, error) {
	config := Default()
	if _, err := toml.DecodeFile(filename, config); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return config, nil
}
