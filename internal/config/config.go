package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"ARCADE_PORT"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr" env:"ARCADE_REDIS_ADDR"`
		Password string `yaml:"password" env:"ARCADE_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"ARCADE_REDIS_DB"`
		TTL      string `yaml:"ttl" env:"ARCADE_REDIS_TTL"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"ARCADE_POSTGRES_URL"`
	} `yaml:"postgres"`
	Storage struct {
		Driver     string `yaml:"driver" env:"ARCADE_STORAGE_DRIVER"` // memory, redis or sqlite
		SQLitePath string `yaml:"sqlite_path" env:"ARCADE_SQLITE_PATH"`
	} `yaml:"storage"`
	Quiz struct {
		TTL string `yaml:"ttl" env:"ARCADE_CATALOG_TTL"`
	} `yaml:"quiz"`
	Game struct {
		SampleSize   int    `yaml:"sample_size" env:"ARCADE_SAMPLE_SIZE"`
		Countdown    int    `yaml:"countdown" env:"ARCADE_COUNTDOWN"`
		TickInterval string `yaml:"tick_interval" env:"ARCADE_TICK_INTERVAL"`
	} `yaml:"game"`
	Forum struct {
		FlushDelay string `yaml:"flush_delay" env:"ARCADE_FORUM_FLUSH_DELAY"`
	} `yaml:"forum"`
	Auth struct {
		Secret   string `yaml:"secret" env:"ARCADE_AUTH_SECRET"`
		TokenTTL string `yaml:"token_ttl" env:"ARCADE_AUTH_TOKEN_TTL"`
	} `yaml:"auth"`
}

// Load reads YAML config from path, then applies ARCADE_* environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
