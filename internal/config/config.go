// Package config loads runtime settings from environment variables, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings for the shared-bucket server.
type Config struct {
	AppName string
	Server  ServerConfig
	Etcd    EtcdConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	Limits  LimitsConfig
}

type ServerConfig struct {
	Host            string
	Port            string
	AdvertiseAddr   string // address published to the registry; defaults to host:port
	ShutdownTimeout time.Duration
}

type EtcdConfig struct {
	Enabled   bool
	Endpoints []string
}

type RedisConfig struct {
	URL string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type LimitsConfig struct {
	RequestTimeout time.Duration
	RatePerSecond  float64
	RateBurst      int
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults so the server can boot with nothing set.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName: getString("APP_NAME", "sharedbucketd"),
		Server: ServerConfig{
			Host:            getString("SERVER_HOST", "0.0.0.0"),
			Port:            getString("SERVER_PORT", "7468"),
			AdvertiseAddr:   os.Getenv("SERVER_ADVERTISE_ADDR"),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Etcd: EtcdConfig{
			Enabled:   getBool("ETCD_ENABLED", false),
			Endpoints: strings.Split(getString("ETCD_ENDPOINTS", "localhost:2379"), ","),
		},
		Redis: RedisConfig{
			URL: getString("REDIS_URL", "redis://localhost:6379"),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Limits: LimitsConfig{
			RequestTimeout: getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			RatePerSecond:  getFloat("RATE_LIMIT_PER_SECOND", 0),
			RateBurst:      getInt("RATE_LIMIT_BURST", 0),
		},
	}

	if cfg.Server.AdvertiseAddr == "" {
		cfg.Server.AdvertiseAddr = cfg.Address()
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Address returns the TCP listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
