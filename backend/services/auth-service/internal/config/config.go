package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "fueltracker/backend/libs/config"
)

// Config represents service configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"AUTH_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"AUTH_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"AUTH_REDIS_ADDR"`
		Password string `yaml:"password" env:"AUTH_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"AUTH_REDIS_DB"`
	} `yaml:"redis"`
	JWT struct {
		Secret           string `yaml:"secret" env:"AUTH_JWT_SECRET"`
		ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"AUTH_JWT_EXPIRES_MINUTES"`
	} `yaml:"jwt"`
	Session struct {
		TTLSeconds   int  `yaml:"ttlSeconds" env:"AUTH_SESSION_TTL_SECONDS"`
		CookieSecure bool `yaml:"cookieSecure" env:"AUTH_COOKIE_SECURE"`
	} `yaml:"session"`
	Password struct {
		BcryptCost int `yaml:"bcryptCost" env:"AUTH_BCRYPT_COST"`
	} `yaml:"password"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8082"
	cfg.Redis.Addr = "localhost:6379"
	cfg.JWT.ExpiresInMinutes = 24 * 60
	cfg.Session.TTLSeconds = 24 * 60 * 60

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case strings.TrimSpace(c.Database.DSN) == "":
		return errors.New("config: database DSN is required")
	case strings.TrimSpace(c.JWT.Secret) == "":
		return errors.New("config: jwt secret is required")
	case strings.TrimSpace(c.Redis.Addr) == "":
		return errors.New("config: redis addr is required")
	}
	if c.JWT.ExpiresInMinutes <= 0 {
		c.JWT.ExpiresInMinutes = 24 * 60
	}
	if c.Session.TTLSeconds <= 0 {
		c.Session.TTLSeconds = 24 * 60 * 60
	}
	return nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8082"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}

// SessionTTL is the lifetime of both the redis session and its cookie.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLSeconds) * time.Second
}
