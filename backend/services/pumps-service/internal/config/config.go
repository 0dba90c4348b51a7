package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "fueltracker/backend/libs/config"
	"fueltracker/backend/libs/kvstore"
)

// Config defines pumps service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"PUMPS_HTTP_PORT"`
	} `yaml:"http"`
	Store struct {
		Backend string `yaml:"backend" env:"PUMPS_STORE_BACKEND"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr" env:"PUMPS_REDIS_ADDR"`
		Password string `yaml:"password" env:"PUMPS_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"PUMPS_REDIS_DB"`
	} `yaml:"redis"`
	Database struct {
		DSN string `yaml:"dsn" env:"PUMPS_POSTGRES_DSN"`
	} `yaml:"database"`
	JWT struct {
		Secret string `yaml:"secret" env:"PUMPS_JWT_SECRET"`
	} `yaml:"jwt"`
	WebSocket struct {
		PingIntervalSeconds int `yaml:"pingIntervalSeconds" env:"PUMPS_WS_PING_INTERVAL"`
		WriteTimeoutSeconds int `yaml:"writeTimeoutSeconds" env:"PUMPS_WS_WRITE_TIMEOUT"`
	} `yaml:"websocket"`
	Geocode struct {
		URL            string `yaml:"url" env:"PUMPS_GEOCODE_URL"`
		UserAgent      string `yaml:"userAgent" env:"PUMPS_GEOCODE_USER_AGENT"`
		TimeoutSeconds int    `yaml:"timeoutSeconds" env:"PUMPS_GEOCODE_TIMEOUT"`
	} `yaml:"geocode"`
	Map struct {
		CenterLat float64 `yaml:"centerLat" env:"PUMPS_MAP_CENTER_LAT"`
		CenterLng float64 `yaml:"centerLng" env:"PUMPS_MAP_CENTER_LNG"`
		Zoom      int     `yaml:"zoom" env:"PUMPS_MAP_ZOOM"`
	} `yaml:"map"`
}

// Load uses shared config loader and validates required fields.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8081"
	cfg.Store.Backend = kvstore.BackendRedis
	cfg.Redis.Addr = "localhost:6379"
	cfg.WebSocket.PingIntervalSeconds = 30
	cfg.WebSocket.WriteTimeoutSeconds = 10
	cfg.Geocode.UserAgent = "fueltracker/1.0"
	cfg.Geocode.TimeoutSeconds = 5
	cfg.Map.CenterLat = 10.8505
	cfg.Map.CenterLng = 76.2711
	cfg.Map.Zoom = 8

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	backend, err := kvstore.NormalizeBackend(c.Store.Backend)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Store.Backend = backend

	switch {
	case strings.TrimSpace(c.JWT.Secret) == "":
		return errors.New("config: jwt secret is required")
	case backend == kvstore.BackendPostgres && strings.TrimSpace(c.Database.DSN) == "":
		return errors.New("config: database DSN is required for the postgres store")
	case backend == kvstore.BackendRedis && strings.TrimSpace(c.Redis.Addr) == "":
		return errors.New("config: redis address is required for the redis store")
	case c.Map.CenterLat < -90 || c.Map.CenterLat > 90 || c.Map.CenterLng < -180 || c.Map.CenterLng > 180:
		return errors.New("config: map centre out of range")
	}
	return nil
}

// HTTPAddress returns :port style address.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8081"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// PingInterval returns websocket ping interval.
func (c *Config) PingInterval() time.Duration {
	return seconds(c.WebSocket.PingIntervalSeconds, 30)
}

// WriteTimeout returns websocket write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return seconds(c.WebSocket.WriteTimeoutSeconds, 10)
}

// GeocodeTimeout bounds reverse geocoding calls.
func (c *Config) GeocodeTimeout() time.Duration {
	return seconds(c.Geocode.TimeoutSeconds, 5)
}

func seconds(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}
