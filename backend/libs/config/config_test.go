package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	HTTP struct {
		Port string `yaml:"port" env:"TEST_HTTP_PORT"`
	} `yaml:"http"`
	Store struct {
		Backend string `yaml:"backend"`
		TTL     int    `yaml:"ttl"`
	} `yaml:"store"`
	Origins []string `yaml:"origins" env:"TEST_ORIGINS"`
	Debug   bool     `yaml:"debug" env:"TEST_DEBUG"`
}

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := "http:\n  port: \"9000\"\nstore:\n  backend: redis\n  ttl: 10\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DOTENV_FILE", "")
	t.Setenv("TEST_HTTP_PORT", "9100")
	t.Setenv("STORE_TTL", "42")
	t.Setenv("TEST_ORIGINS", "http://a.test, ,http://b.test")

	var cfg testConfig
	if err := LoadConfig(&cfg); err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Port != "9100" {
		t.Fatalf("expected env override for port, got %q", cfg.HTTP.Port)
	}
	if cfg.Store.Backend != "redis" {
		t.Fatalf("expected backend from yaml, got %q", cfg.Store.Backend)
	}
	if cfg.Store.TTL != 42 {
		t.Fatalf("expected derived env key STORE_TTL to apply, got %d", cfg.Store.TTL)
	}
	if len(cfg.Origins) != 2 || cfg.Origins[0] != "http://a.test" || cfg.Origins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", cfg.Origins)
	}
}

func TestLoadConfigDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("TEST_DEBUG=true\nTEST_HTTP_PORT=7000\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DOTENV_FILE", path)
	t.Setenv("TEST_HTTP_PORT", "7100")
	t.Cleanup(func() { os.Unsetenv("TEST_DEBUG") })

	var cfg testConfig
	if err := LoadConfig(&cfg); err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.Debug {
		t.Fatalf("expected TEST_DEBUG from dotenv file")
	}
	if cfg.HTTP.Port != "7100" {
		t.Fatalf("expected real environment to win over dotenv, got %q", cfg.HTTP.Port)
	}
}

func TestLoadConfigRejectsNonPointer(t *testing.T) {
	if err := LoadConfig(testConfig{}); err == nil {
		t.Fatalf("expected error for non-pointer target")
	}
	if err := LoadConfig(nil); err == nil {
		t.Fatalf("expected error for nil target")
	}
}

func TestLoadConfigInvalidValue(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DOTENV_FILE", "")
	t.Setenv("TEST_DEBUG", "maybe")

	var cfg testConfig
	if err := LoadConfig(&cfg); err == nil {
		t.Fatalf("expected parse error for TEST_DEBUG")
	}
}
