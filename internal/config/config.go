// Package config loads regdash settings from an optional YAML file, a .env
// file and the process environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/regdash/regdash/pkg/logger"
)

const (
	DefaultPort          = 3000
	DefaultRegistryHost  = "localhost:5000"
	DefaultDockerBinary  = "docker"
	DefaultStageTimeout  = 10 * time.Minute
	DefaultPushRateLimit = 2.0
	DefaultLogLevel      = "info"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Registry RegistryConfig `yaml:"registry"`
	Docker   DockerConfig   `yaml:"docker"`
	Push     PushConfig     `yaml:"push"`
	UI       UIConfig       `yaml:"ui"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type RegistryConfig struct {
	// Host is the address used in destination references, e.g. localhost:5000.
	Host string `yaml:"host"`
	// URL is the base URL of the registry HTTP API.
	URL string `yaml:"url"`
}

type DockerConfig struct {
	Binary string `yaml:"binary"`
}

type PushConfig struct {
	StageTimeout time.Duration `yaml:"stage_timeout"`
	RateLimit    float64       `yaml:"rate_limit"`
}

type UIConfig struct {
	Dir string `yaml:"dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTP:     HTTPConfig{Port: DefaultPort},
		Registry: RegistryConfig{Host: DefaultRegistryHost},
		Docker:   DockerConfig{Binary: DefaultDockerBinary},
		Push: PushConfig{
			StageTimeout: DefaultStageTimeout,
			RateLimit:    DefaultPushRateLimit,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads the YAML file at path (skipped when empty or missing), then
// .env from the working directory, then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.finalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("config file not found, using defaults", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading configuration file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("error unmarshalling configuration file: %w", err)
	}
	logger.Info("Loaded configuration file", "path", path)
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookup("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.HTTP.Port = port
	}
	if v, ok := lookup("REGISTRY_HOST"); ok {
		c.Registry.Host = v
	}
	if v, ok := lookup("REGISTRY_URL"); ok {
		c.Registry.URL = v
	}
	if v, ok := lookup("DOCKER_BIN"); ok {
		c.Docker.Binary = v
	}
	if v, ok := lookup("STAGE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid STAGE_TIMEOUT %q: %w", v, err)
		}
		c.Push.StageTimeout = d
	}
	if v, ok := lookup("PUSH_RATE_LIMIT"); ok {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid PUSH_RATE_LIMIT %q: %w", v, err)
		}
		c.Push.RateLimit = r
	}
	if v, ok := lookup("UI_DIR"); ok {
		c.UI.Dir = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	return nil
}

// finalize fills values derived from other settings.
func (c *Config) finalize() {
	c.Registry.Host = strings.TrimSuffix(c.Registry.Host, "/")
	if c.Registry.URL == "" {
		c.Registry.URL = "http://" + c.Registry.Host
	}
	c.Registry.URL = strings.TrimSuffix(c.Registry.URL, "/")
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Registry.Host == "" {
		return fmt.Errorf("registry.host is required")
	}
	if strings.Contains(c.Registry.Host, "://") {
		return fmt.Errorf("registry.host should be host[:port] without a scheme (e.g. 'localhost:5000')")
	}
	u, err := url.Parse(c.Registry.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("registry.url must be an absolute http(s) URL, got %q", c.Registry.URL)
	}
	if c.Docker.Binary == "" {
		return fmt.Errorf("docker.binary is required")
	}
	if c.Push.StageTimeout <= 0 {
		return fmt.Errorf("push.stage_timeout must be positive")
	}
	if c.Push.RateLimit < 0 {
		return fmt.Errorf("push.rate_limit must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.HTTP.Port)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	logger.Info("Environment override", "key", key, "value", v)
	return v, true
}
