package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/broadcast-response/internal/models"
	"github.com/miradorstack/broadcast-response/internal/policy"
	"github.com/miradorstack/broadcast-response/internal/utils"
)

// Config captures the settings required to boot the response engine.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Policy  PolicyConfig  `yaml:"policy"`
	Tracker TrackerConfig `yaml:"tracker"`
	Auth    AuthConfig    `yaml:"auth"`
}

// ServerConfig controls gRPC listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// PolicyConfig holds the startup attribution policy. OverridesPath optionally names a
// flag file that is watched and re-applied on change.
type PolicyConfig struct {
	WindowDuration      time.Duration          `yaml:"windowDuration"`
	ForegroundThreshold models.ImportanceClass `yaml:"foregroundThreshold"`
	OverridesPath       string                 `yaml:"overridesPath"`
}

// TrackerConfig controls the window tracker. A zero SweepInterval relies on lazy eviction only.
type TrackerConfig struct {
	SweepInterval time.Duration `yaml:"sweepInterval"`
}

// AuthConfig controls caller checks at the RPC boundary.
type AuthConfig struct {
	Enforce           bool     `yaml:"enforce"`
	PrivilegedCallers []string `yaml:"privilegedCallers"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("BROADCAST_RESPONSE_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.StartupPolicy().Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// StartupPolicy returns the policy described by the config file and environment.
func (c *Config) StartupPolicy() policy.Policy {
	return policy.Policy{
		WindowDuration:      c.Policy.WindowDuration,
		ForegroundThreshold: c.Policy.ForegroundThreshold,
	}
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":50061",
			MetricsAddress:  ":2113",
			GracefulTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Policy: PolicyConfig{
			WindowDuration:      policy.DefaultWindowDuration,
			ForegroundThreshold: policy.DefaultForegroundThreshold,
		},
		Auth: AuthConfig{
			Enforce:           true,
			PrivilegedCallers: []string{"com.android.shell", "android"},
		},
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("BROADCAST_RESPONSE_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("BROADCAST_RESPONSE_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("BROADCAST_RESPONSE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BROADCAST_RESPONSE_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("BROADCAST_RESPONSE_WINDOW_DURATION"); v != "" {
		d, err := utils.ParseMillisOrDuration(v)
		if err != nil {
			return utils.NewFieldError("config", "BROADCAST_RESPONSE_WINDOW_DURATION", "invalid duration", err)
		}
		cfg.Policy.WindowDuration = d
	}
	if v := os.Getenv("BROADCAST_RESPONSE_FG_THRESHOLD"); v != "" {
		class, err := models.ParseImportanceClass(v)
		if err != nil {
			return utils.NewFieldError("config", "BROADCAST_RESPONSE_FG_THRESHOLD", "invalid importance class", err)
		}
		cfg.Policy.ForegroundThreshold = class
	}
	if v := os.Getenv("BROADCAST_RESPONSE_POLICY_OVERRIDES"); v != "" {
		cfg.Policy.OverridesPath = v
	}
	if v := os.Getenv("BROADCAST_RESPONSE_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Tracker.SweepInterval = d
		}
	}
	if v := os.Getenv("BROADCAST_RESPONSE_AUTH_ENFORCE"); v != "" {
		cfg.Auth.Enforce = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("BROADCAST_RESPONSE_PRIVILEGED_CALLERS"); v != "" {
		cfg.Auth.PrivilegedCallers = strings.Split(v, ",")
	}
	return nil
}
