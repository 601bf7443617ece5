package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/battery-health/internal/detectors"
)

// Config captures the settings required to boot the battery health service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Detection DetectionConfig `yaml:"detection"`
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

// DetectionConfig holds detector sensitivity and execution mode.
type DetectionConfig struct {
	VoltageImbalanceThreshold float64 `yaml:"voltageImbalanceThreshold"`
	OverheatingThreshold      float64 `yaml:"overheatingThreshold"`
	CriticalTempThreshold     float64 `yaml:"criticalTempThreshold"`
	CapacityFadeThreshold     float64 `yaml:"capacityFadeThreshold"`
	Parallel                  bool    `yaml:"parallel"`
}

// Thresholds converts the detection section into detector thresholds.
func (d DetectionConfig) Thresholds() detectors.Thresholds {
	return detectors.Thresholds{
		VoltageImbalance: d.VoltageImbalanceThreshold,
		Overheating:      d.OverheatingThreshold,
		CriticalTemp:     d.CriticalTempThreshold,
		CapacityFade:     d.CapacityFadeThreshold,
	}
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("BATTERY_HEALTH_CONFIG")
	}

	cfg := Default()

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

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	thresholds := detectors.DefaultThresholds()
	return Config{
		Server: ServerConfig{
			Address:         ":50061",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Detection: DetectionConfig{
			VoltageImbalanceThreshold: thresholds.VoltageImbalance,
			OverheatingThreshold:      thresholds.Overheating,
			CriticalTempThreshold:     thresholds.CriticalTemp,
			CapacityFadeThreshold:     thresholds.CapacityFade,
			Parallel:                  true,
		},
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if err := c.Detection.Thresholds().Validate(); err != nil {
		return fmt.Errorf("detection: %w", err)
	}
	if c.Server.GracefulTimeout < 0 {
		return fmt.Errorf("server: graceful timeout must not be negative")
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BATTERY_HEALTH_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("BATTERY_HEALTH_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("BATTERY_HEALTH_GRACEFUL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.GracefulTimeout = d
		}
	}
	if v := os.Getenv("BATTERY_HEALTH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BATTERY_HEALTH_LOG_FORMAT"); v != "" {
		cfg.Logging.JSON = strings.EqualFold(v, "json")
	}
	overrideFloat("BATTERY_HEALTH_VOLTAGE_IMBALANCE_THRESHOLD", &cfg.Detection.VoltageImbalanceThreshold)
	overrideFloat("BATTERY_HEALTH_OVERHEATING_THRESHOLD", &cfg.Detection.OverheatingThreshold)
	overrideFloat("BATTERY_HEALTH_CRITICAL_TEMP_THRESHOLD", &cfg.Detection.CriticalTempThreshold)
	overrideFloat("BATTERY_HEALTH_CAPACITY_FADE_THRESHOLD", &cfg.Detection.CapacityFadeThreshold)
	if v := os.Getenv("BATTERY_HEALTH_PARALLEL_DETECTORS"); v != "" {
		cfg.Detection.Parallel = strings.EqualFold(v, "true") || v == "1"
	}
}

func overrideFloat(key string, target *float64) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		*target = f
	}
}
