// Package config provides configuration management for the pitwall application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "PITWALL"
	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for every field.
// A missing file is not an error.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// ReloadFromEnv reloads the configuration when PITWALL_CONFIG_PATH is set
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv(envPrefix + "_CONFIG_PATH"); envPath != "" {
		newCfg, err := LoadWithDefaults(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pitwall")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("simulation.reliability_factor", 0.95)
	v.SetDefault("simulation.weather_factor", 1.0)
	v.SetDefault("simulation.random_incidents", true)
	v.SetDefault("simulation.runs", 100)
	v.SetDefault("simulation.workers", 0)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.mode", "lap")
	v.SetDefault("simulation.lap_delay", "800ms")
	v.SetDefault("simulation.pause_every", 10)

	v.SetDefault("simulation.tuning.base_lap_time_seconds", 90.0)
	v.SetDefault("simulation.tuning.qualifying_variance", 0.015)
	v.SetDefault("simulation.tuning.race_variance", 0.03)
	v.SetDefault("simulation.tuning.lap_variance_scale", 0.01)
	v.SetDefault("simulation.tuning.lap_time_spread", 0.15)
	v.SetDefault("simulation.tuning.race_time_spread", 0.20)
	v.SetDefault("simulation.tuning.overtake_factor", 2.5)
	v.SetDefault("simulation.tuning.warmup_laps", 5)
	v.SetDefault("simulation.tuning.racing_incident_rate", 0.0005)
	v.SetDefault("simulation.tuning.wet_incident_multiplier", 3.0)
	v.SetDefault("simulation.tuning.wet_incident_threshold", 0.8)
	v.SetDefault("simulation.tuning.failure_basis", "per_lap")
	v.SetDefault("simulation.tuning.points", []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1})
	v.SetDefault("simulation.tuning.fastest_lap_bonus", 1)
	v.SetDefault("simulation.tuning.fastest_lap_cutoff", 10)

	v.SetDefault("data_source.base_url", "https://ergast.com/api/f1")
	v.SetDefault("data_source.data_dir", "./data")
	v.SetDefault("data_source.current_season", 2025)
	v.SetDefault("data_source.timeout_seconds", 30)
	v.SetDefault("data_source.retry_attempts", 3)
	v.SetDefault("data_source.rate_limit", 4.0)
	v.SetDefault("data_source.cache_ttl", "1h")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "pitwall")
	v.SetDefault("database.user", "pitwall")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)
	v.SetDefault("database.migrations_table", "schema_migrations")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "5m")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_runs", 10000)

	v.SetDefault("schedule.enabled", false)
	v.SetDefault("schedule.refresh_cron", "0 6 * * 1")
	v.SetDefault("schedule.refresh_seasons", 1)
}
