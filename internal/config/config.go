// Package config provides configuration management for the pitwall application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	DataSource DataSourceConfig `mapstructure:"data_source" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Server     ServerConfig     `mapstructure:"server"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// SimulationConfig holds default race parameters and Monte Carlo settings
type SimulationConfig struct {
	ReliabilityFactor float64       `mapstructure:"reliability_factor" validate:"gt=0"`
	WeatherFactor     float64       `mapstructure:"weather_factor" validate:"gt=0"`
	RandomIncidents   bool          `mapstructure:"random_incidents"`
	Runs              int           `mapstructure:"runs" validate:"gte=1,lte=1000000"`
	Workers           int           `mapstructure:"workers" validate:"gte=0"`
	Seed              int64         `mapstructure:"seed"`
	Mode              string        `mapstructure:"mode" validate:"required,simmode"`
	LapDelay          time.Duration `mapstructure:"lap_delay" validate:"gte=0"`
	PauseEvery        int           `mapstructure:"pause_every" validate:"gte=0"`
	Tuning            TuningConfig  `mapstructure:"tuning"`
}

// TuningConfig exposes the model constants
type TuningConfig struct {
	BaseLapTimeSeconds    float64 `mapstructure:"base_lap_time_seconds" validate:"gt=0"`
	QualifyingVariance    float64 `mapstructure:"qualifying_variance" validate:"gte=0"`
	RaceVariance          float64 `mapstructure:"race_variance" validate:"gte=0"`
	LapVarianceScale      float64 `mapstructure:"lap_variance_scale" validate:"gte=0"`
	LapTimeSpread         float64 `mapstructure:"lap_time_spread" validate:"gte=0"`
	RaceTimeSpread        float64 `mapstructure:"race_time_spread" validate:"gte=0"`
	OvertakeFactor        float64 `mapstructure:"overtake_factor" validate:"gte=0"`
	WarmupLaps            int     `mapstructure:"warmup_laps" validate:"gte=0"`
	RacingIncidentRate    float64 `mapstructure:"racing_incident_rate" validate:"gte=0,lte=1"`
	WetIncidentMultiplier float64 `mapstructure:"wet_incident_multiplier" validate:"gte=0"`
	WetIncidentThreshold  float64 `mapstructure:"wet_incident_threshold" validate:"gte=0"`
	FailureBasis          string  `mapstructure:"failure_basis" validate:"required,failurebasis"`
	Points                []int   `mapstructure:"points" validate:"required,dive,gte=0"`
	FastestLapBonus       int     `mapstructure:"fastest_lap_bonus" validate:"gte=0"`
	FastestLapCutoff      int     `mapstructure:"fastest_lap_cutoff" validate:"gte=0"`
}

// DataSourceConfig configures historical data retrieval and storage
type DataSourceConfig struct {
	BaseURL        string        `mapstructure:"base_url" validate:"required,url"`
	DataDir        string        `mapstructure:"data_dir" validate:"required"`
	CurrentSeason  int           `mapstructure:"current_season" validate:"gte=1950"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds" validate:"gt=0"`
	RetryAttempts  int           `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimit      float64       `mapstructure:"rate_limit" validate:"gt=0"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"gte=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"gte=0"`
	MigrationsTable    string `mapstructure:"migrations_table"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
	MaxRuns         int           `mapstructure:"max_runs" validate:"gte=0"`
}

// ScheduleConfig configures periodic data refresh
type ScheduleConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	RefreshCron    string `mapstructure:"refresh_cron"`
	RefreshSeasons int    `mapstructure:"refresh_seasons" validate:"gte=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// RequestTimeout returns the data source HTTP timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}
