package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Source      SourceConfig    `toml:"source"`
	Period      PeriodConfig    `toml:"period"`
	Dashboard   DashboardConfig `toml:"dashboard"`
	Refresh     RefreshConfig   `toml:"refresh"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	WebSocket   WebSocketConfig `toml:"websocket"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gte=1,lte=65535"`
	Host string `toml:"host"`
}

// SourceConfig describes where the policy CSV lives and how to decode it
type SourceConfig struct {
	Path      string `toml:"path" validate:"required"`
	Encoding  string `toml:"encoding" validate:"oneof=utf-8 windows-1252"` // Windows-1252 exports come from Excel on Windows
	Delimiter string `toml:"delimiter" validate:"len=1"`
}

// PeriodConfig bounds the calendar years the period resolver accepts
type PeriodConfig struct {
	MinYear int `toml:"min_year" validate:"gte=1900"`
	MaxYear int `toml:"max_year" validate:"gtefield=MinYear"`
}

// DashboardConfig holds defaults for API requests
type DashboardConfig struct {
	DefaultTop int `toml:"default_top" validate:"gte=0"`  // Default top-N for dimension summaries (0 = all)
	MaxRecords int `toml:"max_records" validate:"gte=1"` // Hard cap on records returned by the filtered data endpoint
}

// RefreshConfig controls the optional background cache warm-up
type RefreshConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule format (5 fields)
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`                       // Database directory path
	InMemory       bool   `toml:"in_memory"`                  // Keep ingest history in memory only
	ResetOnStartup bool   `toml:"reset_on_startup"`           // Delete database on startup
	KeepRuns       int    `toml:"keep_runs" validate:"gte=1"` // Ingest runs kept after pruning
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=debug info warn error"`
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// WebSocketConfig contains configuration for reload notifications
type WebSocketConfig struct {
	Throttle string `toml:"throttle"` // Minimum interval between broadcasts, e.g. "1s"
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Source: SourceConfig{
			Path:      "./data/policies.csv",
			Encoding:  "utf-8",
			Delimiter: ",",
		},
		Period: PeriodConfig{
			MinYear: 2019,
			MaxYear: 2021,
		},
		Dashboard: DashboardConfig{
			DefaultTop: 10,
			MaxRecords: 5000,
		},
		Refresh: RefreshConfig{
			Enabled:  false,
			Schedule: "*/15 * * * *",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:     "./data/badger",
				KeepRuns: 100,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		WebSocket: WebSocketConfig{
			Throttle: "1s",
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> env.
// Later files override earlier files. CLI flags are applied by the caller via ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TREATYVIEW_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("TREATYVIEW_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TREATYVIEW_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Source configuration
	if path := os.Getenv("TREATYVIEW_SOURCE_PATH"); path != "" {
		config.Source.Path = path
	}
	if encoding := os.Getenv("TREATYVIEW_SOURCE_ENCODING"); encoding != "" {
		config.Source.Encoding = strings.ToLower(encoding)
	}

	// Period configuration
	if minYear := os.Getenv("TREATYVIEW_PERIOD_MIN_YEAR"); minYear != "" {
		if y, err := strconv.Atoi(minYear); err == nil {
			config.Period.MinYear = y
		}
	}
	if maxYear := os.Getenv("TREATYVIEW_PERIOD_MAX_YEAR"); maxYear != "" {
		if y, err := strconv.Atoi(maxYear); err == nil {
			config.Period.MaxYear = y
		}
	}

	// Refresh configuration
	if enabled := os.Getenv("TREATYVIEW_REFRESH_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Refresh.Enabled = e
		}
	}
	if schedule := os.Getenv("TREATYVIEW_REFRESH_SCHEDULE"); schedule != "" {
		config.Refresh.Schedule = schedule
	}

	// Storage configuration
	if badgerPath := os.Getenv("TREATYVIEW_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("TREATYVIEW_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("TREATYVIEW_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if throttle := os.Getenv("TREATYVIEW_WEBSOCKET_THROTTLE"); throttle != "" {
		if _, err := time.ParseDuration(throttle); err == nil {
			config.WebSocket.Throttle = throttle
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string, sourcePath string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if sourcePath != "" {
		config.Source.Path = sourcePath
	}
}

// Validate checks the configuration using struct tags plus the cron schedule
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Refresh.Enabled {
		if err := ValidateSchedule(c.Refresh.Schedule); err != nil {
			return fmt.Errorf("invalid refresh schedule: %w", err)
		}
	}

	if c.WebSocket.Throttle != "" {
		if _, err := time.ParseDuration(c.WebSocket.Throttle); err != nil {
			return fmt.Errorf("invalid websocket throttle %q: %w", c.WebSocket.Throttle, err)
		}
	}

	return nil
}

// ValidateSchedule validates a cron schedule expression and ensures minimum 5-minute interval
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	parts := strings.Fields(schedule)
	if len(parts) < 5 {
		return fmt.Errorf("invalid cron format: expected 5 fields")
	}

	minuteField := parts[0]
	if minuteField == "*" {
		return fmt.Errorf("schedule must have minimum 5-minute interval (every minute is not allowed)")
	}

	if strings.HasPrefix(minuteField, "*/") {
		interval, err := strconv.Atoi(strings.TrimPrefix(minuteField, "*/"))
		if err == nil && interval < 5 {
			return fmt.Errorf("schedule interval must be at least 5 minutes, got %d", interval)
		}
	}

	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// DelimiterRune returns the configured CSV delimiter as a rune
func (c *SourceConfig) DelimiterRune() rune {
	if c.Delimiter == "" {
		return ','
	}
	return []rune(c.Delimiter)[0]
}

// ThrottleInterval returns the parsed websocket throttle, or 0 when disabled
func (c *WebSocketConfig) ThrottleInterval() time.Duration {
	if c.Throttle == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Throttle)
	if err != nil {
		return 0
	}
	return d
}
