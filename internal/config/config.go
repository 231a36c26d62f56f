package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the main application configuration structure
// containing all configuration sections
type Config struct {
	Logging LoggingConfig `toml:"logging"` // Application logging settings
	Chart   ChartConfig   `toml:"chart"`   // Chart image settings
	Export  ExportConfig  `toml:"export"`  // Additional report formats
	Storage StorageConfig `toml:"storage"` // Report history settings
	Server  ServerConfig  `toml:"server"`  // HTTP serve mode settings
}

// LoggingConfig contains application logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`  // Log level: "debug", "info", "warn", or "error"
	Format string `toml:"format"` // Log format: "json" (structured) or "console" (human-readable)
}

// ChartConfig controls the rendered figure
type ChartConfig struct {
	WidthInches  float64 `toml:"width_inches"`  // Figure width in inches
	HeightInches float64 `toml:"height_inches"` // Figure height in inches
	DPI          int     `toml:"dpi"`           // Raster resolution in dots per inch
	LineWidth    float64 `toml:"line_width"`    // Data line width in points
	GridAlpha    float64 `toml:"grid_alpha"`    // Grid line opacity (0.0-1.0)
}

// ExportConfig enables optional report formats written next to the chart
type ExportConfig struct {
	PDF  bool `toml:"pdf"`  // Write <stem>.pdf with summary and chart
	XLSX bool `toml:"xlsx"` // Write <stem>.xlsx with telemetry and summary sheets
}

// StorageConfig contains report history configuration
type StorageConfig struct {
	Enabled    bool   `toml:"enabled"`     // Record every generated report
	SQLitePath string `toml:"sqlite_path"` // Path of the SQLite history database
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Host             string `toml:"host"`                  // Host address to bind to
	Port             int    `toml:"port"`                  // HTTP port
	DataDir          string `toml:"data_dir"`              // Directory holding flight log CSV files
	ReadTimeoutSecs  int    `toml:"read_timeout_seconds"`  // Maximum duration for reading the entire request
	WriteTimeoutSecs int    `toml:"write_timeout_seconds"` // Maximum duration for writing the response
	IdleTimeoutSecs  int    `toml:"idle_timeout_seconds"`  // Keep-alive idle timeout
}

// Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Chart: ChartConfig{
			WidthInches:  16,
			HeightInches: 12,
			DPI:          100,
			LineWidth:    2,
			GridAlpha:    0.3,
		},
		Storage: StorageConfig{
			SQLitePath: "data/flightstats.db",
		},
		Server: ServerConfig{
			Host:             "127.0.0.1",
			Port:             8080,
			DataDir:          ".",
			ReadTimeoutSecs:  15,
			WriteTimeoutSecs: 60,
			IdleTimeoutSecs:  60,
		},
	}
}

// Load loads the configuration from the specified file path.
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	config := Default()

	// Check if the file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Read the config file
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return config, nil
}

// LoadWithFallback loads the configuration by checking multiple locations in order of preference.
// An explicitly requested file must exist; otherwise defaults are used when
// none of the standard locations holds a config file.
func LoadWithFallback(preferredPath string) (*Config, error) {
	if preferredPath != "" {
		return Load(preferredPath)
	}

	searchPaths := []string{
		"configs/flightstats.toml",
		"flightstats.toml",
	}

	for _, path := range searchPaths {
		_, err := os.Stat(path)
		if err == nil {
			config, err := Load(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
			return config, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	return Default(), nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid log level
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
		// Valid log format
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if err := c.ValidateChart(); err != nil {
		return err
	}

	// Validate storage config
	if c.Storage.Enabled && c.Storage.SQLitePath == "" {
		return fmt.Errorf("sqlite_path is required when storage is enabled")
	}

	return c.ValidateServer()
}

// ValidateChart validates the chart configuration
func (c *Config) ValidateChart() error {
	if c.Chart.WidthInches <= 0 || c.Chart.HeightInches <= 0 {
		return fmt.Errorf("invalid chart size: %gx%g inches", c.Chart.WidthInches, c.Chart.HeightInches)
	}
	if c.Chart.DPI <= 0 || c.Chart.DPI > 1200 {
		return fmt.Errorf("invalid chart dpi: %d (must be between 1 and 1200)", c.Chart.DPI)
	}
	if c.Chart.LineWidth <= 0 {
		return fmt.Errorf("invalid chart line width: %g", c.Chart.LineWidth)
	}
	if c.Chart.GridAlpha < 0 || c.Chart.GridAlpha > 1 {
		return fmt.Errorf("invalid chart grid alpha: %g (must be 0.0-1.0)", c.Chart.GridAlpha)
	}
	return nil
}

// ValidateServer validates the serve mode configuration
func (c *Config) ValidateServer() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.DataDir == "" {
		c.Server.DataDir = "."
	}
	if c.Server.ReadTimeoutSecs < 0 || c.Server.WriteTimeoutSecs < 0 || c.Server.IdleTimeoutSecs < 0 {
		return fmt.Errorf("server timeouts must be >= 0")
	}
	return nil
}
