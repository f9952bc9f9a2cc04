package internal

import (
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/presetgen/internal/console"
)

// Fixed locations, relative to the working directory.
const (
	PresetsRoot = "./presets"
	OutputFile  = "presets.xml"
)

// Log levels accepted in the configuration.
const (
	LogLevelTrace = "trace"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Config represents the application configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Watch  WatchConfig  `yaml:"watch"`
	Report ReportConfig `yaml:"report"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Watch.Validate(); err != nil {
		return err
	}
	return c.Report.Validate()
}

// LogConfig controls console output.
type LogConfig struct {
	Level string `yaml:"level"`
	Color string `yaml:"color"`
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.Required, validation.In(LogLevelTrace, LogLevelWarn, LogLevelError)),
		validation.Field(&c.Color, validation.Required, validation.In(console.ColorAuto, console.ColorAlways, console.ColorNever)),
	)
}

// SlogLevel returns the configured minimum level.
func (c *LogConfig) SlogLevel() slog.Level {
	return console.ParseLevel(c.Level)
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(10*time.Millisecond)),
	)
}

// ReportConfig holds the run ledger location.
//
// An empty Path disables the ledger.
type ReportConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the report configuration.
func (c *ReportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.NotIn(PresetsRoot, OutputFile).Error("must not overwrite the preset tree or output")),
	)
}

// Enabled reports whether runs are recorded.
func (c *ReportConfig) Enabled() bool {
	return c.Path != ""
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: LogLevelTrace,
			Color: console.ColorAuto,
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
	}
}
