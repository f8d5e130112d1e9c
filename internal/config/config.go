// Package config loads the controller configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/moisture-controller/internal/gpio"
	"github.com/sweeney/moisture-controller/internal/logic"
	"github.com/sweeney/moisture-controller/internal/sensor"
)

// DefaultPath is where the daemon looks for its config file.
const DefaultPath = "/etc/moisture-controller.yaml"

// Config holds all configuration for the controller daemon
type Config struct {
	Calibration CalibrationConfig `yaml:"calibration"`
	Thresholds  ThresholdConfig   `yaml:"thresholds"`
	Timing      TimingConfig      `yaml:"timing"`
	Sampling    SamplingConfig    `yaml:"sampling"`
	Outputs     OutputConfig      `yaml:"outputs"`
	Sensor      SensorConfig      `yaml:"sensor"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CalibrationConfig holds the raw sensor values for dry and wet soil
type CalibrationConfig struct {
	DryRaw int `yaml:"dry_raw"`
	WetRaw int `yaml:"wet_raw"`
}

// ThresholdConfig holds the hysteresis percentages
type ThresholdConfig struct {
	DryPercent int `yaml:"dry_percent"`
	WetPercent int `yaml:"wet_percent"`
}

// TimingConfig holds the loop and hysteresis timers
type TimingConfig struct {
	SampleInterval time.Duration `yaml:"sample_interval"`
	MinRun         time.Duration `yaml:"min_run"`
	Cooldown       time.Duration `yaml:"cooldown"`
	PrimeDelay     time.Duration `yaml:"prime_delay"`
	Heartbeat      time.Duration `yaml:"heartbeat"`
}

// SamplingConfig holds the moving-average settings
type SamplingConfig struct {
	WindowSize int `yaml:"window_size"`
}

// OutputConfig holds the GPIO lines for the pump relay and LED
type OutputConfig struct {
	Chip      string `yaml:"chip"`
	PumpPin   int    `yaml:"pump_pin"`
	LEDPin    int    `yaml:"led_pin"`
	ActiveLow *bool  `yaml:"active_low"`
}

// SensorConfig holds the I2C ADC location
type SensorConfig struct {
	Bus     string `yaml:"bus"`
	Address uint16 `yaml:"address"`
	Channel byte   `yaml:"channel"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults; any other read or parse error is returned.
//
// The file is decoded over Default(), so keys left out keep their default
// and keys set explicitly, including zero values, are kept as written.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.OverrideFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults sets default values for any zero-valued fields. Load does not
// call it, since a zero there may be deliberate.
func (c *Config) ApplyDefaults() {
	if c.Calibration.DryRaw == 0 && c.Calibration.WetRaw == 0 {
		c.Calibration.DryRaw = 850
		c.Calibration.WetRaw = 420
	}
	if c.Thresholds.DryPercent == 0 && c.Thresholds.WetPercent == 0 {
		c.Thresholds.DryPercent = 35
		c.Thresholds.WetPercent = 55
	}
	if c.Timing.SampleInterval == 0 {
		c.Timing.SampleInterval = time.Second
	}
	if c.Timing.MinRun == 0 {
		c.Timing.MinRun = 5 * time.Second
	}
	if c.Timing.Cooldown == 0 {
		c.Timing.Cooldown = 30 * time.Second
	}
	if c.Timing.PrimeDelay == 0 {
		c.Timing.PrimeDelay = 10 * time.Millisecond
	}
	if c.Timing.Heartbeat == 0 {
		c.Timing.Heartbeat = 15 * time.Minute
	}
	if c.Sampling.WindowSize == 0 {
		c.Sampling.WindowSize = 10
	}
	if c.Outputs.Chip == "" {
		c.Outputs.Chip = gpio.DefaultChip
	}
	if c.Outputs.PumpPin == 0 {
		c.Outputs.PumpPin = gpio.DefaultPinPump
	}
	if c.Outputs.LEDPin == 0 {
		c.Outputs.LEDPin = gpio.DefaultPinLED
	}
	if c.Outputs.ActiveLow == nil {
		// Most hobby relay boards switch on a low input.
		activeLow := true
		c.Outputs.ActiveLow = &activeLow
	}
	if c.Sensor.Bus == "" {
		c.Sensor.Bus = sensor.DefaultBus
	}
	if c.Sensor.Address == 0 {
		c.Sensor.Address = sensor.DefaultAddress
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// OverrideFromEnv overrides config values from environment variables
func (c *Config) OverrideFromEnv() error {
	if v := os.Getenv("MOISTURE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MOISTURE_DRY_RAW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MOISTURE_DRY_RAW: %w", err)
		}
		c.Calibration.DryRaw = n
	}
	if v := os.Getenv("MOISTURE_WET_RAW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MOISTURE_WET_RAW: %w", err)
		}
		c.Calibration.WetRaw = n
	}
	if v := os.Getenv("MOISTURE_ACTIVE_LOW"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MOISTURE_ACTIVE_LOW: %w", err)
		}
		c.Outputs.ActiveLow = &b
	}
	return nil
}

// Validate checks if the configuration is valid.
// An inverted calibration is not rejected here; the controller reports it
// at runtime and keeps the pump from starting.
func (c *Config) Validate() error {
	t := c.Thresholds
	if t.DryPercent < 0 || t.DryPercent > 100 || t.WetPercent < 0 || t.WetPercent > 100 {
		return fmt.Errorf("thresholds must be within 0..100, got dry=%d wet=%d", t.DryPercent, t.WetPercent)
	}
	if t.DryPercent >= t.WetPercent {
		return fmt.Errorf("dry threshold (%d) must be below wet threshold (%d)", t.DryPercent, t.WetPercent)
	}
	if c.Timing.SampleInterval <= 0 {
		return fmt.Errorf("sample interval must be positive")
	}
	// A zero or negative heartbeat disables it.
	if c.Timing.MinRun < 0 || c.Timing.Cooldown < 0 || c.Timing.PrimeDelay < 0 {
		return fmt.Errorf("min_run, cooldown and prime_delay must not be negative")
	}
	if c.Sampling.WindowSize < 1 {
		return fmt.Errorf("window size must be at least 1, got %d", c.Sampling.WindowSize)
	}
	if c.Outputs.PumpPin < 0 || c.Outputs.LEDPin < 0 {
		return fmt.Errorf("gpio pins must not be negative")
	}
	if c.Outputs.Chip == "" {
		return fmt.Errorf("gpio chip must be set")
	}
	if c.Sensor.Bus == "" {
		return fmt.Errorf("i2c bus must be set")
	}
	if c.Outputs.PumpPin == c.Outputs.LEDPin {
		return fmt.Errorf("pump and LED cannot share gpio pin %d", c.Outputs.PumpPin)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// Controller converts the file layout into the controller's logic.Config.
func (c *Config) Controller() logic.Config {
	activeLow := c.Outputs.ActiveLow != nil && *c.Outputs.ActiveLow
	return logic.Config{
		Bounds: logic.CalibrationBounds{
			DryRaw: c.Calibration.DryRaw,
			WetRaw: c.Calibration.WetRaw,
		},
		DryThreshold:      c.Thresholds.DryPercent,
		WetThreshold:      c.Thresholds.WetPercent,
		SampleInterval:    c.Timing.SampleInterval,
		MinRun:            c.Timing.MinRun,
		Cooldown:          c.Timing.Cooldown,
		PrimeDelay:        c.Timing.PrimeDelay,
		HeartbeatInterval: c.Timing.Heartbeat,
		WindowSize:        c.Sampling.WindowSize,
		ActiveLow:         activeLow,
	}
}
