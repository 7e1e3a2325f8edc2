// Package config loads daemon configuration from an optional YAML file,
// with command-line flags layered on top by the caller.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/input-sensor/internal/gpio"
	"github.com/sweeney/input-sensor/internal/logic"
)

// Config holds the daemon settings.
type Config struct {
	// PollMs is the interval between debounce scans, in milliseconds.
	PollMs int `yaml:"poll_ms"`

	// Decay, ActivateBelow and ReleaseAbove tune the debounce filter.
	Decay         float64 `yaml:"decay"`
	ActivateBelow float64 `yaml:"activate_below"`
	ReleaseAbove  float64 `yaml:"release_above"`

	// MaxSensors caps the registry size; 0 means unlimited.
	MaxSensors int `yaml:"max_sensors"`

	// Chip names the GPIO character device.
	Chip string `yaml:"gpio_chip"`

	// StorePath is the file backing the non-volatile region.
	StorePath string `yaml:"store_path"`

	// Broker is the MQTT broker address; empty disables the MQTT sink.
	Broker string `yaml:"broker"`
}

// Default returns the stock configuration.
func Default() Config {
	filter := logic.DefaultConfig()
	return Config{
		PollMs:        5,
		Decay:         filter.Decay,
		ActivateBelow: filter.ActivateBelow,
		ReleaseAbove:  filter.ReleaseAbove,
		Chip:          gpio.DefaultChip,
		StorePath:     "/var/lib/input-sensor/sensors.dat",
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Poll returns the scan interval as a duration.
func (c Config) Poll() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}

// Filter returns the debounce parameters as a logic.Config.
func (c Config) Filter() logic.Config {
	return logic.Config{
		Decay:         c.Decay,
		ActivateBelow: c.ActivateBelow,
		ReleaseAbove:  c.ReleaseAbove,
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.PollMs <= 0 {
		return fmt.Errorf("poll interval %dms must be positive", c.PollMs)
	}
	if c.MaxSensors < 0 {
		return fmt.Errorf("max_sensors %d must not be negative", c.MaxSensors)
	}
	if c.StorePath == "" {
		return fmt.Errorf("store_path must be set")
	}
	if err := c.Filter().Validate(); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	return nil
}
