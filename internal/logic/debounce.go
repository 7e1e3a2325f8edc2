// Package logic contains the debounce engine: the per-tick filter that turns
// raw pin levels into stable activation states. The filter itself is pure —
// hardware reads enter only through the gpio.Lines interface held by Engine.
//
// Sensors pull their line low when triggered, so the raw level is inverted
// logic: high = idle, low = active. Exponential smoothing of the raw level
// suppresses single-sample glitches from mechanical switches and
// transistors without per-sensor smoothing circuitry.
package logic

import (
	"errors"
	"fmt"

	"github.com/sweeney/input-sensor/internal/gpio"
	"github.com/sweeney/input-sensor/internal/registry"
	"github.com/sweeney/input-sensor/internal/sink"
)

// Config holds the smoothing and hysteresis parameters. The defaults suit
// typical infrared and magnetic sensors; noisier hardware may need a smaller
// Decay so more consecutive samples are required to cross the thresholds.
type Config struct {
	// Decay is the smoothing weight of the newest sample, in (0, 1).
	Decay float64

	// ActivateBelow is the threshold for the idle-to-active transition.
	ActivateBelow float64

	// ReleaseAbove is the threshold for the silent return to idle. Keeping
	// it near 1.0 means release needs sustained high readings, while
	// activation only needs the signal to cross the midpoint.
	ReleaseAbove float64
}

// DefaultConfig returns the stock filter parameters: fast detect, slow
// release. With Decay 0.1 an idle sensor activates after 7 consecutive low
// samples.
func DefaultConfig() Config {
	return Config{
		Decay:         0.1,
		ActivateBelow: 0.5,
		ReleaseAbove:  0.99,
	}
}

// Validate checks the parameters are usable.
func (c Config) Validate() error {
	if c.Decay <= 0 || c.Decay >= 1 {
		return fmt.Errorf("decay %v outside (0, 1)", c.Decay)
	}
	if c.ActivateBelow <= 0 || c.ActivateBelow >= c.ReleaseAbove {
		return fmt.Errorf("activate threshold %v must be in (0, release %v)", c.ActivateBelow, c.ReleaseAbove)
	}
	if c.ReleaseAbove > 1 {
		return fmt.Errorf("release threshold %v above 1", c.ReleaseAbove)
	}
	return nil
}

// Step folds one raw sample into the sensor's filter state and advances the
// two-state machine. It returns true exactly when the sensor crosses from
// idle to active; the opposite crossing is silent.
func Step(s *registry.Sensor, rawHigh bool, cfg Config) bool {
	level := 0.0
	if rawHigh {
		level = 1.0
	}
	s.Signal = s.Signal*(1-cfg.Decay) + level*cfg.Decay

	switch {
	case !s.Active && s.Signal < cfg.ActivateBelow:
		s.Active = true
		return true
	case s.Active && s.Signal > cfg.ReleaseAbove:
		s.Active = false
	}
	return false
}

// Engine sweeps the registry once per scheduler tick, reading every
// sensor's pin and notifying the sink on activation.
type Engine struct {
	cfg   Config
	lines gpio.Lines
	sink  sink.Notifier
}

// NewEngine creates an engine reading pins from lines and reporting
// activations to the sink.
func NewEngine(cfg Config, lines gpio.Lines, s sink.Notifier) *Engine {
	return &Engine{
		cfg:   cfg,
		lines: lines,
		sink:  s,
	}
}

// Scan processes every sensor in registry order. A pin that cannot be read
// keeps its filter state and is retried next tick; such errors (and sink
// delivery errors) are joined into the returned error after the full sweep.
func (e *Engine) Scan(reg *registry.Registry) error {
	var errs []error

	for _, s := range reg.Sensors() {
		rawHigh, err := e.lines.Read(int(s.Pin))
		if err != nil {
			errs = append(errs, fmt.Errorf("sensor %d: %w", s.ID, err))
			continue
		}

		if Step(s, rawHigh, e.cfg) {
			if err := e.sink.Triggered(int(s.ID)); err != nil {
				errs = append(errs, fmt.Errorf("sensor %d: notify: %w", s.ID, err))
			}
		}
	}

	return errors.Join(errs...)
}
