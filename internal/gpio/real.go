//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealLines reads GPIO from actual hardware using the Linux GPIO character device.
type RealLines struct {
	chip  *gpiocdev.Chip
	lines map[int]*gpiocdev.Line
}

// NewRealLines opens the named GPIO chip (e.g. "gpiochip0").
// Lines are requested lazily through ConfigureInput.
func NewRealLines(chipName string) (*RealLines, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	return &RealLines{
		chip:  chip,
		lines: make(map[int]*gpiocdev.Line),
	}, nil
}

// ConfigureInput requests the pin as an input line.
// With pullup the internal pull-up resistor is enabled; without it the bias
// is disabled entirely — sensors without the internal pull-up need their own
// external pull-up resistor to hold the line high when idle.
func (r *RealLines) ConfigureInput(pin int, pullup bool) error {
	if old, ok := r.lines[pin]; ok {
		if err := old.Close(); err != nil {
			return fmt.Errorf("release pin %d: %w", pin, err)
		}
		delete(r.lines, pin)
	}

	opts := []gpiocdev.LineReqOption{gpiocdev.AsInput}
	if pullup {
		opts = append(opts, gpiocdev.WithPullUp)
	} else {
		opts = append(opts, gpiocdev.WithBiasDisabled)
	}

	line, err := r.chip.RequestLine(pin, opts...)
	if err != nil {
		return fmt.Errorf("request pin %d: %w", pin, err)
	}

	r.lines[pin] = line
	return nil
}

// Read returns the raw level of a previously configured pin.
func (r *RealLines) Read(pin int) (bool, error) {
	line, ok := r.lines[pin]
	if !ok {
		return false, fmt.Errorf("pin %d not configured", pin)
	}

	v, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("read pin %d: %w", pin, err)
	}

	return v != 0, nil
}

// Close releases all requested lines and the chip.
func (r *RealLines) Close() error {
	var errs []error

	for pin, line := range r.lines {
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", pin, err))
		}
	}
	r.lines = make(map[int]*gpiocdev.Line)

	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
