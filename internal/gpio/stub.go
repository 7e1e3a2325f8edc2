//go:build !linux

package gpio

import "errors"

// RealLines is not available on non-Linux platforms.
type RealLines struct{}

// NewRealLines returns an error on non-Linux platforms.
func NewRealLines(chipName string) (*RealLines, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// ConfigureInput is not implemented on non-Linux platforms.
func (r *RealLines) ConfigureInput(pin int, pullup bool) error {
	return errors.New("gpio: not supported")
}

// Read is not implemented on non-Linux platforms.
func (r *RealLines) Read(pin int) (bool, error) {
	return false, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealLines) Close() error {
	return nil
}
