// Package gpio provides digital input line access with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// DefaultChip is the GPIO character device used on Raspberry Pi hardware.
const DefaultChip = "gpiochip0"

// Lines configures and reads individual digital input lines.
type Lines interface {
	// ConfigureInput requests the line as an input, enabling the internal
	// pull-up resistor when pullup is true. Reconfiguring an already
	// configured line replaces its previous request.
	ConfigureInput(pin int, pullup bool) error

	// Read returns the raw electrical level of a configured line.
	// true = high (idle for active-low sensors), false = low.
	Read(pin int) (bool, error)

	// Close releases all requested lines.
	Close() error
}
