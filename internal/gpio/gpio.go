// Package gpio drives the pump relay and status LED with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Writer sets the logical state of the controller's outputs.
type Writer interface {
	// SetPump switches the pump relay line. on is the logical state;
	// polarity is applied by the implementation.
	SetPump(on bool) error

	// SetLED switches the status indicator line.
	SetLED(on bool) error

	// Close releases GPIO resources, leaving both outputs OFF.
	Close() error
}

// Line definitions (BCM numbering)
const (
	DefaultChip    = "gpiochip0"
	DefaultPinPump = 17
	DefaultPinLED  = 27
)

// Level translates a logical output state into the physical line level.
// This is the only place output polarity is applied.
func Level(on, activeLow bool) int {
	if on != activeLow {
		return 1
	}
	return 0
}
