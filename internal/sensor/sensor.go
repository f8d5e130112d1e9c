// Package sensor provides raw soil-moisture readings with hardware abstraction.
// The real implementation talks to an I2C ADC hat through periph.io.
// The fake implementation allows testing without hardware.
package sensor

// Reader reads the raw analog value of the moisture probe.
type Reader interface {
	// ReadRaw returns the current raw value in sensor-native units.
	// Higher values mean drier soil for resistive and capacitive probes.
	ReadRaw() (int, error)

	// Close releases bus resources.
	Close() error
}

// Defaults for a Grove Base Hat style ADC.
const (
	DefaultBus     = "1"
	DefaultAddress = 0x08
	DefaultChannel = 0
)
