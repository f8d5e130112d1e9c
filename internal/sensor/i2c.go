package sensor

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// regRawBase is the first raw-ADC register; channel n is at regRawBase+n.
const regRawBase = 0x10

// Tx is the subset of i2c.Dev used by I2CReader.
type Tx interface {
	Tx(w, r []byte) error
}

// I2CReader reads one channel of an I2C ADC.
type I2CReader struct {
	bus     i2c.BusCloser
	dev     Tx
	channel byte
}

// NewI2CReader initializes the host drivers and opens the named bus.
func NewI2CReader(bus string, address uint16, channel byte) (*I2CReader, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}

	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", bus, err)
	}

	return &I2CReader{
		bus:     b,
		dev:     &i2c.Dev{Bus: b, Addr: address},
		channel: channel,
	}, nil
}

// newI2CReaderWithDev is used by tests to inject a fake device.
func newI2CReaderWithDev(dev Tx, channel byte) *I2CReader {
	return &I2CReader{dev: dev, channel: channel}
}

// ReadRaw reads the raw ADC value for the configured channel.
func (r *I2CReader) ReadRaw() (int, error) {
	write := []byte{regRawBase + r.channel}
	read := make([]byte, 2)
	if err := r.dev.Tx(write, read); err != nil {
		return 0, fmt.Errorf("read channel %d: %w", r.channel, err)
	}
	return int(binary.LittleEndian.Uint16(read)), nil
}

// Close releases the bus.
func (r *I2CReader) Close() error {
	if r.bus == nil {
		return nil
	}
	if err := r.bus.Close(); err != nil {
		return fmt.Errorf("close i2c bus: %w", err)
	}
	return nil
}
