//go:build !linux

package gpio

import "errors"

// RealWriter is not available on non-Linux platforms.
type RealWriter struct{}

// NewRealWriter returns an error on non-Linux platforms.
func NewRealWriter(chipName string, pinPump, pinLED int, activeLow bool) (*RealWriter, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// SetPump is not implemented on non-Linux platforms.
func (w *RealWriter) SetPump(on bool) error {
	return errors.New("gpio: not supported")
}

// SetLED is not implemented on non-Linux platforms.
func (w *RealWriter) SetLED(on bool) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (w *RealWriter) Close() error {
	return nil
}
