//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealWriter drives outputs on actual hardware using Linux GPIO character device.
type RealWriter struct {
	chip      *gpiocdev.Chip
	pumpLine  *gpiocdev.Line
	ledLine   *gpiocdev.Line
	activeLow bool
}

// NewRealWriter requests the pump and LED lines as outputs.
// Both lines are requested at their OFF level, so the pump never runs at startup.
func NewRealWriter(chipName string, pinPump, pinLED int, activeLow bool) (*RealWriter, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	off := Level(false, activeLow)

	pumpLine, err := chip.RequestLine(pinPump, gpiocdev.AsOutput(off))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request pump pin %d: %w", pinPump, err)
	}

	ledLine, err := chip.RequestLine(pinLED, gpiocdev.AsOutput(off))
	if err != nil {
		pumpLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request LED pin %d: %w", pinLED, err)
	}

	return &RealWriter{
		chip:      chip,
		pumpLine:  pumpLine,
		ledLine:   ledLine,
		activeLow: activeLow,
	}, nil
}

// SetPump drives the pump relay line.
func (w *RealWriter) SetPump(on bool) error {
	if err := w.pumpLine.SetValue(Level(on, w.activeLow)); err != nil {
		return fmt.Errorf("set pump pin: %w", err)
	}
	return nil
}

// SetLED drives the status LED line.
func (w *RealWriter) SetLED(on bool) error {
	if err := w.ledLine.SetValue(Level(on, w.activeLow)); err != nil {
		return fmt.Errorf("set LED pin: %w", err)
	}
	return nil
}

// Close drives both outputs OFF, then reconfigures the lines to input with
// pull-down (matching Pi boot defaults) before releasing them.
func (w *RealWriter) Close() error {
	var errs []error

	off := Level(false, w.activeLow)
	for name, line := range map[string]*gpiocdev.Line{"pump": w.pumpLine, "LED": w.ledLine} {
		if line == nil {
			continue
		}
		if err := line.SetValue(off); err != nil {
			errs = append(errs, fmt.Errorf("drive %s pin off: %w", name, err))
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", name, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", name, err))
		}
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	return errors.Join(errs...)
}
