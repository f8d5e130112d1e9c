package logic

import (
	"errors"
	"fmt"
)

// ErrInvalidCalibration is returned when the dry bound is not above the wet bound.
var ErrInvalidCalibration = errors.New("invalid calibration")

// ToPercent converts a raw reading into a 0 (dry) to 100 (wet) moisture percentage.
// Raw values outside the calibrated range are clamped, never rejected.
// With invalid bounds it returns 0 and an error wrapping ErrInvalidCalibration.
func ToPercent(raw int, b CalibrationBounds) (int, error) {
	if !b.Valid() {
		return 0, fmt.Errorf("%w: dry_raw=%d must be greater than wet_raw=%d", ErrInvalidCalibration, b.DryRaw, b.WetRaw)
	}

	if raw < b.WetRaw {
		raw = b.WetRaw
	}
	if raw > b.DryRaw {
		raw = b.DryRaw
	}

	// Inverted range: DryRaw -> 0, WetRaw -> 100. Rounded half-up.
	span := b.DryRaw - b.WetRaw
	pct := ((b.DryRaw-raw)*100 + span/2) / span

	return clampPercent(pct), nil
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
