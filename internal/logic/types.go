// Package logic contains pure business logic for soil-moisture pump control.
// This package has NO external dependencies (no GPIO, I2C, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// PumpState represents the logical state of the pump.
type PumpState string

const (
	PumpOff PumpState = "OFF"
	PumpOn  PumpState = "ON"
)

// String returns the state name.
func (s PumpState) String() string {
	return string(s)
}

// IsOn reports whether the state drives the pump.
func (s PumpState) IsOn() bool {
	return s == PumpOn
}

// EventType represents a pump state transition event.
type EventType string

const (
	EventPumpOn  EventType = "PUMP_ON"
	EventPumpOff EventType = "PUMP_OFF"
)

// CalibrationBounds maps raw sensor values onto the moisture scale.
// Resistive sensors read higher when dry, so a valid pair has DryRaw > WetRaw.
type CalibrationBounds struct {
	DryRaw int
	WetRaw int
}

// Valid reports whether the bounds describe a usable range.
func (b CalibrationBounds) Valid() bool {
	return b.DryRaw > b.WetRaw
}

// Config holds the controller's fixed configuration.
type Config struct {
	Bounds CalibrationBounds

	// DryThreshold is the percentage at or below which the pump may start.
	DryThreshold int
	// WetThreshold is the percentage at or above which the pump may stop.
	WetThreshold int

	SampleInterval time.Duration
	// MinRun is the minimum ON duration before the pump may stop.
	MinRun time.Duration
	// Cooldown is the minimum OFF duration before the pump may start.
	Cooldown time.Duration
	// PrimeDelay is the settling delay between priming reads.
	PrimeDelay time.Duration

	HeartbeatInterval time.Duration

	WindowSize int
	ActiveLow  bool
}

// Event represents a pump transition to be reported.
type Event struct {
	Timestamp  time.Time
	Type       EventType
	State      PumpState
	Percent    int
	AverageRaw int
}

// Status is the record emitted after every control tick.
type Status struct {
	Timestamp time.Time
	// Raw is this tick's reading, or the last good reading when ReadErr is set.
	Raw            int
	AverageRaw     int
	Percent        int
	Pump           PumpState
	CalibrationErr error
	// ReadErr is the sensor error of this tick, nil when the read succeeded.
	ReadErr error
}

// Input represents a single hysteresis evaluation.
type Input struct {
	Percent       int
	CalibrationOK bool
	Time          time.Time
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	PumpOn  int
	PumpOff int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Pump      PumpState
	Counts    EventCounts
}
