// Package status reports controller telemetry: a status record after every
// tick, discrete pump transition events, calibration faults and heartbeats.
package status

import (
	"time"

	"github.com/sweeney/moisture-controller/internal/logic"
)

// Reporter receives telemetry from the controller.
// Implementations must not block; reporting never fails the control loop.
type Reporter interface {
	Status(s logic.Status)
	Transition(e logic.Event)
	CalibrationError(err error)
	Heartbeat(hb logic.HeartbeatData)
}

// Config contains controller configuration for display.
type Config struct {
	DryRaw           int
	WetRaw           int
	DryThreshold     int
	WetThreshold     int
	SampleIntervalMs int64
	MinRunMs         int64
	CooldownMs       int64
	WindowSize       int
	ActiveLow        bool
}

// ConfigFrom extracts the display fields from a logic.Config.
func ConfigFrom(cfg logic.Config) Config {
	return Config{
		DryRaw:           cfg.Bounds.DryRaw,
		WetRaw:           cfg.Bounds.WetRaw,
		DryThreshold:     cfg.DryThreshold,
		WetThreshold:     cfg.WetThreshold,
		SampleIntervalMs: cfg.SampleInterval.Milliseconds(),
		MinRunMs:         cfg.MinRun.Milliseconds(),
		CooldownMs:       cfg.Cooldown.Milliseconds(),
		WindowSize:       cfg.WindowSize,
		ActiveLow:        cfg.ActiveLow,
	}
}

// Snapshot is a point-in-time view of controller state.
type Snapshot struct {
	Status    logic.Status
	Counts    logic.EventCounts
	StartTime time.Time
	Config    Config
}

// Uptime returns the duration since the controller started.
func (s Snapshot) Uptime() time.Duration {
	return s.Status.Timestamp.Sub(s.StartTime)
}
