package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Raw              int        `json:"raw"`
	AverageRaw       int        `json:"average_raw"`
	MoisturePercent  int        `json:"moisture_percent"`
	Pump             string     `json:"pump"`
	CalibrationOK    bool       `json:"calibration_ok"`
	CalibrationError string     `json:"calibration_error,omitempty"`
	SensorOK         bool       `json:"sensor_ok"`
	SensorError      string     `json:"sensor_error,omitempty"`
	UptimeSeconds    int64      `json:"uptime_seconds"`
	StartTime        string     `json:"start_time"`
	Timestamp        string     `json:"timestamp"`
	Counts           CountsJSON `json:"event_counts"`
	Config           ConfigJSON `json:"config"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	PumpOn  int `json:"pump_on"`
	PumpOff int `json:"pump_off"`
}

// ConfigJSON is the JSON representation of controller config.
type ConfigJSON struct {
	DryRaw           int   `json:"dry_raw"`
	WetRaw           int   `json:"wet_raw"`
	DryThreshold     int   `json:"dry_threshold"`
	WetThreshold     int   `json:"wet_threshold"`
	SampleIntervalMs int64 `json:"sample_interval_ms"`
	MinRunMs         int64 `json:"min_run_ms"`
	CooldownMs       int64 `json:"cooldown_ms"`
	WindowSize       int   `json:"window_size"`
	ActiveLow        bool  `json:"active_low"`
}

// FormatJSON returns the indented JSON status envelope.
func FormatJSON(snap Snapshot) []byte {
	pump := string(snap.Status.Pump)
	if pump == "" {
		pump = "UNKNOWN"
	}

	inner := StatusInner{
		Raw:             snap.Status.Raw,
		AverageRaw:      snap.Status.AverageRaw,
		MoisturePercent: snap.Status.Percent,
		Pump:            pump,
		CalibrationOK:   snap.Status.CalibrationErr == nil,
		SensorOK:        snap.Status.ReadErr == nil,
		UptimeSeconds:   int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:       snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:       snap.Status.Timestamp.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			PumpOn:  snap.Counts.PumpOn,
			PumpOff: snap.Counts.PumpOff,
		},
		Config: ConfigJSON{
			DryRaw:           snap.Config.DryRaw,
			WetRaw:           snap.Config.WetRaw,
			DryThreshold:     snap.Config.DryThreshold,
			WetThreshold:     snap.Config.WetThreshold,
			SampleIntervalMs: snap.Config.SampleIntervalMs,
			MinRunMs:         snap.Config.MinRunMs,
			CooldownMs:       snap.Config.CooldownMs,
			WindowSize:       snap.Config.WindowSize,
			ActiveLow:        snap.Config.ActiveLow,
		},
	}
	if snap.Status.ReadErr != nil {
		inner.SensorError = snap.Status.ReadErr.Error()
	}
	if snap.Status.CalibrationErr != nil {
		inner.CalibrationError = snap.Status.CalibrationErr.Error()
	}

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}
