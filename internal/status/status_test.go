package status

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/moisture-controller/internal/logic"
)

var start = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func testSnapshot() Snapshot {
	return Snapshot{
		Status: logic.Status{
			Timestamp:  start.Add(15 * time.Minute),
			Raw:        455,
			AverageRaw: 450,
			Percent:    93,
			Pump:       logic.PumpOn,
		},
		Counts:    logic.EventCounts{PumpOn: 3, PumpOff: 2},
		StartTime: start,
		Config: ConfigFrom(logic.Config{
			Bounds:         logic.CalibrationBounds{DryRaw: 850, WetRaw: 420},
			DryThreshold:   35,
			WetThreshold:   55,
			SampleInterval: time.Second,
			MinRun:         5 * time.Second,
			Cooldown:       30 * time.Second,
			WindowSize:     10,
			ActiveLow:      true,
		}),
	}
}

func TestSnapshotUptime(t *testing.T) {
	snap := testSnapshot()
	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := testSnapshot().Config
	if cfg.DryRaw != 850 || cfg.WetRaw != 420 {
		t.Errorf("bounds: got %d/%d, want 850/420", cfg.DryRaw, cfg.WetRaw)
	}
	if cfg.SampleIntervalMs != 1000 {
		t.Errorf("SampleIntervalMs: got %d, want 1000", cfg.SampleIntervalMs)
	}
	if cfg.MinRunMs != 5000 || cfg.CooldownMs != 30000 {
		t.Errorf("timers: got %d/%d, want 5000/30000", cfg.MinRunMs, cfg.CooldownMs)
	}
	if !cfg.ActiveLow {
		t.Error("expected ActiveLow=true")
	}
}

func TestFormatJSON(t *testing.T) {
	data := FormatJSON(testSnapshot())

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := parsed.Status
	if s.Raw != 455 || s.AverageRaw != 450 {
		t.Errorf("raw/avg: got %d/%d, want 455/450", s.Raw, s.AverageRaw)
	}
	if s.MoisturePercent != 93 {
		t.Errorf("MoisturePercent: got %d, want 93", s.MoisturePercent)
	}
	if s.Pump != "ON" {
		t.Errorf("Pump: got %q, want ON", s.Pump)
	}
	if !s.CalibrationOK {
		t.Error("expected CalibrationOK=true")
	}
	if s.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", s.UptimeSeconds)
	}
	if s.StartTime != "2026-01-01T00:00:00Z" {
		t.Errorf("StartTime: got %q", s.StartTime)
	}
	if s.Counts.PumpOn != 3 || s.Counts.PumpOff != 2 {
		t.Errorf("Counts: got %+v", s.Counts)
	}
	if s.Config.WetThreshold != 55 {
		t.Errorf("Config.WetThreshold: got %d, want 55", s.Config.WetThreshold)
	}
}

func TestFormatJSONCalibrationError(t *testing.T) {
	snap := testSnapshot()
	snap.Status.CalibrationErr = logic.ErrInvalidCalibration

	data := FormatJSON(snap)

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	status := raw["status"].(map[string]interface{})
	if status["calibration_ok"] != false {
		t.Errorf("calibration_ok: got %v, want false", status["calibration_ok"])
	}
	if status["calibration_error"] != "invalid calibration" {
		t.Errorf("calibration_error: got %v", status["calibration_error"])
	}
}

func TestFormatJSONOmitsCalibrationErrorWhenOK(t *testing.T) {
	var raw map[string]interface{}
	json.Unmarshal(FormatJSON(testSnapshot()), &raw)
	status := raw["status"].(map[string]interface{})
	if _, exists := status["calibration_error"]; exists {
		t.Error("calibration_error should be omitted when calibration is valid")
	}
}

func TestFormatJSONSensorError(t *testing.T) {
	var raw map[string]interface{}
	json.Unmarshal(FormatJSON(testSnapshot()), &raw)
	status := raw["status"].(map[string]interface{})
	if status["sensor_ok"] != true {
		t.Errorf("sensor_ok: got %v, want true", status["sensor_ok"])
	}
	if _, exists := status["sensor_error"]; exists {
		t.Error("sensor_error should be omitted after a good read")
	}

	snap := testSnapshot()
	snap.Status.ReadErr = errors.New("i2c timeout")
	json.Unmarshal(FormatJSON(snap), &raw)
	status = raw["status"].(map[string]interface{})
	if status["sensor_ok"] != false {
		t.Errorf("sensor_ok: got %v, want false", status["sensor_ok"])
	}
	if status["sensor_error"] != "i2c timeout" {
		t.Errorf("sensor_error: got %v", status["sensor_error"])
	}
	if status["raw"] != float64(455) {
		t.Errorf("raw: got %v, want last good reading 455", status["raw"])
	}
}

func TestFormatJSONUnknownState(t *testing.T) {
	snap := Snapshot{StartTime: start, Status: logic.Status{Timestamp: start.Add(time.Second)}}

	var parsed StatusJSON
	json.Unmarshal(FormatJSON(snap), &parsed)

	if parsed.Status.Pump != "UNKNOWN" {
		t.Errorf("Pump: got %q, want UNKNOWN", parsed.Status.Pump)
	}
}

func newBufferLogger(buf *bytes.Buffer) zerolog.Logger {
	return zerolog.New(buf).Level(zerolog.DebugLevel)
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLogReporterStatus(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(newBufferLogger(&buf))

	r.Status(testSnapshot().Status)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(lines))
	}
	l := lines[0]
	if l["level"] != "debug" {
		t.Errorf("level: got %v, want debug", l["level"])
	}
	if l["component"] != "status" {
		t.Errorf("component: got %v, want status", l["component"])
	}
	if l["raw"] != float64(455) || l["avg"] != float64(450) || l["percent"] != float64(93) {
		t.Errorf("values: got raw=%v avg=%v percent=%v", l["raw"], l["avg"], l["percent"])
	}
	if l["pump"] != "ON" {
		t.Errorf("pump: got %v, want ON", l["pump"])
	}
	if l["sensor_ok"] != true {
		t.Errorf("sensor_ok: got %v, want true", l["sensor_ok"])
	}
}

func TestLogReporterStatusSensorError(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(newBufferLogger(&buf))

	s := testSnapshot().Status
	s.ReadErr = errors.New("i2c timeout")
	r.Status(s)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(lines))
	}
	if lines[0]["sensor_ok"] != false {
		t.Errorf("sensor_ok: got %v, want false", lines[0]["sensor_ok"])
	}
}

func TestLogReporterTransitionAndHeartbeat(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(newBufferLogger(&buf))

	r.Transition(logic.Event{
		Timestamp: start,
		Type:      logic.EventPumpOff,
		State:     logic.PumpOff,
		Percent:   60,
	})
	r.Heartbeat(logic.HeartbeatData{
		Timestamp: start,
		Uptime:    time.Hour,
		Pump:      logic.PumpOff,
		Counts:    logic.EventCounts{PumpOn: 4, PumpOff: 4},
	})

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	if lines[0]["event"] != "PUMP_OFF" || lines[0]["level"] != "info" {
		t.Errorf("transition line: %v", lines[0])
	}
	if lines[1]["message"] != "heartbeat" || lines[1]["pump_on"] != float64(4) {
		t.Errorf("heartbeat line: %v", lines[1])
	}
}

func TestLogReporterCalibrationError(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(newBufferLogger(&buf))

	r.CalibrationError(errors.New("dry below wet"))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(lines))
	}
	if lines[0]["level"] != "warn" {
		t.Errorf("level: got %v, want warn", lines[0]["level"])
	}
	if lines[0]["error"] != "dry below wet" {
		t.Errorf("error: got %v", lines[0]["error"])
	}
}

func TestLogReporterStatusFilteredAtInfo(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(zerolog.New(&buf).Level(zerolog.InfoLevel))

	r.Status(testSnapshot().Status)
	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %q", buf.String())
	}
}

func TestFakeReporter(t *testing.T) {
	f := NewFakeReporter()

	if _, ok := f.LastStatus(); ok {
		t.Error("expected no status initially")
	}

	f.Status(logic.Status{Percent: 10})
	f.Status(logic.Status{Percent: 20})
	f.Transition(logic.Event{Type: logic.EventPumpOn})
	f.CalibrationError(logic.ErrInvalidCalibration)
	f.Heartbeat(logic.HeartbeatData{})

	last, ok := f.LastStatus()
	if !ok || last.Percent != 20 {
		t.Errorf("LastStatus: got (%+v, %v)", last, ok)
	}
	if len(f.Transitions) != 1 || len(f.CalibrationErrors) != 1 || len(f.Heartbeats) != 1 {
		t.Errorf("unexpected counts: %d %d %d", len(f.Transitions), len(f.CalibrationErrors), len(f.Heartbeats))
	}

	f.Reset()
	if len(f.Statuses) != 0 || len(f.Transitions) != 0 {
		t.Error("Reset should clear recorded telemetry")
	}
}
