package status

import (
	"github.com/rs/zerolog"

	"github.com/sweeney/moisture-controller/internal/logic"
)

// LogReporter writes telemetry as structured log events.
// Status records go out at debug level so a production log only carries
// transitions, heartbeats and faults.
type LogReporter struct {
	logger zerolog.Logger
}

// NewLogReporter creates a reporter writing to logger.
func NewLogReporter(logger zerolog.Logger) *LogReporter {
	return &LogReporter{logger: logger.With().Str("component", "status").Logger()}
}

// Status logs the per-tick status record.
func (r *LogReporter) Status(s logic.Status) {
	r.logger.Debug().
		Time("ts", s.Timestamp).
		Int("raw", s.Raw).
		Int("avg", s.AverageRaw).
		Int("percent", s.Percent).
		Str("pump", s.Pump.String()).
		Bool("calibration_ok", s.CalibrationErr == nil).
		Bool("sensor_ok", s.ReadErr == nil).
		Msg("tick")
}

// Transition logs a pump state change.
func (r *LogReporter) Transition(e logic.Event) {
	r.logger.Info().
		Time("ts", e.Timestamp).
		Str("event", string(e.Type)).
		Str("pump", e.State.String()).
		Int("percent", e.Percent).
		Int("avg", e.AverageRaw).
		Msg("pump transition")
}

// CalibrationError logs an invalid calibration.
func (r *LogReporter) CalibrationError(err error) {
	r.logger.Warn().Err(err).Msg("calibration invalid, pump start inhibited")
}

// Heartbeat logs the periodic summary.
func (r *LogReporter) Heartbeat(hb logic.HeartbeatData) {
	r.logger.Info().
		Dur("uptime", hb.Uptime).
		Str("pump", hb.Pump.String()).
		Int("pump_on", hb.Counts.PumpOn).
		Int("pump_off", hb.Counts.PumpOff).
		Msg("heartbeat")
}
