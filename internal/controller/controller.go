// Package controller runs the moisture-to-action loop: sample, average,
// map to percent, evaluate hysteresis, drive outputs, report.
package controller

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/moisture-controller/internal/gpio"
	"github.com/sweeney/moisture-controller/internal/logic"
	"github.com/sweeney/moisture-controller/internal/sensor"
	"github.com/sweeney/moisture-controller/internal/status"
)

// Controller owns all runtime state of the control loop.
// Not safe for concurrent use; a single goroutine calls Prime and Tick.
type Controller struct {
	cfg      logic.Config
	sensor   sensor.Reader
	outputs  gpio.Writer
	reporter status.Reporter
	logger   zerolog.Logger

	window     *logic.SampleWindow
	hysteresis *logic.Hysteresis

	startTime time.Time
	lastTick  time.Time
	last      logic.Status
}

// New creates a controller with the pump OFF. Outputs are driven OFF
// immediately regardless of polarity, and an invalid calibration is reported
// once here in addition to every tick.
func New(cfg logic.Config, in sensor.Reader, out gpio.Writer, rep status.Reporter, logger zerolog.Logger, now time.Time) *Controller {
	c := &Controller{
		cfg:        cfg,
		sensor:     in,
		outputs:    out,
		reporter:   rep,
		logger:     logger.With().Str("component", "controller").Logger(),
		window:     logic.NewSampleWindow(cfg.WindowSize),
		hysteresis: logic.NewHysteresis(cfg, now),
		startTime:  now,
		lastTick:   now,
	}
	c.last = logic.Status{Timestamp: now, Pump: logic.PumpOff}

	c.drive(false)

	if _, err := logic.ToPercent(cfg.Bounds.DryRaw, cfg.Bounds); err != nil {
		c.reporter.CalibrationError(err)
	}
	return c
}

// Prime pre-fills the sample window with immediate readings, calling sleep
// with the configured settling delay between them. Failed reads are logged
// and skipped. It stops early if ctx is cancelled.
func (c *Controller) Prime(ctx context.Context, sleep func(time.Duration)) {
	n := c.window.Cap()
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			return
		}
		raw, err := c.sensor.ReadRaw()
		if err != nil {
			c.logger.Error().Err(err).Int("slot", i).Msg("priming read failed")
		} else {
			c.window.Add(raw)
		}
		if i < n-1 && c.cfg.PrimeDelay > 0 {
			sleep(c.cfg.PrimeDelay)
		}
	}
	avg, _ := c.window.Average()
	c.logger.Info().Int("samples", c.window.Len()).Int("avg", avg).Msg("window primed")
}

// Tick runs one control step if the sample interval has elapsed since the
// previous step. It returns the status record and true when a step ran, or
// the previous record and false when it returned early.
func (c *Controller) Tick(now time.Time) (logic.Status, bool) {
	if now.Sub(c.lastTick) < c.cfg.SampleInterval {
		return c.last, false
	}
	return c.Step(now), true
}

// Step runs one control step unconditionally and restarts the sample
// interval from now.
func (c *Controller) Step(now time.Time) logic.Status {
	c.lastTick = now

	raw, readErr := c.sensor.ReadRaw()
	if readErr != nil {
		c.logger.Error().Err(readErr).Msg("sensor read error")
		raw = c.last.Raw
	} else {
		c.window.Add(raw)
	}

	avg, ok := c.averageRaw()
	if !ok {
		// No sample at all yet; nothing to decide on.
		c.last = logic.Status{Timestamp: now, Raw: raw, Pump: c.hysteresis.State(), ReadErr: readErr}
		c.reporter.Status(c.last)
		return c.last
	}

	pct, calErr := logic.ToPercent(avg, c.cfg.Bounds)
	if calErr != nil {
		c.reporter.CalibrationError(calErr)
	}

	if event := c.hysteresis.Evaluate(logic.Input{
		Percent:       pct,
		CalibrationOK: calErr == nil,
		Time:          now,
	}); event != nil {
		event.AverageRaw = avg
		c.drive(event.State.IsOn())
		c.reporter.Transition(*event)
	}

	if hb := c.hysteresis.CheckHeartbeat(now, c.cfg.HeartbeatInterval); hb != nil {
		c.reporter.Heartbeat(*hb)
	}

	c.last = logic.Status{
		Timestamp:      now,
		Raw:            raw,
		AverageRaw:     avg,
		Percent:        pct,
		Pump:           c.hysteresis.State(),
		CalibrationErr: calErr,
		ReadErr:        readErr,
	}
	c.reporter.Status(c.last)
	return c.last
}

// averageRaw returns the window mean, falling back to an immediate read
// when the window is still empty.
func (c *Controller) averageRaw() (int, bool) {
	if avg, ok := c.window.Average(); ok {
		return avg, true
	}
	raw, err := c.sensor.ReadRaw()
	if err != nil {
		c.logger.Error().Err(err).Msg("fallback sensor read error")
		return 0, false
	}
	return raw, true
}

// drive sets both outputs to the given logical state.
func (c *Controller) drive(on bool) {
	if err := c.outputs.SetPump(on); err != nil {
		c.logger.Error().Err(err).Bool("on", on).Msg("pump write failed")
	}
	if err := c.outputs.SetLED(on); err != nil {
		c.logger.Error().Err(err).Bool("on", on).Msg("LED write failed")
	}
}

// Shutdown drives both outputs OFF.
func (c *Controller) Shutdown() {
	c.drive(false)
	c.logger.Info().Str("pump", c.hysteresis.State().String()).Msg("outputs driven off")
}

// State returns the current pump state.
func (c *Controller) State() logic.PumpState {
	return c.hysteresis.State()
}

// Snapshot returns the latest status together with counters and config.
func (c *Controller) Snapshot() status.Snapshot {
	return status.Snapshot{
		Status:    c.last,
		Counts:    c.hysteresis.EventCountsSnapshot(),
		StartTime: c.startTime,
		Config:    status.ConfigFrom(c.cfg),
	}
}
