package logic

import "time"

// Hysteresis is the two-state pump machine. It starts OFF and only changes
// state once the relevant timer has elapsed and the moisture has crossed the
// far side of the deadband.
type Hysteresis struct {
	dryThreshold int
	wetThreshold int
	minRun       time.Duration
	cooldown     time.Duration

	state         PumpState
	lastChange    time.Time
	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewHysteresis creates a machine in the OFF state. startTime counts as the
// last transition, so the first start waits out a full cooldown.
func NewHysteresis(cfg Config, startTime time.Time) *Hysteresis {
	return &Hysteresis{
		dryThreshold:  cfg.DryThreshold,
		wetThreshold:  cfg.WetThreshold,
		minRun:        cfg.MinRun,
		cooldown:      cfg.Cooldown,
		state:         PumpOff,
		lastChange:    startTime,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Evaluate takes the latest moisture percentage and returns the transition
// event if one occurred, nil otherwise.
//
// An input flagged with a calibration fault never starts the pump; a running
// pump is stopped once its minimum run has elapsed.
func (h *Hysteresis) Evaluate(in Input) *Event {
	elapsed := in.Time.Sub(h.lastChange)

	var next PumpState
	switch h.state {
	case PumpOff:
		if !in.CalibrationOK || elapsed < h.cooldown || in.Percent > h.dryThreshold {
			return nil
		}
		next = PumpOn
	case PumpOn:
		if elapsed < h.minRun {
			return nil
		}
		if in.CalibrationOK && in.Percent < h.wetThreshold {
			return nil
		}
		next = PumpOff
	default:
		// Unreachable through the API; state only holds PumpOff or PumpOn.
		// Fall back to OFF without reporting.
		h.state = PumpOff
		h.lastChange = in.Time
		return nil
	}

	h.state = next
	h.lastChange = in.Time

	event := &Event{
		Timestamp: in.Time,
		Type:      eventTypeFor(next),
		State:     next,
		Percent:   in.Percent,
	}
	switch event.Type {
	case EventPumpOn:
		h.eventCounts.PumpOn++
	case EventPumpOff:
		h.eventCounts.PumpOff++
	}
	return event
}

func eventTypeFor(s PumpState) EventType {
	if s == PumpOn {
		return EventPumpOn
	}
	return EventPumpOff
}

// State returns the current pump state.
func (h *Hysteresis) State() PumpState {
	return h.state
}

// Since returns the time elapsed since the last transition (or startup).
func (h *Hysteresis) Since(now time.Time) time.Duration {
	return now.Sub(h.lastChange)
}

// EventCountsSnapshot returns a copy of the transition counters.
func (h *Hysteresis) EventCountsSnapshot() EventCounts {
	return h.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed or
// if interval is <= 0 (disabled).
func (h *Hysteresis) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(h.lastHeartbeat) < interval {
		return nil
	}

	h.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(h.startTime),
		Pump:      h.state,
		Counts:    h.eventCounts,
	}
}
