package status

import "github.com/sweeney/moisture-controller/internal/logic"

// FakeReporter records telemetry for test assertions.
type FakeReporter struct {
	Statuses          []logic.Status
	Transitions       []logic.Event
	CalibrationErrors []error
	Heartbeats        []logic.HeartbeatData
}

// NewFakeReporter creates a FakeReporter for testing.
func NewFakeReporter() *FakeReporter {
	return &FakeReporter{}
}

// Status records the status record.
func (f *FakeReporter) Status(s logic.Status) {
	f.Statuses = append(f.Statuses, s)
}

// Transition records the transition event.
func (f *FakeReporter) Transition(e logic.Event) {
	f.Transitions = append(f.Transitions, e)
}

// CalibrationError records the calibration fault.
func (f *FakeReporter) CalibrationError(err error) {
	f.CalibrationErrors = append(f.CalibrationErrors, err)
}

// Heartbeat records the heartbeat.
func (f *FakeReporter) Heartbeat(hb logic.HeartbeatData) {
	f.Heartbeats = append(f.Heartbeats, hb)
}

// LastStatus returns the most recent status record.
func (f *FakeReporter) LastStatus() (logic.Status, bool) {
	if len(f.Statuses) == 0 {
		return logic.Status{}, false
	}
	return f.Statuses[len(f.Statuses)-1], true
}

// Reset clears recorded telemetry.
func (f *FakeReporter) Reset() {
	f.Statuses = nil
	f.Transitions = nil
	f.CalibrationErrors = nil
	f.Heartbeats = nil
}
