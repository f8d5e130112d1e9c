package gpio

// FakeWriter is a test double that records output writes.
type FakeWriter struct {
	// ActiveLow selects the polarity used for the physical levels.
	ActiveLow bool

	// Pump and LED hold the last logical state written.
	Pump bool
	LED  bool

	// PumpLevel and LEDLevel hold the last physical level written.
	PumpLevel int
	LEDLevel  int

	// PumpWrites records every logical pump write in order.
	PumpWrites []bool

	// Closed tracks if Close was called
	Closed bool

	// WriteError, if set, will be returned by SetPump and SetLED.
	WriteError error
}

// NewFakeWriter creates a FakeWriter whose lines start at the OFF level.
func NewFakeWriter(activeLow bool) *FakeWriter {
	off := Level(false, activeLow)
	return &FakeWriter{
		ActiveLow: activeLow,
		PumpLevel: off,
		LEDLevel:  off,
	}
}

// SetPump records the pump state.
func (f *FakeWriter) SetPump(on bool) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Pump = on
	f.PumpLevel = Level(on, f.ActiveLow)
	f.PumpWrites = append(f.PumpWrites, on)
	return nil
}

// SetLED records the LED state.
func (f *FakeWriter) SetLED(on bool) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.LED = on
	f.LEDLevel = Level(on, f.ActiveLow)
	return nil
}

// Close drives both outputs OFF and marks the writer as closed.
func (f *FakeWriter) Close() error {
	f.Pump, f.LED = false, false
	f.PumpLevel = Level(false, f.ActiveLow)
	f.LEDLevel = f.PumpLevel
	f.Closed = true
	return nil
}
