package sink

// FakeEntry records one Entry call.
type FakeEntry struct {
	ID     int
	Pin    int
	Pullup bool
}

// FakeSink records received tokens for test assertions.
type FakeSink struct {
	// Triggers contains the sensor ids of all Triggered calls, in order.
	Triggers []int

	// OKs and Fails count acknowledgment tokens.
	OKs   int
	Fails int

	// Entries contains all enumerated definitions, in order.
	Entries []FakeEntry

	// Err, if set, will be returned by every method.
	Err error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSink creates a FakeSink for testing.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

// Triggered records the activation.
func (f *FakeSink) Triggered(id int) error {
	if f.Err != nil {
		return f.Err
	}
	f.Triggers = append(f.Triggers, id)
	return nil
}

// OK records a success token.
func (f *FakeSink) OK() error {
	if f.Err != nil {
		return f.Err
	}
	f.OKs++
	return nil
}

// Fail records a failure token.
func (f *FakeSink) Fail() error {
	if f.Err != nil {
		return f.Err
	}
	f.Fails++
	return nil
}

// Entry records an enumerated definition.
func (f *FakeSink) Entry(id, pin int, pullup bool) error {
	if f.Err != nil {
		return f.Err
	}
	f.Entries = append(f.Entries, FakeEntry{ID: id, Pin: pin, Pullup: pullup})
	return nil
}

// Close marks the sink as closed.
func (f *FakeSink) Close() error {
	f.Closed = true
	return nil
}

// Reset clears all recorded tokens.
func (f *FakeSink) Reset() {
	f.Triggers = nil
	f.OKs = 0
	f.Fails = 0
	f.Entries = nil
	f.Closed = false
	f.Err = nil
}
