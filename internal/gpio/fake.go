package gpio

// FakeLines is a test double with settable per-pin levels.
type FakeLines struct {
	// Pullups records the pullup argument of each ConfigureInput call,
	// keyed by pin. A pin present here has been configured.
	Pullups map[int]bool

	// Configures counts ConfigureInput calls per pin, including
	// reconfigurations of an already configured pin.
	Configures map[int]int

	// ConfigureError, if set, will be returned by ConfigureInput.
	ConfigureError error

	// ReadError, if set, will be returned by Read.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool

	// levels holds the current raw level per pin. Unset pins float high,
	// matching a pulled-up idle line.
	levels map[int]bool
}

// NewFakeLines creates a FakeLines with all pins floating high.
func NewFakeLines() *FakeLines {
	return &FakeLines{
		Pullups:    make(map[int]bool),
		Configures: make(map[int]int),
		levels:     make(map[int]bool),
	}
}

// Set drives the raw level of a pin for subsequent reads.
func (f *FakeLines) Set(pin int, high bool) {
	f.levels[pin] = high
}

// ConfigureInput records the configuration request.
func (f *FakeLines) ConfigureInput(pin int, pullup bool) error {
	if f.ConfigureError != nil {
		return f.ConfigureError
	}

	f.Pullups[pin] = pullup
	f.Configures[pin]++
	return nil
}

// Read returns the level set by Set, or high if never set.
func (f *FakeLines) Read(pin int) (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}

	level, ok := f.levels[pin]
	if !ok {
		return true, nil
	}
	return level, nil
}

// Close marks the lines as closed.
func (f *FakeLines) Close() error {
	f.Closed = true
	return nil
}
