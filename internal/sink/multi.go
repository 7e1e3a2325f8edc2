package sink

import "errors"

// MultiSink fans every token out to several notifiers. A failing notifier
// does not stop delivery to the others; errors are joined.
type MultiSink struct {
	sinks []Notifier
}

// NewMultiSink creates a fan-out over the given notifiers.
func NewMultiSink(sinks ...Notifier) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Triggered delivers the activation to all notifiers.
func (m *MultiSink) Triggered(id int) error {
	return m.each(func(s Notifier) error { return s.Triggered(id) })
}

// OK delivers the success token to all notifiers.
func (m *MultiSink) OK() error {
	return m.each(func(s Notifier) error { return s.OK() })
}

// Fail delivers the failure token to all notifiers.
func (m *MultiSink) Fail() error {
	return m.each(func(s Notifier) error { return s.Fail() })
}

// Entry delivers the definition token to all notifiers.
func (m *MultiSink) Entry(id, pin int, pullup bool) error {
	return m.each(func(s Notifier) error { return s.Entry(id, pin, pullup) })
}

// Close closes all notifiers.
func (m *MultiSink) Close() error {
	return m.each(func(s Notifier) error { return s.Close() })
}

func (m *MultiSink) each(fn func(Notifier) error) error {
	var errs []error
	for _, s := range m.sinks {
		if err := fn(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
