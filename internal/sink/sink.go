// Package sink delivers sensor notifications and command acknowledgments.
// The core emits discrete tokens; how they are framed and transported is the
// sink implementation's business.
package sink

import (
	"fmt"
	"io"
)

// Notifier receives the tokens emitted by the core.
type Notifier interface {
	// Triggered reports a sensor activation. Emitted exactly once per
	// idle-to-active transition; the return to idle is silent.
	Triggered(id int) error

	// OK acknowledges a successful command.
	OK() error

	// Fail reports a failed command.
	Fail() error

	// Entry reports one sensor definition during enumeration.
	Entry(id, pin int, pullup bool) error

	// Close releases the underlying transport.
	Close() error
}

// WriterSink writes text tokens to an io.Writer, typically the serial
// console: <Qid> on trigger, <O> on success, <X> on failure and
// <Qid pin pullup> per enumerated sensor.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a sink writing tokens to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Triggered writes the activation token for a sensor.
func (s *WriterSink) Triggered(id int) error {
	_, err := fmt.Fprintf(s.w, "<Q%d>", id)
	return err
}

// OK writes the success token.
func (s *WriterSink) OK() error {
	_, err := io.WriteString(s.w, "<O>")
	return err
}

// Fail writes the failure token.
func (s *WriterSink) Fail() error {
	_, err := io.WriteString(s.w, "<X>")
	return err
}

// Entry writes one sensor definition token.
func (s *WriterSink) Entry(id, pin int, pullup bool) error {
	p := 0
	if pullup {
		p = 1
	}
	_, err := fmt.Fprintf(s.w, "<Q%d %d %d>", id, pin, p)
	return err
}

// Close is a no-op; the writer is owned by the caller.
func (s *WriterSink) Close() error {
	return nil
}
