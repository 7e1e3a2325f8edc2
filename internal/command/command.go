// Package command dispatches parsed sensor commands against the registry.
// Tokenizing the incoming text belongs to the transport; this package only
// sees integer argument lists and answers with sink tokens.
package command

import (
	"errors"
	"fmt"

	"github.com/sweeney/input-sensor/internal/registry"
	"github.com/sweeney/input-sensor/internal/sink"
)

// ErrArgCount is returned for a command with an unsupported arity.
var ErrArgCount = errors.New("invalid argument count")

// Dispatcher routes commands to the registry and acknowledges them on the
// sink: OK on success, Fail on any error.
type Dispatcher struct {
	reg  *registry.Registry
	sink sink.Notifier
}

// New creates a dispatcher over the given registry and sink.
func New(reg *registry.Registry, s sink.Notifier) *Dispatcher {
	return &Dispatcher{
		reg:  reg,
		sink: s,
	}
}

// Handle executes one command, selected by arity:
//
//	3 args  id pin pullup — create or overwrite a sensor
//	1 arg   id            — remove a sensor
//	0 args                — enumerate all sensors
//
// Any other arity fails. The returned error carries the cause for logging;
// the sink token is the protocol-visible outcome either way.
func (d *Dispatcher) Handle(args []int) error {
	switch len(args) {
	case 3:
		return d.ack(d.create(args[0], args[1], args[2]))
	case 1:
		return d.ack(d.reg.Remove(args[0]))
	case 0:
		return d.enumerate()
	default:
		d.sink.Fail()
		return fmt.Errorf("%w: %d", ErrArgCount, len(args))
	}
}

func (d *Dispatcher) create(id, pin, pullup int) error {
	_, err := d.reg.Create(id, pin, pullup != 0)
	return err
}

// enumerate emits one definition token per sensor, or the failure token for
// an empty registry.
func (d *Dispatcher) enumerate() error {
	if d.reg.Len() == 0 {
		d.sink.Fail()
		return nil
	}

	var serr error
	d.reg.Each(func(rec registry.Record) bool {
		serr = d.sink.Entry(int(rec.ID), int(rec.Pin), rec.Pullup)
		return serr == nil
	})
	return serr
}

func (d *Dispatcher) ack(err error) error {
	if err != nil {
		d.sink.Fail()
		return err
	}
	return d.sink.OK()
}
