// Package registry maintains the set of monitored digital input sensors.
// The registry owns all sensor entries; other components reach them only
// through its methods and must not retain references across mutations.
package registry

import (
	"errors"
	"fmt"

	"github.com/sweeney/input-sensor/internal/gpio"
)

// MaxID is the largest accepted sensor id. Ids are stored in a signed
// 16-bit field, so the documented contract is the non-negative half.
const MaxID = 32767

var (
	// ErrNotFound is returned when no sensor with the requested id exists.
	ErrNotFound = errors.New("sensor not found")

	// ErrIDRange is returned when an id falls outside 0..MaxID.
	ErrIDRange = errors.New("sensor id out of range")

	// ErrCapacity is returned when the registry is full.
	ErrCapacity = errors.New("registry full")
)

// Record holds the persisted definition of a sensor.
type Record struct {
	ID     int16
	Pin    int16
	Pullup bool
}

// Sensor is a live registry entry: the persisted record plus the
// debounce filter state, which is never persisted.
type Sensor struct {
	Record

	// Signal is the smoothed pin level in [0, 1]. New entries start at
	// 1.0 (electrically high, sensor idle).
	Signal float64

	// Active is the current debounced activation state.
	Active bool
}

// Registry is an ordered collection of sensors. Lookup is a linear scan —
// collections are small on the target hardware and an index would cost more
// than it saves.
type Registry struct {
	lines   gpio.Lines
	sensors []*Sensor
	max     int
}

// New creates an empty registry. Created sensors have their pins configured
// through lines. max caps the number of entries; 0 means unlimited.
func New(lines gpio.Lines, max int) *Registry {
	return &Registry{
		lines: lines,
		max:   max,
	}
}

// Create adds a sensor, or overwrites the existing sensor with the same id
// in place. The pin is configured as an input (with pull-up per pullup) and
// the filter state is reset to idle. On error nothing changes.
func (r *Registry) Create(id, pin int, pullup bool) (*Sensor, error) {
	if id < 0 || id > MaxID {
		return nil, fmt.Errorf("%w: %d", ErrIDRange, id)
	}

	s, _ := r.Lookup(id)
	if s == nil && r.max > 0 && len(r.sensors) == r.max {
		return nil, fmt.Errorf("%w: %d sensors", ErrCapacity, r.max)
	}

	// Configure hardware before touching the collection so a failed
	// create leaves the registry unchanged.
	if err := r.lines.ConfigureInput(pin, pullup); err != nil {
		return nil, fmt.Errorf("configure pin %d: %w", pin, err)
	}

	if s == nil {
		s = &Sensor{}
		r.sensors = append(r.sensors, s)
	}

	s.Record = Record{ID: int16(id), Pin: int16(pin), Pullup: pullup}
	s.Signal = 1.0
	s.Active = false

	return s, nil
}

// Lookup returns the sensor with the given id, or (nil, false).
func (r *Registry) Lookup(id int) (*Sensor, bool) {
	for _, s := range r.sensors {
		if int(s.ID) == id {
			return s, true
		}
	}
	return nil, false
}

// Remove deletes the sensor with the given id, preserving the order of the
// remaining entries.
func (r *Registry) Remove(id int) error {
	for i, s := range r.sensors {
		if int(s.ID) == id {
			r.sensors = append(r.sensors[:i], r.sensors[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrNotFound, id)
}

// Each calls fn for every sensor record in insertion order until fn returns
// false. It never touches filter state and may be restarted at any time.
func (r *Registry) Each(fn func(Record) bool) {
	for _, s := range r.sensors {
		if !fn(s.Record) {
			return
		}
	}
}

// Sensors returns the live entries in insertion order for the per-tick
// scan. The slice is owned by the registry: callers must not hold it across
// Create or Remove calls.
func (r *Registry) Sensors() []*Sensor {
	return r.sensors
}

// Len returns the number of registered sensors.
func (r *Registry) Len() int {
	return len(r.sensors)
}
