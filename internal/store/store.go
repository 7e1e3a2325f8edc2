// Package store persists sensor definitions to a non-volatile region.
// Records are written sequentially through a cursor, with the record count
// kept in a header owned by the region. Runtime filter state is never
// persisted; loading recreates every sensor in its idle state.
package store

import (
	"encoding/binary"
	"fmt"

	"github.com/sweeney/input-sensor/internal/registry"
)

// RecordSize is the fixed on-device size of one sensor record:
// id (int16) + pin (int16) + pullup (1 byte).
const RecordSize = 5

// Region is a flat append-style byte region with a cursor. Read and Write
// transfer exactly len(p) bytes at the cursor and advance it; the record
// count header lives outside the cursor-addressed area.
type Region interface {
	// Rewind moves the cursor back to the start of the record area.
	Rewind()

	// Read fills p from the cursor position and advances.
	Read(p []byte) error

	// Write stores p at the cursor position and advances.
	Write(p []byte) error

	// Count returns the record count from the shared header.
	Count() int

	// SetCount writes the record count to the shared header.
	SetCount(n int) error
}

func marshalRecord(rec registry.Record) []byte {
	b := make([]byte, RecordSize)
	binary.LittleEndian.PutUint16(b[0:2], uint16(rec.ID))
	binary.LittleEndian.PutUint16(b[2:4], uint16(rec.Pin))
	if rec.Pullup {
		b[4] = 1
	}
	return b
}

func unmarshalRecord(b []byte) registry.Record {
	return registry.Record{
		ID:     int16(binary.LittleEndian.Uint16(b[0:2])),
		Pin:    int16(binary.LittleEndian.Uint16(b[2:4])),
		Pullup: b[4] != 0,
	}
}

// Save writes every sensor record to the region in registry order and
// records the count in the header. Each call is a full rewrite from the
// start of the region.
func Save(reg *registry.Registry, r Region) error {
	r.Rewind()

	var n int
	var werr error
	reg.Each(func(rec registry.Record) bool {
		if werr = r.Write(marshalRecord(rec)); werr != nil {
			return false
		}
		n++
		return true
	})
	if werr != nil {
		return fmt.Errorf("write record %d: %w", n, werr)
	}

	if err := r.SetCount(n); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	return nil
}

// Load reads exactly count records from the start of the region and replays
// each through Create, so pins are reconfigured and filter state starts
// idle. Record content is trusted: the region is private to this device.
func Load(r Region, count int, reg *registry.Registry) error {
	r.Rewind()

	buf := make([]byte, RecordSize)
	for i := 0; i < count; i++ {
		if err := r.Read(buf); err != nil {
			return fmt.Errorf("read record %d: %w", i, err)
		}

		rec := unmarshalRecord(buf)
		if _, err := reg.Create(int(rec.ID), int(rec.Pin), rec.Pullup); err != nil {
			return fmt.Errorf("restore sensor %d: %w", rec.ID, err)
		}
	}
	return nil
}
