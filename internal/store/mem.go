package store

import (
	"errors"
	"fmt"
)

// MemRegion is an in-memory Region for tests.
type MemRegion struct {
	// Data holds the record area bytes.
	Data []byte

	// ReadError and WriteError, if set, will be returned by the
	// corresponding method.
	ReadError  error
	WriteError error

	cursor int
	count  int
}

// NewMemRegion creates an empty in-memory region.
func NewMemRegion() *MemRegion {
	return &MemRegion{}
}

// Rewind moves the cursor to the start.
func (m *MemRegion) Rewind() {
	m.cursor = 0
}

// Read fills p from the cursor and advances.
func (m *MemRegion) Read(p []byte) error {
	if m.ReadError != nil {
		return m.ReadError
	}
	if m.cursor+len(p) > len(m.Data) {
		return errors.New("read past end of region")
	}
	copy(p, m.Data[m.cursor:])
	m.cursor += len(p)
	return nil
}

// Write stores p at the cursor and advances, growing the region as needed.
func (m *MemRegion) Write(p []byte) error {
	if m.WriteError != nil {
		return m.WriteError
	}
	for m.cursor+len(p) > len(m.Data) {
		m.Data = append(m.Data, 0)
	}
	copy(m.Data[m.cursor:], p)
	m.cursor += len(p)
	return nil
}

// Count returns the stored record count.
func (m *MemRegion) Count() int {
	return m.count
}

// SetCount stores the record count.
func (m *MemRegion) SetCount(n int) error {
	if n < 0 {
		return fmt.Errorf("negative count %d", n)
	}
	m.count = n
	return nil
}
