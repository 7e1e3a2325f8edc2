package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// headerSize is the length of the file header: a little-endian uint16
// record count.
const headerSize = 2

// FileRegion is a file-backed Region — the host-side stand-in for the
// device's non-volatile memory. The record count lives in a 2-byte header
// at the start of the file, records follow.
type FileRegion struct {
	f      *os.File
	cursor int64
	count  int
}

// OpenFile opens (or creates) a file-backed region. A missing or truncated
// header reads as zero records.
func OpenFile(path string) (*FileRegion, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open region %s: %w", path, err)
	}

	r := &FileRegion{f: f}

	var hdr [headerSize]byte
	_, err = f.ReadAt(hdr[:], 0)
	switch {
	case err == nil:
		r.count = int(binary.LittleEndian.Uint16(hdr[:]))
	case errors.Is(err, io.EOF):
		// Fresh or truncated file: no records yet.
	default:
		f.Close()
		return nil, fmt.Errorf("read region header: %w", err)
	}

	return r, nil
}

// Rewind moves the cursor to the first record.
func (r *FileRegion) Rewind() {
	r.cursor = 0
}

// Read fills p from the cursor and advances.
func (r *FileRegion) Read(p []byte) error {
	if _, err := r.f.ReadAt(p, headerSize+r.cursor); err != nil {
		return fmt.Errorf("read region at %d: %w", r.cursor, err)
	}
	r.cursor += int64(len(p))
	return nil
}

// Write stores p at the cursor and advances.
func (r *FileRegion) Write(p []byte) error {
	if _, err := r.f.WriteAt(p, headerSize+r.cursor); err != nil {
		return fmt.Errorf("write region at %d: %w", r.cursor, err)
	}
	r.cursor += int64(len(p))
	return nil
}

// Count returns the record count read from the header.
func (r *FileRegion) Count() int {
	return r.count
}

// SetCount writes the record count to the header and syncs the file, so a
// power cut after Save never leaves a count pointing at unwritten records.
func (r *FileRegion) SetCount(n int) error {
	if n < 0 || n > 0xFFFF {
		return fmt.Errorf("count %d does not fit header", n)
	}

	var hdr [headerSize]byte
	binary.LittleEndian.PutUint16(hdr[:], uint16(n))
	if _, err := r.f.WriteAt(hdr[:], 0); err != nil {
		return fmt.Errorf("write region header: %w", err)
	}
	if err := r.f.Sync(); err != nil {
		return fmt.Errorf("sync region: %w", err)
	}

	r.count = n
	return nil
}

// Close closes the backing file.
func (r *FileRegion) Close() error {
	return r.f.Close()
}
