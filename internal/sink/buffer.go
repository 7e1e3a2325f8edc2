package sink

import "log"

// ringBuffer is a fixed-capacity FIFO holding trigger payloads while the
// broker is unreachable. Not safe for concurrent use — the daemon runs all
// sink calls on one goroutine.
type ringBuffer struct {
	buf      [][]byte
	capacity int
	head     int // next write position
	count    int
	overflow bool // true if any payload was dropped since last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{
		buf:      make([][]byte, capacity),
		capacity: capacity,
	}
}

func (r *ringBuffer) push(payload []byte) {
	if r.count == r.capacity {
		if !r.overflow {
			log.Printf("sink: trigger buffer full (%d), dropping oldest", r.capacity)
			r.overflow = true
		}
		// Overwrite oldest: head is already pointing at it
		r.buf[r.head] = payload
		r.head = (r.head + 1) % r.capacity
		return
	}
	r.buf[r.head] = payload
	r.head = (r.head + 1) % r.capacity
	r.count++
}

func (r *ringBuffer) drainAll() [][]byte {
	if r.count == 0 {
		return nil
	}

	result := make([][]byte, r.count)
	// Oldest payload is at (head - count) mod capacity
	start := (r.head - r.count + r.capacity) % r.capacity
	for i := 0; i < r.count; i++ {
		result[i] = r.buf[(start+i)%r.capacity]
	}

	r.count = 0
	r.head = 0
	r.overflow = false
	return result
}

func (r *ringBuffer) len() int {
	return r.count
}
