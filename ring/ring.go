// Package ring implements the single-producer single-consumer byte FIFO
// §4.1 specifies as the hand-off between the UART RX interrupt context and
// the cooperative PCAPNG parser task: a power-of-two capacity buffer with
// lock-free put/get for the one-writer/one-reader case.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package ring

import "sync/atomic"

// Buffer is a fixed-capacity SPSC byte ring. The zero value is not usable;
// construct with New. A Buffer must have exactly one producer goroutine
// calling Put and exactly one consumer goroutine calling Get/Read; under
// that discipline no locking is required; read/write cursors are plain
// atomic loads/stores, the same indexing technique used to hand packet
// records from a dataplane ring to a single reader goroutine.
type Buffer struct {
	data []byte
	mask uint32

	writeIdx uint32
	readIdx  uint32

	wake chan struct{}
}

// New constructs a Buffer with the given capacity, which must be a power
// of two; New panics otherwise, mirroring pcapng.NewParser's same
// requirement for the same reason (mask-based indexing needs it).
func New(capacity int) *Buffer {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		panic("ring: capacity must be a power of two")
	}
	return &Buffer{
		data: make([]byte, capacity),
		mask: uint32(capacity) - 1,
		wake: make(chan struct{}, 1),
	}
}

// Put appends b to the ring, returning false if it is full. Called only
// from the producer (transport/tamagouart's RX pump goroutine, standing in
// for the UART RX interrupt context on bare metal). On success, the consumer is
// signaled to wake via a non-blocking send on Wake().
func (r *Buffer) Put(b byte) bool {
	w := atomic.LoadUint32(&r.writeIdx)
	read := atomic.LoadUint32(&r.readIdx)

	if w-read >= uint32(len(r.data)) {
		return false
	}

	r.data[w&r.mask] = b
	atomic.StoreUint32(&r.writeIdx, w+1)

	select {
	case r.wake <- struct{}{}:
	default:
	}
	return true
}

// Get removes and returns the oldest byte, reporting false if the ring is
// empty. Called only from the consumer task.
func (r *Buffer) Get() (byte, bool) {
	read := atomic.LoadUint32(&r.readIdx)
	w := atomic.LoadUint32(&r.writeIdx)

	if read == w {
		return 0, false
	}

	b := r.data[read&r.mask]
	atomic.StoreUint32(&r.readIdx, read+1)
	return b, true
}

// Len reports the number of unread bytes currently buffered.
func (r *Buffer) Len() int {
	return int(atomic.LoadUint32(&r.writeIdx) - atomic.LoadUint32(&r.readIdx))
}

// Wake returns the channel the consumer should select on after draining
// the ring with Get, per §4.1 "the task is signaled to wake" and §5's
// "PCAPNG task: after exhausting the ring buffer, yields until next wake."
func (r *Buffer) Wake() <-chan struct{} {
	return r.wake
}

// Drain calls fn for every currently buffered byte, in order, stopping
// when the ring reports empty. It is a convenience for feeding a
// pcapng.Parser from the consumer task's wake loop.
func (r *Buffer) Drain(fn func(byte)) {
	for {
		b, ok := r.Get()
		if !ok {
			return
		}
		fn(b)
	}
}
