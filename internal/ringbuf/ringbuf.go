// Package ringbuf implements a bounded, content-addressable ring buffer
// over a single contiguous byte arena, plus an unbounded staging buffer
// that can be dumped into one. Items are never split across the arena's
// wrap boundary: once a write would overrun the remaining tail space,
// the write head jumps back to zero and the skipped tail is left
// untouched until the ring later wraps back around to it. Every item
// gets a monotonically increasing id that is never reused, and the only
// items ever evicted are the oldest ones whose byte range would be
// clobbered by an incoming write — eviction always happens from the
// front of the queue.
package ringbuf

import "fmt"

// ErrDataTooLarge is returned by Write when data is larger than the
// arena itself; the buffer is left unchanged.
var ErrDataTooLarge = fmt.Errorf("ringbuf: data larger than buffer capacity")

type itemData[M any] struct {
	start, length int
	meta          M
}

// Item is a single stored entry, identified by a stable id and carrying
// a view of its bytes directly into the ring's arena. The returned Data
// slice is only safe to read while the surrounding RingBuffer is not
// concurrently written (callers typically hold an external read lock
// for the duration of their use of Data).
type Item[M any] struct {
	ID   uint64
	Data []byte
	Meta M
}

// RingBuffer is a bounded FIFO of byte-slice items sharing one
// fixed-size arena, parameterized by an arbitrary metadata type M
// (the recorder package uses Metadata{IsKey bool}).
type RingBuffer[M any] struct {
	arena    []byte
	writeAt  int
	items    []itemData[M]
	idOffset uint64
}

// New allocates a RingBuffer backed by a capacity-byte arena.
func New[M any](capacity int) *RingBuffer[M] {
	return &RingBuffer[M]{arena: make([]byte, capacity)}
}

// Capacity returns the arena size in bytes.
func (r *RingBuffer[M]) Capacity() int {
	return len(r.arena)
}

// Len returns the number of live items currently held.
func (r *RingBuffer[M]) Len() int {
	return len(r.items)
}

// IsEmpty reports whether the buffer currently holds no items.
func (r *RingBuffer[M]) IsEmpty() bool {
	return len(r.items) == 0
}

// IDBounds returns the half-open range [min, max) of ids currently
// resolvable via Get. If the buffer is empty, min == max == the next id
// that would be assigned.
func (r *RingBuffer[M]) IDBounds() (min, max uint64) {
	return r.idOffset, r.idOffset + uint64(len(r.items))
}

// Get returns the item with the given id, if it is still live.
func (r *RingBuffer[M]) Get(id uint64) (Item[M], bool) {
	if id < r.idOffset {
		return Item[M]{}, false
	}
	idx := id - r.idOffset
	if idx >= uint64(len(r.items)) {
		return Item[M]{}, false
	}
	it := r.items[idx]
	return Item[M]{ID: id, Data: r.arena[it.start : it.start+it.length], Meta: it.meta}, true
}

// Iter calls yield for every live item, oldest first, stopping early if
// yield returns false.
func (r *RingBuffer[M]) Iter(yield func(Item[M]) bool) {
	for i, it := range r.items {
		id := r.idOffset + uint64(i)
		if !yield(Item[M]{ID: id, Data: r.arena[it.start : it.start+it.length], Meta: it.meta}) {
			return
		}
	}
}

// Write stores data as a new item with the given metadata, evicting the
// oldest items whose bytes would be overwritten. It returns
// ErrDataTooLarge, leaving the buffer unmodified, if data does not fit
// in the arena at all.
func (r *RingBuffer[M]) Write(data []byte, meta M) (uint64, error) {
	if len(data) > len(r.arena) {
		return 0, ErrDataTooLarge
	}

	writeAt := r.writeAt
	if writeAt+len(data) > len(r.arena) {
		writeAt = 0
	}

	for len(r.items) > 0 {
		front := r.items[0]
		if front.start < writeAt+len(data) && writeAt < front.start+front.length {
			r.items = r.items[1:]
			r.idOffset++
			continue
		}
		break
	}

	copy(r.arena[writeAt:writeAt+len(data)], data)
	r.items = append(r.items, itemData[M]{start: writeAt, length: len(data), meta: meta})
	r.writeAt = writeAt + len(data)
	if r.writeAt == len(r.arena) {
		r.writeAt = 0
	}

	return r.idOffset + uint64(len(r.items)-1), nil
}
