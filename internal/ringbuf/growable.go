package ringbuf

// GrowableBuffer is an unbounded staging arena sharing the same item
// model as RingBuffer, used by the encoder worker to hold frames ahead
// of a pre-buffering threshold before they are dumped into the bounded
// ring as a single flush.
type GrowableBuffer[M any] struct {
	arena []byte
	items []itemData[M]
}

// NewGrowable creates an empty staging buffer.
func NewGrowable[M any]() *GrowableBuffer[M] {
	return &GrowableBuffer[M]{}
}

// Len returns the number of staged items.
func (g *GrowableBuffer[M]) Len() int {
	return len(g.items)
}

// IsEmpty reports whether no items are staged.
func (g *GrowableBuffer[M]) IsEmpty() bool {
	return len(g.items) == 0
}

// Write appends data as a new staged item.
func (g *GrowableBuffer[M]) Write(data []byte, meta M) {
	start := len(g.arena)
	g.arena = append(g.arena, data...)
	g.items = append(g.items, itemData[M]{start: start, length: len(data), meta: meta})
}

// Iter calls yield for every staged item, oldest first.
func (g *GrowableBuffer[M]) Iter(yield func(data []byte, meta M) bool) {
	for _, it := range g.items {
		if !yield(g.arena[it.start:it.start+it.length], it.meta) {
			return
		}
	}
}

// DumpInto writes every staged item, in order, into ring, then clears
// the staging buffer. Returns ErrDataTooLarge without clearing if any
// staged item does not fit the ring's arena.
func (g *GrowableBuffer[M]) DumpInto(ring *RingBuffer[M]) error {
	for _, it := range g.items {
		if it.length > ring.Capacity() {
			return ErrDataTooLarge
		}
	}
	for _, it := range g.items {
		if _, err := ring.Write(g.arena[it.start:it.start+it.length], it.meta); err != nil {
			return err
		}
	}
	g.arena = g.arena[:0]
	g.items = g.items[:0]
	return nil
}
