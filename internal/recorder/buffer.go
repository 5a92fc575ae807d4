package recorder

import (
	"sync"

	"github.com/five82/screencap/internal/ringbuf"
)

// EncodedBuffer composes the bounded ring that holds flushed chunks with
// the unbounded stage that accumulates chunks ahead of a flush. Reads
// and writes to the ring go through a shared RWMutex so concurrent
// EncodedBufferView readers never observe a torn write.
type EncodedBuffer struct {
	mu    sync.RWMutex
	ring  *ringbuf.RingBuffer[Metadata]
	stage *ringbuf.GrowableBuffer[Metadata]
}

// NewEncodedBuffer allocates an EncodedBuffer with a ring arena of the
// given byte capacity.
func NewEncodedBuffer(ringCapacity int) *EncodedBuffer {
	return &EncodedBuffer{
		ring:  ringbuf.New[Metadata](ringCapacity),
		stage: ringbuf.NewGrowable[Metadata](),
	}
}

// StageLen returns the number of chunks currently staged (not yet
// flushed into the ring).
func (b *EncodedBuffer) StageLen() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stage.Len()
}

// StageIsEmpty reports whether the stage currently holds no chunks.
func (b *EncodedBuffer) StageIsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stage.IsEmpty()
}

// Stage appends a chunk to the unbounded stage without flushing.
func (b *EncodedBuffer) Stage(data []byte, meta Metadata) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stage.Write(data, meta)
}

// WriteFlush writes data directly to the ring, bypassing the stage.
func (b *EncodedBuffer) WriteFlush(data []byte, meta Metadata) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.ring.Write(data, meta)
	return err
}

// Flush dumps every staged chunk into the ring, in order, and clears the
// stage.
func (b *EncodedBuffer) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stage.DumpInto(b.ring)
}

// View returns a cloneable handle for reading the ring.
func (b *EncodedBuffer) View() EncodedBufferView {
	return EncodedBufferView{buf: b}
}

// EncodedBufferView is a cloneable, read-only handle onto an
// EncodedBuffer's ring.
type EncodedBufferView struct {
	buf *EncodedBuffer
}

// Get calls fn with a read-locked reference to the ring. fn must not
// retain the reference past its return.
func (v EncodedBufferView) Get(fn func(*ringbuf.RingBuffer[Metadata])) {
	v.buf.mu.RLock()
	defer v.buf.mu.RUnlock()
	fn(v.buf.ring)
}

// OwnedGuard is a read lock on the ring that the holder releases
// explicitly, letting it cross a goroutine boundary the way the async
// adapter's helper goroutine hands a guard back to a waiting caller.
// Go has no type-system equivalent to a borrow checker here, so this is
// enforced by convention: call Release exactly once.
type OwnedGuard struct {
	ring    *ringbuf.RingBuffer[Metadata]
	release func()
}

// Ring returns the locked ring buffer.
func (g OwnedGuard) Ring() *ringbuf.RingBuffer[Metadata] {
	return g.ring
}

// Release unlocks the ring. Must be called exactly once.
func (g OwnedGuard) Release() {
	g.release()
}

// GetOwned acquires a read lock and returns it as a value the caller
// can hold past the call that produced it, releasing it explicitly with
// OwnedGuard.Release.
func (v EncodedBufferView) GetOwned() OwnedGuard {
	v.buf.mu.RLock()
	return OwnedGuard{ring: v.buf.ring, release: v.buf.mu.RUnlock}
}
