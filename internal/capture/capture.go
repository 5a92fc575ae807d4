// Package capture drives a platform screen-grab primitive on a
// dedicated thread and hands the latest frame to callers with
// at-most-one-behind semantics: the capturer never blocks the grab
// loop waiting on a slow reader, and never shows a reader a frame older
// than the one before its most recent call.
package capture

import (
	"errors"

	"github.com/five82/screencap/internal/multibuf"
	"github.com/five82/screencap/internal/threadloop"
)

// ErrWouldBlock is returned by Display.Frame when no new frame is ready
// yet. The capture worker treats this as a Skipped iteration rather
// than an error.
var ErrWouldBlock = errors.New("capture: would block")

// Display is the platform screen-grab primitive this package drives.
// Implementations live outside this module's core; Frame must return
// ErrWouldBlock rather than blocking when no frame is ready.
type Display interface {
	Frame() ([]byte, error)
	Width() int
	Height() int
}

// Grabber constructs a Display on the capture worker's dedicated
// thread, so implementations backed by non-thread-movable platform
// handles behave correctly.
type Grabber func() (Display, error)

// result is what one Work() iteration produces.
type result struct {
	skipped bool
	err     error
}

type worker struct {
	display Display
	buf     *multibuf.MultiBuffer[[]byte]
	err     error // construction error, surfaced on the first iteration
}

func (w *worker) Work() result {
	if w.display == nil {
		return result{err: w.err}
	}

	frame, err := w.display.Frame()
	if errors.Is(err, ErrWouldBlock) {
		return result{skipped: true}
	}
	if err != nil {
		return result{err: err}
	}

	back := w.buf.BackMut()
	if cap(*back) < len(frame) {
		*back = make([]byte, len(frame))
	}
	*back = (*back)[:len(frame)]
	copy(*back, frame)
	w.buf.Swap()
	return result{}
}

// Capturer exposes the latest captured frame with at-most-one-behind
// semantics: Frame blocks for the next worker result, then drains any
// further buffered results without blocking, reporting the last
// non-skip error among them.
type Capturer struct {
	loop *threadloop.Loop[result]
	buf  *multibuf.MultiBuffer[[]byte]
}

// New spawns the capture worker's dedicated thread and begins pulling
// frames from grab at targetRate calls per second.
func New(grab Grabber, targetRate float64) *Capturer {
	buf := multibuf.New[[]byte]()
	c := &Capturer{buf: buf}
	c.loop = threadloop.New[result](func() threadloop.Worker[result] {
		display, err := grab()
		return &worker{display: display, buf: buf, err: err}
	}, targetRate)
	return c
}

// Frame blocks until the next capture-worker result, then, unless that
// read was Skipped, fn is called with a read-locked view of the newest
// frame. Returns skipped=true if the read (and every further buffered
// result drained alongside it) was Skipped, without calling fn. Returns
// the most recent non-skip error observed since the previous call, if
// any, in which case fn is not called either.
func (c *Capturer) Frame(fn func(frame []byte)) (skipped bool, err error) {
	r, ok := c.loop.Recv()
	if !ok {
		return false, errors.New("capture: worker exited")
	}
	sawNonSkip := !r.skipped
	var lastErr error
	if !r.skipped && r.err != nil {
		lastErr = r.err
	}

	c.loop.Iter(func(next result) {
		if next.skipped {
			return
		}
		sawNonSkip = true
		if next.err != nil {
			lastErr = next.err
		}
	})

	if lastErr != nil {
		return false, lastErr
	}
	if !sawNonSkip {
		return true, nil
	}

	c.buf.Front(func(frame *[]byte) { fn(*frame) })
	return false, nil
}

// Close requests the capture worker's dedicated thread stop.
func (c *Capturer) Close() {
	c.loop.Join()
}
