// Package threadloop provides a generic dedicated-thread work loop: a
// factory builds a Worker on its own OS thread (so non-thread-movable
// platform resources, such as many capture and encoder handles, can be
// constructed and used from a single consistent thread for their whole
// lifetime), and the loop calls Work repeatedly at a paced rate,
// delivering every result to the consumer through an unbounded queue.
package threadloop

import (
	"runtime"
	"time"
)

// Worker performs one unit of work per call to Work and returns its
// result. Implementations run exclusively on the loop's dedicated OS
// thread.
type Worker[R any] interface {
	Work() R
}

type controlMsg int

const (
	msgJoin controlMsg = iota
)

// Loop drives a Worker on a dedicated OS thread at a paced rate and
// exposes its results through a consumer-side channel-backed dispatch
// API.
type Loop[R any] struct {
	control chan controlMsg
	results *unboundedQueue[R]
	done    chan struct{}
}

// New spawns the loop's dedicated goroutine, builds the Worker via
// factory on that goroutine, and begins calling Work at targetRate calls
// per second (math.Inf(1) or <=0 for unpaced).
func New[R any](factory func() Worker[R], targetRate float64) *Loop[R] {
	l := &Loop[R]{
		control: make(chan controlMsg, 1),
		results: newUnboundedQueue[R](),
		done:    make(chan struct{}),
	}
	go l.run(factory, targetRate)
	return l
}

func (l *Loop[R]) run(factory func() Worker[R], targetRate float64) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.done)
	defer l.results.close()

	w := factory()
	pacer := newRatePacer(targetRate)

	for {
		select {
		case msg := <-l.control:
			if msg == msgJoin {
				return
			}
		default:
		}

		pacer.Wait()
		l.results.push(w.Work())
	}
}

// Join requests that the loop stop after its current iteration. It does
// not block on the dedicated thread actually exiting; use Exited to wait
// for that if needed. Safe to call more than once.
func (l *Loop[R]) Join() {
	select {
	case l.control <- msgJoin:
	default:
	}
}

// Exited returns a channel that is closed once the dedicated goroutine
// has stopped.
func (l *Loop[R]) Exited() <-chan struct{} {
	return l.done
}

// TryIter returns the oldest buffered result without blocking. ok is
// false if none is currently available.
func (l *Loop[R]) TryIter() (R, bool) {
	return l.results.tryPop()
}

// Recv blocks until a result is available or the loop has exited with
// nothing left buffered.
func (l *Loop[R]) Recv() (R, bool) {
	return l.results.pop()
}

// RecvTimeout blocks until a result is available, the loop exits, or the
// timeout elapses.
func (l *Loop[R]) RecvTimeout(d time.Duration) (R, bool) {
	return l.results.popTimeout(d)
}

// Iter calls fn for every buffered result without blocking, stopping
// when the queue is currently empty.
func (l *Loop[R]) Iter(fn func(R)) {
	for {
		v, ok := l.TryIter()
		if !ok {
			return
		}
		fn(v)
	}
}
