// Package asyncadapter bridges the recorder's blocking-pull worker
// model to callers that want a single suspension point per request
// (the Go idiom for what a cooperative-scheduling runtime would call an
// awaitable). Two dedicated-thread helper goroutines do the work: one
// blocks on the recorder's next result and dispatches queued requests,
// the other acquires the ring's read lock on behalf of whichever
// request is ready to resolve, so lock acquisition never happens on the
// hot polling path.
package asyncadapter

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/screencap/internal/recorder"
)

// closeWait bounds how long Close waits for the helper goroutines to
// exit before giving up. The recorder is expected to be closed before
// the adapter, which is what actually unblocks a helper parked in
// Poll; this is a backstop, not the normal path.
const closeWait = 5 * time.Second

// GuardResult is what a queued request resolves to: either an owning read guard
// on the encoded ring, or an error. Exactly one of the two is set.
type GuardResult struct {
	Guard recorder.OwnedGuard
	Err   error
}

type requestKind int

const (
	kindFrame requestKind = iota
	kindFlush
)

type request struct {
	kind requestKind
	dest chan GuardResult
}

type dataRequest struct {
	err  error
	dest chan GuardResult
}

// Adapter drives a Recorder and serves WaitForFrame/WaitForNextFlush
// requests from any number of concurrent callers.
type Adapter struct {
	recorder *recorder.Recorder

	dataReqCh chan dataRequest

	mu           sync.Mutex
	incoming     []request
	pendingFlush []request

	stop chan struct{}
	g    *errgroup.Group
}

// New starts the adapter's two helper goroutines over rec.
func New(rec *recorder.Recorder) *Adapter {
	g := new(errgroup.Group)
	a := &Adapter{
		recorder:  rec,
		dataReqCh: make(chan dataRequest, 64),
		stop:      make(chan struct{}),
		g:         g,
	}
	g.Go(func() error { a.runDataBufferHelper(); return nil })
	g.Go(func() error { a.runRecorderHelper(); return nil })
	return a
}

// WaitForFrame resolves as soon as the next encode-worker iteration
// completes, regardless of its status, delivering the encoded ring's
// current contents (or the iteration's error).
func (a *Adapter) WaitForFrame(ctx context.Context) (recorder.OwnedGuard, error) {
	return a.wait(ctx, kindFrame)
}

// WaitForNextFlush resolves once an iteration reports Flushed (or
// errors), never on Skipped or PreBuffered.
func (a *Adapter) WaitForNextFlush(ctx context.Context) (recorder.OwnedGuard, error) {
	return a.wait(ctx, kindFlush)
}

func (a *Adapter) wait(ctx context.Context, kind requestKind) (recorder.OwnedGuard, error) {
	dest := make(chan GuardResult, 1)
	a.mu.Lock()
	a.incoming = append(a.incoming, request{kind: kind, dest: dest})
	a.mu.Unlock()

	select {
	case <-ctx.Done():
		return recorder.OwnedGuard{}, ctx.Err()
	case res := <-dest:
		return res.Guard, res.Err
	}
}

// runRecorderHelper blocks on the recorder's result stream and, after
// every iteration, performs one centralized drain of queued requests:
// frame-waiters always resolve immediately; flush-waiters resolve
// immediately if this iteration was Flushed or errored, otherwise they
// are parked; parked flush-waiters are then woken, all at once, exactly
// when this iteration was Flushed or errored. There is deliberately one
// drain site, not two, so a flush-waiter can never be resolved twice or
// missed across iterations.
func (a *Adapter) runRecorderHelper() {
	defer close(a.dataReqCh) // a.dataReqCh's sole sender
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for {
		select {
		case <-a.stop:
			a.mu.Lock()
			waiting := append(a.incoming, a.pendingFlush...)
			a.incoming = nil
			a.mu.Unlock()
			a.pendingFlush = nil
			for _, req := range waiting {
				a.dataReqCh <- dataRequest{err: recorder.ErrClosed, dest: req.dest}
			}
			return
		default:
		}

		result, err := a.recorder.Poll()
		status := result.Status
		exited := errors.Is(err, recorder.ErrClosed)

		a.mu.Lock()
		incoming := a.incoming
		a.incoming = nil
		a.mu.Unlock()

		for _, req := range incoming {
			switch req.kind {
			case kindFrame:
				a.dataReqCh <- dataRequest{err: err, dest: req.dest}
			case kindFlush:
				if status == recorder.Flushed || err != nil {
					a.dataReqCh <- dataRequest{err: err, dest: req.dest}
				} else {
					a.pendingFlush = append(a.pendingFlush, req)
				}
			}
		}

		if status == recorder.Flushed || err != nil {
			pending := a.pendingFlush
			a.pendingFlush = nil
			for _, req := range pending {
				a.dataReqCh <- dataRequest{err: err, dest: req.dest}
			}
		}

		if exited {
			return
		}
	}
}

func (a *Adapter) runDataBufferHelper() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for req := range a.dataReqCh {
		if req.err != nil {
			req.dest <- GuardResult{Err: req.err}
			continue
		}
		req.dest <- GuardResult{Guard: a.recorder.DataBufferView().GetOwned()}
	}
}

// Close requests both helper goroutines stop and waits up to closeWait
// for them to actually exit. Any request still waiting when Close is
// called resolves with recorder.ErrClosed once the recorder itself is
// closed (callers are expected to close the Recorder first, which is
// what unblocks a helper parked in Poll).
func (a *Adapter) Close() {
	select {
	case <-a.stop:
		return
	default:
		close(a.stop)
	}

	done := make(chan struct{})
	go func() {
		_ = a.g.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(closeWait):
	}
}
