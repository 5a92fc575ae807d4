// Package recorder ties a capture worker to an encoder worker and a
// shared encoded-chunk buffer, exposing the combination as a single
// facade: construct it, read its headers once, then pull flushes or
// individual encode results as they arrive.
package recorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/five82/screencap/internal/capture"
	"github.com/five82/screencap/internal/onceresult"
	"github.com/five82/screencap/internal/threadloop"
)

// Config configures a Recorder.
type Config struct {
	// EncoderFactory builds the Encoder on the recorder's dedicated
	// worker thread.
	EncoderFactory EncoderFactory
	// Timebase is encode pts ticks per second: the rational timebase's
	// numerator is fixed at 1, this value is the denominator.
	Timebase int64
	// TargetRate paces the encode worker, in calls per second.
	// math.Inf(1) or <=0 disables pacing.
	TargetRate float64
	// RingCapacity is the encoded ring's arena size in bytes.
	RingCapacity int
	// BufferedFrames is the pre-buffering depth: 0 flushes every
	// encoded chunk directly; >0 coalesces up to that many chunks
	// before flushing.
	BufferedFrames int
}

type headersOrErr struct {
	headers []byte
	err     error
}

// Recorder drives one capture worker and one encode worker, publishing
// encoded output through a shared EncodedBuffer.
type Recorder struct {
	encodeLoop *threadloop.Loop[Result]
	capturer   *capture.Capturer
	buf        *EncodedBuffer
	headers    *onceresult.OnceResult[headersOrErr]
}

// New starts capturing from grab and encoding via cfg.EncoderFactory,
// blocking until the encoder publishes its headers or fails to
// construct.
func New(grab capture.Grabber, captureRate float64, cfg Config) (*Recorder, error) {
	capturer := capture.New(grab, captureRate)
	buf := NewEncodedBuffer(cfg.RingCapacity)
	headers := onceresult.New[headersOrErr]()

	r := &Recorder{
		capturer: capturer,
		buf:      buf,
		headers:  headers,
	}

	r.encodeLoop = threadloop.New[Result](func() threadloop.Worker[Result] {
		encoder, err := cfg.EncoderFactory()
		if err != nil {
			headers.Set(headersOrErr{err: err})
			return &encodeWorker{constructionErr: err}
		}
		headers.Set(headersOrErr{headers: encoder.Headers()})
		return &encodeWorker{
			capturer:       capturer,
			encoder:        encoder,
			buf:            buf,
			timebase:       cfg.Timebase,
			bufferedFrames: cfg.BufferedFrames,
			startTime:      time.Now(),
		}
	}, cfg.TargetRate)

	if h := headers.Wait(); h.err != nil {
		r.Close()
		return nil, fmt.Errorf("recorder: encoder construction failed: %w", h.err)
	}

	return r, nil
}

// Headers returns the encoder's out-of-band bitstream headers.
func (r *Recorder) Headers() []byte {
	return r.headers.Wait().headers
}

// DataBuffer blocks for the next encode-worker result, draining any
// further buffered results and keeping the last non-Skipped error seen,
// then returns the ring buffer's owning read guard. Callers must call
// Release on the returned guard exactly once.
func (r *Recorder) DataBuffer() (OwnedGuard, error) {
	_, err := r.nextResult()
	if err != nil {
		return OwnedGuard{}, err
	}
	return r.buf.View().GetOwned(), nil
}

// BlockUntilNextFlush blocks until an encode-worker iteration reports
// Flushed, discarding Skipped and PreBuffered results along the way.
func (r *Recorder) BlockUntilNextFlush() error {
	for {
		res, err := r.nextResult()
		if err != nil {
			return err
		}
		if res.Status == Flushed {
			return nil
		}
	}
}

// DataBufferView returns a cloneable handle for reading the encoded
// ring buffer without waiting for the next result.
func (r *Recorder) DataBufferView() EncodedBufferView {
	return r.buf.View()
}

// ErrClosed is returned once the encode worker's dedicated thread has
// stopped and has no further buffered results to deliver.
var ErrClosed = errors.New("recorder: closed")

// Poll blocks for the next encode-worker result, then non-blockingly
// drains any further buffered results, returning the last non-Skipped
// result's status alongside the last error seen among them (nil if none
// of them failed). It is the building block both
// DataBuffer/BlockUntilNextFlush and the asyncadapter package use.
func (r *Recorder) Poll() (Result, error) {
	return r.nextResult()
}

func (r *Recorder) nextResult() (Result, error) {
	res, ok := r.encodeLoop.Recv()
	if !ok {
		return Result{}, ErrClosed
	}

	last := res
	err := res.Err
	r.encodeLoop.Iter(func(next Result) {
		if next.Status == Skipped && next.Err == nil {
			return
		}
		last = next
		if next.Err != nil {
			err = next.Err
		}
	})

	return last, err
}

// Close requests the capture and encode workers' dedicated threads
// stop. It does not block on either thread actually exiting.
func (r *Recorder) Close() {
	r.encodeLoop.Join()
	r.capturer.Close()
}
