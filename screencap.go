// Package screencap provides a Go library for capturing a display and
// encoding it to H.264 into a bounded, shareable ring buffer.
//
// Screencap continuously grabs frames from a display at one pace,
// encodes them at another, and keeps only the most recent window of
// encoded data in memory — a consumer can ask for that window at any
// time without pausing the recording.
//
// Basic usage:
//
//	rec, err := screencap.New(grabber, encoderFactory,
//	    screencap.WithCaptureRate(60),
//	    screencap.WithBufferedFrames(30),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rec.Close()
//
//	guard, err := rec.DataBuffer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer guard.Release()
package screencap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/five82/screencap/internal/asyncadapter"
	"github.com/five82/screencap/internal/capture"
	"github.com/five82/screencap/internal/config"
	"github.com/five82/screencap/internal/diag"
	"github.com/five82/screencap/internal/recorder"
	"github.com/five82/screencap/internal/reporter"
	"github.com/five82/screencap/internal/ringbuf"
)

// Display is the interface a capture source must implement.
type Display = capture.Display

// Grabber opens (or reopens) a Display.
type Grabber = capture.Grabber

// Encoder turns raw frames into an H.264 bitstream.
type Encoder = recorder.Encoder

// Image is a single raw captured frame.
type Image = recorder.Image

// EncoderFactory builds an Encoder on the encode worker's dedicated thread.
type EncoderFactory = recorder.EncoderFactory

// Metadata describes one item written into the encoded ring buffer.
type Metadata = recorder.Metadata

// EncodedChunk is one unit of H.264 bitstream data plus its metadata.
type EncodedChunk = recorder.EncodedChunk

// OwnedGuard holds a read lock over the encoded ring buffer across a
// goroutine boundary. Call Release exactly once when done.
type OwnedGuard = recorder.OwnedGuard

// ErrClosed is returned by DataBuffer and BlockUntilNextFlush once the
// Recorder has been closed.
var ErrClosed = recorder.ErrClosed

// Option configures a Recorder.
type Option func(*config.Config)

// WithBufferedFrames sets how many encoded frames are staged before
// they are committed to the ring buffer as a unit. 0 commits every
// frame immediately.
func WithBufferedFrames(n int) Option {
	return func(c *config.Config) { c.BufferedFrames = n }
}

// WithTimebase sets the PTS timebase, in ticks per second.
func WithTimebase(timebase int64) Option {
	return func(c *config.Config) { c.Timebase = timebase }
}

// WithCaptureRate sets the target capture rate in frames per second.
func WithCaptureRate(fps float64) Option {
	return func(c *config.Config) { c.CaptureRate = fps }
}

// WithEncodeRate sets the target encode rate in frames per second.
func WithEncodeRate(fps float64) Option {
	return func(c *config.Config) { c.EncodeRate = fps }
}

// WithRingCapacity overrides the resolution-tiered default ring
// capacity with a fixed byte count.
func WithRingCapacity(bytes int) Option {
	return func(c *config.Config) {
		c.RingCapacitySD = bytes
		c.RingCapacityHD = bytes
		c.RingCapacityUHD = bytes
	}
}

// Recorder captures a display and encodes it into a bounded encoded
// ring buffer, reporting lifecycle events to an optional Reporter.
//
// The underlying encode-worker result stream has exactly one sanctioned
// reader: the asyncadapter.Adapter wrapping inner. DataBuffer,
// BlockUntilNextFlush, the background stats loop, and any preview
// server all go through that adapter, so concurrent callers each get
// their own fan-out of the same iteration instead of racing to pop a
// single shared queue.
type Recorder struct {
	inner     *recorder.Recorder
	adapter   *asyncadapter.Adapter
	rep       reporter.Reporter
	startTime time.Time
}

// New creates a Recorder using grab to open the display and factory to
// build the encoder. Events are discarded unless a Reporter is
// attached with NewWithReporter.
func New(grab Grabber, factory EncoderFactory, opts ...Option) (*Recorder, error) {
	return NewWithReporter(grab, factory, reporter.NullReporter{}, opts...)
}

// NewWithReporter is like New but drives rep with lifecycle events as
// the recording proceeds.
func NewWithReporter(grab Grabber, factory EncoderFactory, rep reporter.Reporter, opts ...Option) (*Recorder, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	cfg := config.NewConfig(".", ".")
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("screencap: invalid config: %w", err)
	}

	reportHardware(rep)

	display, err := grab()
	if err != nil {
		return nil, fmt.Errorf("screencap: opening display: %w", err)
	}
	rep.CapturerStarted(reporter.CapturerStartedSummary{
		Width:      display.Width(),
		Height:     display.Height(),
		TargetRate: cfg.CaptureRate,
	})

	opened := false
	wrappedGrab := func() (capture.Display, error) {
		if !opened {
			opened = true
			return display, nil
		}
		return grab()
	}

	ringCapacity := cfg.RingCapacityForWidth(display.Width())

	inner, err := recorder.New(wrappedGrab, cfg.CaptureRate, recorder.Config{
		EncoderFactory: factory,
		Timebase:       cfg.Timebase,
		TargetRate:     cfg.EncodeRate,
		RingCapacity:   ringCapacity,
		BufferedFrames: cfg.BufferedFrames,
	})
	if err != nil {
		return nil, err
	}

	rep.EncodingConfig(reporter.EncodingConfigSummary{
		Encoder:        "screencap.Encoder",
		Timebase:       cfg.Timebase,
		BufferedFrames: cfg.BufferedFrames,
		RingCapacityMB: float64(ringCapacity) / (1024 * 1024),
	})

	r := &Recorder{
		inner:     inner,
		adapter:   asyncadapter.New(inner),
		rep:       rep,
		startTime: time.Now(),
	}
	go r.reportLoop()
	return r, nil
}

func reportHardware(rep reporter.Reporter) {
	hostname := "unknown"
	if h, err := os.Hostname(); err == nil {
		hostname = h
	}
	physical, _ := diag.PhysicalCores()
	logical, _ := diag.LogicalCores()
	memBytes, _ := diag.AvailableMemoryBytes()
	rep.Hardware(reporter.HardwareSummary{
		Hostname:          hostname,
		PhysicalCores:     physical,
		LogicalCores:      logical,
		AvailableMemoryMB: memBytes / (1024 * 1024),
	})
}

// Headers returns the encoder's container-level headers, blocking
// until the encoder has finished constructing.
func (r *Recorder) Headers() []byte {
	return r.inner.Headers()
}

// DataBuffer blocks for the next encode-worker iteration, regardless of
// its status, then returns an owned, exclusively-releasable view over
// the encoded ring buffer. Call Release on the returned guard exactly
// once. Safe to call concurrently with BlockUntilNextFlush and with an
// attached preview server: each caller is queued and resolved
// independently through the Recorder's single result-stream consumer.
func (r *Recorder) DataBuffer() (OwnedGuard, error) {
	return r.adapter.WaitForFrame(context.Background())
}

// DataBufferView returns a view that can be read repeatedly without
// taking ownership of a lock across goroutine boundaries.
func (r *Recorder) DataBufferView() recorder.EncodedBufferView {
	return r.inner.DataBufferView()
}

// BlockUntilNextFlush blocks until the next time staged data commits to
// the ring buffer. Safe to call concurrently with DataBuffer and with
// an attached preview server; see DataBuffer.
func (r *Recorder) BlockUntilNextFlush() error {
	guard, err := r.adapter.WaitForNextFlush(context.Background())
	if err != nil {
		return err
	}
	guard.Release()
	return nil
}

// Close stops capture and encoding and reports a final summary. The
// recorder is closed before the adapter, so any request still parked in
// the adapter resolves with ErrClosed instead of blocking forever.
func (r *Recorder) Close() {
	r.inner.Close()
	r.adapter.Close()
	r.reportComplete()
}

func (r *Recorder) reportLoop() {
	var flushCount uint64
	for {
		guard, err := r.adapter.WaitForNextFlush(context.Background())
		if err != nil {
			return
		}
		flushCount++

		var bytesWritten uint64
		ring := guard.Ring()
		ringLen := ring.Len()
		ring.Iter(func(item ringbuf.Item[recorder.Metadata]) bool {
			bytesWritten += uint64(len(item.Data))
			return true
		})
		guard.Release()

		r.rep.FlushProgress(reporter.FlushSnapshot{
			FlushCount:   flushCount,
			BytesWritten: bytesWritten,
			RingLen:      ringLen,
			Elapsed:      time.Since(r.startTime),
		})
	}
}

func (r *Recorder) reportComplete() {
	r.rep.RecorderComplete(reporter.RecorderOutcome{
		Duration: time.Since(r.startTime),
	})
}
