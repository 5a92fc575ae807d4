package asyncadapter

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/screencap/internal/capture"
	"github.com/five82/screencap/internal/recorder"
)

type everReadyDisplay struct{ n atomic.Int64 }

func (d *everReadyDisplay) Frame() ([]byte, error) {
	n := d.n.Add(1)
	return []byte{byte(n)}, nil
}
func (d *everReadyDisplay) Width() int  { return 1 }
func (d *everReadyDisplay) Height() int { return 1 }

type fakeEncoder struct{ n atomic.Int64 }

func (e *fakeEncoder) Headers() []byte { return []byte("H") }
func (e *fakeEncoder) Encode(pts int64, img recorder.Image) (recorder.EncodedChunk, recorder.PictureInfo, error) {
	n := e.n.Add(1)
	isKey := n%3 == 1
	return recorder.EncodedChunk{Data: append([]byte{}, img...), Meta: recorder.Metadata{IsKey: isKey}}, recorder.PictureInfo{IsKey: isKey}, nil
}

func newTestAdapter(t *testing.T, bufferedFrames int) *Adapter {
	t.Helper()
	rec, err := recorder.New(
		func() (capture.Display, error) { return &everReadyDisplay{}, nil },
		math.Inf(1),
		recorder.Config{
			EncoderFactory: func() (recorder.Encoder, error) { return &fakeEncoder{}, nil },
			Timebase:       90000,
			TargetRate:     math.Inf(1),
			RingCapacity:   4096,
			BufferedFrames: bufferedFrames,
		},
	)
	if err != nil {
		t.Fatalf("recorder.New: %v", err)
	}
	a := New(rec)
	t.Cleanup(func() {
		rec.Close()
		a.Close()
	})
	return a
}

func TestWaitForFrameResolves(t *testing.T) {
	a := newTestAdapter(t, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res, err := a.WaitForFrame(ctx)
	if err != nil {
		t.Fatalf("WaitForFrame: %v", err)
	}
	res.Release()
}

func TestWaitForNextFlushOnlyResolvesOnFlush(t *testing.T) {
	a := newTestAdapter(t, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := a.WaitForNextFlush(ctx)
	if err != nil {
		t.Fatalf("WaitForNextFlush: %v", err)
	}
	defer res.Release()
	if res.Ring().IsEmpty() {
		t.Fatal("ring empty after a reported flush")
	}
}

func TestConcurrentFlushWaitersAllResolve(t *testing.T) {
	a := newTestAdapter(t, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	const n = 5
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			res, err := a.WaitForNextFlush(ctx)
			if err == nil {
				res.Release()
			}
			results <- err
		}()
	}
	for i := 0; i < n; i++ {
		if err := <-results; err != nil {
			t.Fatalf("waiter %d: %v", i, err)
		}
	}
}
