package recorder

import (
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/screencap/internal/capture"
)

type everReadyDisplay struct{ n atomic.Int64 }

func (d *everReadyDisplay) Frame() ([]byte, error) {
	n := d.n.Add(1)
	return []byte{byte(n)}, nil
}
func (d *everReadyDisplay) Width() int  { return 1 }
func (d *everReadyDisplay) Height() int { return 1 }

type fakeEncoder struct {
	n atomic.Int64
}

func (e *fakeEncoder) Headers() []byte { return []byte("SPSPPS") }

func (e *fakeEncoder) Encode(pts int64, img Image) (EncodedChunk, PictureInfo, error) {
	n := e.n.Add(1)
	isKey := n%5 == 1
	return EncodedChunk{Data: append([]byte{}, img...), Meta: Metadata{IsKey: isKey}}, PictureInfo{IsKey: isKey}, nil
}

func newTestRecorder(t *testing.T, bufferedFrames int) *Recorder {
	t.Helper()
	r, err := New(
		func() (capture.Display, error) { return &everReadyDisplay{}, nil },
		math.Inf(1),
		Config{
			EncoderFactory: func() (Encoder, error) { return &fakeEncoder{}, nil },
			Timebase:       90000,
			TargetRate:     math.Inf(1),
			RingCapacity:   4096,
			BufferedFrames: bufferedFrames,
		},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func TestRecorderHeaders(t *testing.T) {
	r := newTestRecorder(t, 0)
	if string(r.Headers()) != "SPSPPS" {
		t.Fatalf("Headers() = %q", r.Headers())
	}
}

func TestRecorderFlushesImmediatelyWithoutPreBuffering(t *testing.T) {
	r := newTestRecorder(t, 0)
	if err := r.BlockUntilNextFlush(); err != nil {
		t.Fatalf("BlockUntilNextFlush: %v", err)
	}
	guard, err := r.DataBuffer()
	if err != nil {
		t.Fatalf("DataBuffer: %v", err)
	}
	defer guard.Release()
	if guard.Ring().IsEmpty() {
		t.Fatal("ring buffer empty after a flush")
	}
}

func TestRecorderPreBuffersThenFlushes(t *testing.T) {
	r := newTestRecorder(t, 3)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		guard, err := r.DataBuffer()
		if err != nil {
			t.Fatalf("DataBuffer: %v", err)
		}
		empty := guard.Ring().IsEmpty()
		guard.Release()
		if !empty {
			return
		}
	}
	t.Fatal("ring buffer never received a flush with pre-buffering enabled")
}
