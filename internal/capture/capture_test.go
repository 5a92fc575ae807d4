package capture

import (
	"errors"
	"math"
	"sync"
	"testing"
)

type fakeDisplay struct {
	mu     sync.Mutex
	frames [][]byte
	idx    int
}

func (d *fakeDisplay) Frame() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.idx >= len(d.frames) {
		return nil, ErrWouldBlock
	}
	f := d.frames[d.idx]
	d.idx++
	return f, nil
}

func (d *fakeDisplay) Width() int  { return 2 }
func (d *fakeDisplay) Height() int { return 1 }

func TestCapturerDeliversFrames(t *testing.T) {
	d := &fakeDisplay{frames: [][]byte{{1, 2}, {3, 4}, {5, 6}}}
	c := New(func() (Display, error) { return d, nil }, math.Inf(1))
	defer c.Close()

	// Intermediate frames may be replaced before a reader sees them, but
	// frames are never seen out of order and the newest one is delivered.
	var last byte
	for i := 0; i < 20; i++ {
		var got []byte
		skipped, err := c.Frame(func(frame []byte) { got = append([]byte(nil), frame...) })
		if err != nil {
			t.Fatalf("Frame() error = %v", err)
		}
		if !skipped && len(got) > 0 {
			if got[0] < last {
				t.Fatalf("Frame() went backwards: got %d after %d", got[0], last)
			}
			last = got[0]
		}
		if last == 5 {
			return
		}
	}
	t.Fatalf("did not observe the newest frame; last seen %d", last)
}

func TestCapturerPropagatesConstructionError(t *testing.T) {
	wantErr := errors.New("no display")
	c := New(func() (Display, error) { return nil, wantErr }, math.Inf(1))
	defer c.Close()

	_, err := c.Frame(func([]byte) {})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Frame() error = %v, want %v", err, wantErr)
	}
}
