package main

import (
	"math"
	"time"

	"github.com/five82/screencap/internal/capture"
)

// testPatternDisplay is a synthetic Display standing in for a real
// platform screen-grab primitive, which would require cgo bindings to
// an OS capture API outside the reach of this module's pure-Go stack.
// It renders an animated gradient at the configured resolution so the
// rest of the pipeline (capture -> encode -> ring buffer -> preview)
// can be exercised end to end without one.
type testPatternDisplay struct {
	width, height int
	start         time.Time
	frame         []byte
}

func newTestPatternDisplay(width, height int) *testPatternDisplay {
	return &testPatternDisplay{
		width:  width,
		height: height,
		start:  time.Now(),
		frame:  make([]byte, width*height*4),
	}
}

func (d *testPatternDisplay) Width() int  { return d.width }
func (d *testPatternDisplay) Height() int { return d.height }

// Frame renders the next animation tick. It never returns
// capture.ErrWouldBlock since the synthetic source always has a frame
// ready.
func (d *testPatternDisplay) Frame() ([]byte, error) {
	phase := time.Since(d.start).Seconds()
	offset := byte(128 + 127*math.Sin(phase))

	for y := 0; y < d.height; y++ {
		row := y * d.width * 4
		rowShade := byte(y * 255 / max(d.height, 1))
		for x := 0; x < d.width; x++ {
			i := row + x*4
			colShade := byte(x * 255 / max(d.width, 1))
			d.frame[i+0] = colShade     // B
			d.frame[i+1] = rowShade     // G
			d.frame[i+2] = offset       // R
			d.frame[i+3] = 0xff         // A
		}
	}
	return d.frame, nil
}

var _ capture.Display = (*testPatternDisplay)(nil)
