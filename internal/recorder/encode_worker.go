package recorder

import (
	"time"

	"github.com/five82/screencap/internal/capture"
)

type encodeWorker struct {
	capturer       *capture.Capturer
	encoder        Encoder
	buf            *EncodedBuffer
	timebase       int64
	bufferedFrames int
	startTime      time.Time
	frameBuf       []byte

	constructionErr error // set iff encoder is nil
}

func (w *encodeWorker) Work() Result {
	if w.encoder == nil {
		return Result{Err: w.constructionErr}
	}

	skipped, err := w.capturer.Frame(func(f []byte) {
		w.frameBuf = append(w.frameBuf[:0], f...)
	})
	if err != nil {
		return Result{Err: err}
	}
	if skipped {
		return Result{Status: Skipped}
	}

	pts := int64(time.Since(w.startTime).Seconds() * float64(w.timebase))

	chunk, info, err := w.encoder.Encode(pts, w.frameBuf)
	if err != nil {
		return Result{Err: err}
	}
	meta := Metadata{IsKey: info.IsKey}

	if w.bufferedFrames == 0 {
		if err := w.buf.WriteFlush(chunk.Data, meta); err != nil {
			return Result{Err: err}
		}
		return Result{Status: Flushed}
	}

	w.buf.Stage(chunk.Data, meta)
	if w.buf.StageLen() > w.bufferedFrames {
		if err := w.buf.Flush(); err != nil {
			return Result{Err: err}
		}
		return Result{Status: Flushed}
	}
	return Result{Status: PreBuffered}
}
