package main

import (
	"encoding/binary"

	"github.com/five82/screencap/internal/recorder"
)

// passthroughEncoder is a placeholder recorder.Encoder standing in for
// a real H.264 encoder, which would require cgo bindings to a codec
// library outside the reach of this module's pure-Go stack. It frames
// each raw image behind a small length-prefixed header so the demo
// command can exercise the full capture/encode/ring-buffer/preview
// pipeline end to end; every keyframeInterval-th picture is marked a
// keyframe.
type passthroughEncoder struct {
	keyframeInterval int
	frameIndex       int
}

func newPassthroughEncoder(keyframeInterval int) *passthroughEncoder {
	if keyframeInterval <= 0 {
		keyframeInterval = 1
	}
	return &passthroughEncoder{keyframeInterval: keyframeInterval}
}

func (e *passthroughEncoder) Headers() []byte {
	return []byte("screencap-demo-passthrough-v1")
}

func (e *passthroughEncoder) Encode(pts int64, img recorder.Image) (recorder.EncodedChunk, recorder.PictureInfo, error) {
	isKey := e.frameIndex%e.keyframeInterval == 0
	e.frameIndex++

	header := make([]byte, 12)
	binary.BigEndian.PutUint64(header[0:8], uint64(pts))
	binary.BigEndian.PutUint32(header[8:12], uint32(len(img)))

	data := make([]byte, 0, len(header)+len(img))
	data = append(data, header...)
	data = append(data, img...)

	chunk := recorder.EncodedChunk{
		Data: data,
		Meta: recorder.Metadata{IsKey: isKey},
	}
	info := recorder.PictureInfo{IsKey: isKey}
	return chunk, info, nil
}

var _ recorder.Encoder = (*passthroughEncoder)(nil)
