package recorder

// Image is the raw frame data handed to the encoder, a tightly packed
// BGRA buffer matching the Display contract's output.
type Image = []byte

// PictureInfo describes one encoded picture, used to decide when a
// flush carries a keyframe.
type PictureInfo struct {
	IsKey bool
}

// Metadata is stored alongside every encoded chunk in the ring and
// staging buffers.
type Metadata struct {
	IsKey bool
}

// EncodedChunk is one unit of encoder output together with its
// metadata.
type EncodedChunk struct {
	Data []byte
	Meta Metadata
}

// Encoder is the H.264 (or other) bitstream encoder primitive this
// package drives. Implementations live outside this module's core.
type Encoder interface {
	// Headers returns the encoder's out-of-band bitstream headers
	// (e.g. SPS/PPS), available as soon as the encoder is constructed.
	Headers() []byte
	// Encode compresses img, presented at pts ticks (per the configured
	// timebase), into one encoded chunk.
	Encode(pts int64, img Image) (EncodedChunk, PictureInfo, error)
}

// EncoderFactory constructs an Encoder on the recorder's dedicated
// worker thread, since many encoder implementations hold handles that
// cannot be moved across OS threads once built.
type EncoderFactory func() (Encoder, error)
