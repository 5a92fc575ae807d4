// Package reporter defines the progress-reporting contract for a
// recording session and two implementations: a colorized terminal
// reporter and a plain-text log-file reporter.
package reporter

import "time"

// Reporter receives lifecycle events over the life of a recording
// session.
type Reporter interface {
	Hardware(HardwareSummary)
	CapturerStarted(CapturerStartedSummary)
	EncodingConfig(EncodingConfigSummary)
	StageProgress(StageProgress)
	FlushProgress(FlushSnapshot)
	RecorderComplete(RecorderOutcome)
	Warning(message string)
	Error(ReporterError)
	Verbose(message string)
}

// HardwareSummary describes the host the recorder is running on.
type HardwareSummary struct {
	Hostname          string
	PhysicalCores     int
	LogicalCores      int
	AvailableMemoryMB uint64
}

// CapturerStartedSummary describes the capture source.
type CapturerStartedSummary struct {
	Width      int
	Height     int
	TargetRate float64
}

// EncodingConfigSummary describes the encoder and buffering setup.
type EncodingConfigSummary struct {
	Encoder        string
	Timebase       int64
	BufferedFrames int
	RingCapacityMB float64
}

// StageProgress is a generic one-line stage update.
type StageProgress struct {
	Stage   string
	Message string
}

// FlushSnapshot reports cumulative progress after a ring-buffer flush.
type FlushSnapshot struct {
	FlushCount   uint64
	BytesWritten uint64
	RawBytesSeen uint64
	RingLen      int
	Elapsed      time.Duration
}

// RecorderOutcome summarizes a finished recording session.
type RecorderOutcome struct {
	Duration     time.Duration
	TotalFlushes uint64
	TotalBytes   uint64
	RawBytesSeen uint64
}

// ReporterError carries a user-facing error description.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// NullReporter discards every event.
type NullReporter struct{}

func (NullReporter) Hardware(HardwareSummary)               {}
func (NullReporter) CapturerStarted(CapturerStartedSummary) {}
func (NullReporter) EncodingConfig(EncodingConfigSummary)   {}
func (NullReporter) StageProgress(StageProgress)            {}
func (NullReporter) FlushProgress(FlushSnapshot)            {}
func (NullReporter) RecorderComplete(RecorderOutcome)       {}
func (NullReporter) Warning(string)                         {}
func (NullReporter) Error(ReporterError)                    {}
func (NullReporter) Verbose(string)                         {}

// CompositeReporter fans every event out to a fixed set of Reporters,
// in order.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter returns a Reporter that forwards every call to
// each of reporters in order.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) Hardware(s HardwareSummary) {
	for _, r := range c.reporters {
		r.Hardware(s)
	}
}

func (c *CompositeReporter) CapturerStarted(s CapturerStartedSummary) {
	for _, r := range c.reporters {
		r.CapturerStarted(s)
	}
}

func (c *CompositeReporter) EncodingConfig(s EncodingConfigSummary) {
	for _, r := range c.reporters {
		r.EncodingConfig(s)
	}
}

func (c *CompositeReporter) StageProgress(s StageProgress) {
	for _, r := range c.reporters {
		r.StageProgress(s)
	}
}

func (c *CompositeReporter) FlushProgress(s FlushSnapshot) {
	for _, r := range c.reporters {
		r.FlushProgress(s)
	}
}

func (c *CompositeReporter) RecorderComplete(s RecorderOutcome) {
	for _, r := range c.reporters {
		r.RecorderComplete(s)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(e ReporterError) {
	for _, r := range c.reporters {
		r.Error(e)
	}
}

func (c *CompositeReporter) Verbose(message string) {
	for _, r := range c.reporters {
		r.Verbose(message)
	}
}
