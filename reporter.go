// Package screencap re-exports the internal reporter interface and
// associated types so that callers can receive all recorder lifecycle
// events directly, without importing an internal package.

package screencap

import (
	"io"

	"github.com/five82/screencap/internal/reporter"
)

// Reporter defines the interface for progress reporting during
// recording. Implement this interface to receive detailed lifecycle
// events, or use NewTerminalReporter / NewLogReporter.
type Reporter = reporter.Reporter

// NullReporter is a no-op reporter that discards all updates.
type NullReporter = reporter.NullReporter

// HardwareSummary describes the host the recorder is running on.
type HardwareSummary = reporter.HardwareSummary

// CapturerStartedSummary describes the capture source.
type CapturerStartedSummary = reporter.CapturerStartedSummary

// EncodingConfigSummary describes the encoder and buffering setup.
type EncodingConfigSummary = reporter.EncodingConfigSummary

// StageProgress is a generic one-line stage update.
type StageProgress = reporter.StageProgress

// FlushSnapshot reports cumulative progress after a ring-buffer flush.
type FlushSnapshot = reporter.FlushSnapshot

// RecorderOutcome summarizes a finished recording session.
type RecorderOutcome = reporter.RecorderOutcome

// ReporterError carries a user-facing error description.
type ReporterError = reporter.ReporterError

// NewTerminalReporter returns a Reporter that prints colorized,
// human-friendly progress to the terminal.
func NewTerminalReporter() Reporter {
	return reporter.NewTerminalReporter()
}

// NewTerminalReporterVerbose is like NewTerminalReporter but also
// prints Verbose messages.
func NewTerminalReporterVerbose(verbose bool) Reporter {
	return reporter.NewTerminalReporterVerbose(verbose)
}

// NewLogReporter returns a Reporter that writes plain-text, timestamped
// lines to w.
func NewLogReporter(w io.Writer) Reporter {
	return reporter.NewLogReporter(w)
}
