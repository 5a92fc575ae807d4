package reporter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/five82/screencap/internal/util"
)

// LogReporter writes recorder lifecycle events to a log file.
type LogReporter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewLogReporter creates a new log reporter that writes to the given writer.
func NewLogReporter(w io.Writer) *LogReporter {
	return &LogReporter{w: w}
}

func (r *LogReporter) log(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(r.w, "%s [%s] %s\n", timestamp, level, msg)
}

func (r *LogReporter) Hardware(summary HardwareSummary) {
	r.log("INFO", "=== HARDWARE ===")
	r.log("INFO", "Hostname: %s", summary.Hostname)
	r.log("INFO", "CPU cores: %d physical, %d logical", summary.PhysicalCores, summary.LogicalCores)
	r.log("INFO", "Memory available: %d MB", summary.AvailableMemoryMB)
}

func (r *LogReporter) CapturerStarted(summary CapturerStartedSummary) {
	r.log("INFO", "=== CAPTURE ===")
	r.log("INFO", "Resolution: %dx%d", summary.Width, summary.Height)
	r.log("INFO", "Target rate: %.1f fps", summary.TargetRate)
}

func (r *LogReporter) EncodingConfig(summary EncodingConfigSummary) {
	r.log("INFO", "=== ENCODING CONFIG ===")
	r.log("INFO", "Encoder: %s", summary.Encoder)
	r.log("INFO", "Timebase: %d ticks/sec", summary.Timebase)
	r.log("INFO", "Pre-buffer: %d frames", summary.BufferedFrames)
	r.log("INFO", "Ring capacity: %.1f MB", summary.RingCapacityMB)
}

func (r *LogReporter) StageProgress(update StageProgress) {
	r.log("INFO", "[%s] %s", update.Stage, update.Message)
}

func (r *LogReporter) FlushProgress(snapshot FlushSnapshot) {
	reduction := util.CalculateCompressionRatio(snapshot.RawBytesSeen, snapshot.BytesWritten)
	r.log("INFO", "flush %d: %s written (%.1f%% smaller than raw), ring holds %d items, elapsed %s",
		snapshot.FlushCount, util.FormatBytesReadable(snapshot.BytesWritten), reduction,
		snapshot.RingLen, util.FormatDurationFromSecs(int64(snapshot.Elapsed.Seconds())))
}

func (r *LogReporter) RecorderComplete(summary RecorderOutcome) {
	reduction := util.CalculateCompressionRatio(summary.RawBytesSeen, summary.TotalBytes)

	r.log("INFO", "=== RESULTS ===")
	r.log("INFO", "Duration: %s", util.FormatDurationFromSecs(int64(summary.Duration.Seconds())))
	r.log("INFO", "Flushes: %d", summary.TotalFlushes)
	r.log("INFO", "Encoded size: %s (%.1f%% reduction vs raw)",
		util.FormatBytesReadable(summary.TotalBytes), reduction)
}

func (r *LogReporter) Warning(message string) {
	r.log("WARN", "%s", message)
}

func (r *LogReporter) Error(err ReporterError) {
	r.log("ERROR", "%s: %s", err.Title, err.Message)
	if err.Context != "" {
		r.log("ERROR", "  Context: %s", err.Context)
	}
	if err.Suggestion != "" {
		r.log("ERROR", "  Suggestion: %s", err.Suggestion)
	}
}

func (r *LogReporter) Verbose(message string) {
	r.log("DEBUG", "%s", message)
}
