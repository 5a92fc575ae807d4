package reporter

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/screencap/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu       sync.Mutex
	progress *progressbar.ProgressBar
	verbose  bool
	cyan     *color.Color
	green    *color.Color
	yellow   *color.Color
	red      *color.Color
	magenta  *color.Color
	bold     *color.Color
	dim      *color.Color
}

// NewTerminalReporter creates a new terminal reporter with verbose mode disabled.
func NewTerminalReporter() *TerminalReporter {
	return NewTerminalReporterVerbose(false)
}

// NewTerminalReporterVerbose creates a new terminal reporter with configurable verbose mode.
func NewTerminalReporterVerbose(verbose bool) *TerminalReporter {
	return &TerminalReporter{
		verbose: verbose,
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
		dim:     color.New(color.Faint),
	}
}

// labelWidth is the global width for all labels to ensure consistent alignment.
const labelWidth = 18

func (r *TerminalReporter) printLabel(label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", labelWidth, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) Hardware(summary HardwareSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("HARDWARE")
	r.printLabel("Hostname:", summary.Hostname)
	r.printLabel("CPU cores:", fmt.Sprintf("%d physical, %d logical", summary.PhysicalCores, summary.LogicalCores))
	r.printLabel("Memory:", fmt.Sprintf("%d MB available", summary.AvailableMemoryMB))
}

func (r *TerminalReporter) CapturerStarted(summary CapturerStartedSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("CAPTURE")
	r.printLabel("Resolution:", fmt.Sprintf("%dx%d", summary.Width, summary.Height))
	r.printLabel("Target rate:", fmt.Sprintf("%.1f fps", summary.TargetRate))
}

func (r *TerminalReporter) EncodingConfig(summary EncodingConfigSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("ENCODING")
	r.printLabel("Encoder:", summary.Encoder)
	r.printLabel("Timebase:", fmt.Sprintf("%d ticks/sec", summary.Timebase))
	r.printLabel("Pre-buffer:", fmt.Sprintf("%d frames", summary.BufferedFrames))
	r.printLabel("Ring capacity:", fmt.Sprintf("%.1f MB", summary.RingCapacityMB))
}

func (r *TerminalReporter) StageProgress(update StageProgress) {
	fmt.Printf("  %s %s\n", r.magenta.Sprint("›"), update.Message)
}

func (r *TerminalReporter) FlushProgress(snapshot FlushSnapshot) {
	r.mu.Lock()
	if r.progress == nil {
		r.progress = progressbar.NewOptions64(
			-1,
			progressbar.OptionSetDescription(""),
			progressbar.OptionSetWidth(40),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(11),
			progressbar.OptionSetElapsedTime(true),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "Recording [",
				BarEnd:        "]",
			}),
		)
	}
	progress := r.progress
	r.mu.Unlock()

	reduction := util.CalculateCompressionRatio(snapshot.RawBytesSeen, snapshot.BytesWritten)
	_ = progress.Add64(1)
	progress.Describe(fmt.Sprintf("flush %d, %s written, %.1f%% smaller than raw",
		snapshot.FlushCount, util.FormatBytesReadable(snapshot.BytesWritten), reduction))
}

func (r *TerminalReporter) RecorderComplete(summary RecorderOutcome) {
	r.mu.Lock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.mu.Unlock()

	reduction := util.CalculateCompressionRatio(summary.RawBytesSeen, summary.TotalBytes)

	fmt.Println()
	_, _ = r.cyan.Println("RESULTS")
	r.printLabel("Duration:", util.FormatDurationFromSecs(int64(summary.Duration.Seconds())))
	r.printLabel("Flushes:", fmt.Sprintf("%d", summary.TotalFlushes))
	r.printLabel("Encoded size:", util.FormatBytesReadable(summary.TotalBytes))
	r.printLabel("Reduction:", fmt.Sprintf("%.1f%% vs raw capture", reduction))
	fmt.Printf("%s %s\n", r.green.Add(color.Bold).Sprint("✓"), r.bold.Sprint("recording complete"))
}

func (r *TerminalReporter) Warning(message string) {
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) Verbose(message string) {
	if !r.verbose {
		return
	}
	fmt.Printf("  %s %s\n", r.dim.Sprint("›"), r.dim.Sprint(message))
}
