// Package main provides the CLI entry point for the screencap demo.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/five82/screencap"
	"github.com/five82/screencap/internal/config"
	"github.com/five82/screencap/internal/diag"
	"github.com/five82/screencap/internal/logging"
	"github.com/five82/screencap/internal/previewserver"
	"github.com/five82/screencap/internal/recorder"
	"github.com/five82/screencap/internal/reporter"
	"github.com/five82/screencap/internal/ringbuf"
	"github.com/five82/screencap/internal/util"
)

const (
	appName    = "screencap-demo"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "record":
		if err := runRecord(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("%s version %s\n", appName, appVersion)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - screen capture and H.264 recording demo

Usage:
  %s <command> [options]

Commands:
  record    Record the display into a bounded encoded ring buffer
  version   Print version information
  help      Show this help message

Run '%s record --help' for record command options.
`, appName, appName, appName)
}

// recordArgs holds the parsed arguments for the record command.
type recordArgs struct {
	output         string
	logDir         string
	listenAddr     string
	verbose        bool
	noLog          bool
	width          int
	height         int
	bufferedFrames int
	captureRate    float64
	encodeRate     float64
	timebase       int64
}

func runRecord(args []string) error {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Record a synthetic display into a bounded encoded ring buffer.

Usage:
  %s record [options]

Required:
  -o, --output <PATH>      Output file to append flushed chunks to

Options:
  -l, --log-dir <PATH>     Log directory (defaults to %s)
  -v, --verbose            Enable verbose output for troubleshooting
  --listen <ADDR>          Serve a live /live WebSocket preview on ADDR (e.g. :8089)
  --width <N>              Synthetic display width. Default: 1280
  --height <N>             Synthetic display height. Default: 720
  --buffered-frames <N>    Pre-buffering depth. Default: %d
  --capture-rate <FPS>     Target capture rate. Default: %g
  --encode-rate <FPS>      Target encode rate. Default: %g
  --timebase <TICKS>       PTS timebase, ticks per second. Default: %d
  --no-log                 Disable log file creation
`, appName, logging.DefaultLogDir(), config.DefaultBufferedFrames,
			config.DefaultCaptureRate, config.DefaultEncodeRate, config.DefaultTimebase)
	}

	var ra recordArgs
	fs.StringVar(&ra.output, "o", "", "Output file")
	fs.StringVar(&ra.output, "output", "", "Output file")
	fs.StringVar(&ra.logDir, "l", "", "Log directory")
	fs.StringVar(&ra.logDir, "log-dir", "", "Log directory")
	fs.BoolVar(&ra.verbose, "v", false, "Enable verbose output")
	fs.BoolVar(&ra.verbose, "verbose", false, "Enable verbose output")
	fs.StringVar(&ra.listenAddr, "listen", "", "Serve a live preview on this address")
	fs.IntVar(&ra.width, "width", 1280, "Synthetic display width")
	fs.IntVar(&ra.height, "height", 720, "Synthetic display height")
	fs.IntVar(&ra.bufferedFrames, "buffered-frames", config.DefaultBufferedFrames, "Pre-buffering depth")
	fs.Float64Var(&ra.captureRate, "capture-rate", config.DefaultCaptureRate, "Target capture rate")
	fs.Float64Var(&ra.encodeRate, "encode-rate", config.DefaultEncodeRate, "Target encode rate")
	fs.Int64Var(&ra.timebase, "timebase", config.DefaultTimebase, "PTS timebase")
	fs.BoolVar(&ra.noLog, "no-log", false, "Disable log file creation")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if ra.output == "" {
		return fmt.Errorf("output path is required (-o/--output)")
	}

	return executeRecord(ra)
}

func executeRecord(ra recordArgs) error {
	outputPath, err := filepath.Abs(ra.output)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	if err := util.EnsureDirectoryWritable(filepath.Dir(outputPath)); err != nil {
		return fmt.Errorf("output directory not usable: %w", err)
	}

	logDir := ra.logDir
	if logDir == "" {
		logDir = logging.DefaultLogDir()
	}

	logger, err := logging.Setup(logDir, ra.verbose, ra.noLog, os.Args)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	if logger != nil {
		defer func() { _ = logger.Close() }()
	}

	diag.CheckDiskSpace(filepath.Dir(outputPath), config.MinFreeOutputSpaceMB, func(format string, args ...any) {
		if logger != nil {
			logger.Info(format, args...)
		}
	})

	termRep := reporter.NewTerminalReporterVerbose(ra.verbose)
	var rep reporter.Reporter = termRep
	if logger != nil {
		logRep := reporter.NewLogReporter(logger.Writer())
		rep = reporter.NewCompositeReporter(termRep, logRep)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = outFile.Close() }()

	grab := func() (screencap.Display, error) {
		return newTestPatternDisplay(ra.width, ra.height), nil
	}
	factory := func() (screencap.Encoder, error) {
		return newPassthroughEncoder(30), nil
	}

	rec, err := screencap.NewWithReporter(grab, factory, rep,
		screencap.WithBufferedFrames(ra.bufferedFrames),
		screencap.WithTimebase(ra.timebase),
		screencap.WithCaptureRate(ra.captureRate),
		screencap.WithEncodeRate(ra.encodeRate),
	)
	if err != nil {
		return fmt.Errorf("failed to start recorder: %w", err)
	}
	defer rec.Close()

	if _, err := outFile.Write(rec.Headers()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	var preview *previewserver.Server
	if ra.listenAddr != "" {
		preview = previewserver.New(ra.listenAddr)
		go func() {
			if err := preview.ListenAndServe(); err != nil {
				rep.Warning(fmt.Sprintf("preview server stopped: %v", err))
			}
		}()
		go previewserver.Run(recorderAdapter{rec}, preview)
		defer func() { _ = preview.Close() }()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	stop := make(chan struct{})
	go func() {
		<-sigCh
		close(stop)
	}()

	var lastWrittenID uint64
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if err := rec.BlockUntilNextFlush(); err != nil {
			if errors.Is(err, screencap.ErrClosed) {
				return nil
			}
			return fmt.Errorf("recording failed: %w", err)
		}

		guard, err := rec.DataBuffer()
		if err != nil {
			if errors.Is(err, screencap.ErrClosed) {
				return nil
			}
			return fmt.Errorf("recording failed: %w", err)
		}

		var writeErr error
		guard.Ring().Iter(func(item ringbuf.Item[recorder.Metadata]) bool {
			if item.ID < lastWrittenID {
				return true
			}
			if _, writeErr = outFile.Write(item.Data); writeErr != nil {
				return false
			}
			lastWrittenID = item.ID + 1
			return true
		})
		guard.Release()

		if writeErr != nil {
			return fmt.Errorf("failed to write flushed chunk: %w", writeErr)
		}
	}
}

// recorderAdapter adapts *screencap.Recorder to previewserver.Source.
type recorderAdapter struct {
	rec *screencap.Recorder
}

func (a recorderAdapter) Headers() []byte                           { return a.rec.Headers() }
func (a recorderAdapter) BlockUntilNextFlush() error                { return a.rec.BlockUntilNextFlush() }
func (a recorderAdapter) DataBuffer() (screencap.OwnedGuard, error) { return a.rec.DataBuffer() }
