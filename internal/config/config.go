// Package config provides configuration types and defaults for
// screencap.
package config

import "fmt"

// Default constants
const (
	// Ring buffer capacity defaults by target resolution, sized so a
	// few seconds of encoded output fit comfortably before the oldest
	// chunks are evicted.
	DefaultRingCapacitySD  int = 8 * 1024 * 1024  // <1920 width
	DefaultRingCapacityHD  int = 32 * 1024 * 1024 // >=1920, <3840 width
	DefaultRingCapacityUHD int = 96 * 1024 * 1024 // >=3840 width

	// HDWidthThreshold is the minimum width for HD resolution.
	HDWidthThreshold int = 1920

	// UHDWidthThreshold is the minimum width for UHD resolution.
	UHDWidthThreshold int = 3840

	// DefaultBufferedFrames is the pre-buffering depth: 0 flushes every
	// encoded chunk immediately.
	DefaultBufferedFrames int = 0

	// DefaultTimebase is encode pts ticks per second.
	DefaultTimebase int64 = 90000

	// DefaultCaptureRate and DefaultEncodeRate are the capture and
	// encode workers' target iteration rates, in calls per second.
	DefaultCaptureRate float64 = 60
	DefaultEncodeRate  float64 = 60

	// MinFreeOutputSpaceMB is the minimum free space required in the
	// demo command's output directory before recording starts.
	MinFreeOutputSpaceMB uint64 = 256
)

// Config holds all configuration for a recording session.
type Config struct {
	// Output/log paths
	OutputPath string
	LogDir     string

	// Ring buffer sizing by resolution (bytes)
	RingCapacitySD  int
	RingCapacityHD  int
	RingCapacityUHD int

	// Encode pacing
	BufferedFrames int
	Timebase       int64
	CaptureRate    float64
	EncodeRate     float64

	// Demo HTTP preview server; empty disables it.
	ListenAddr string

	// Debug options
	Verbose bool
}

// NewConfig creates a new Config with default values.
func NewConfig(outputPath, logDir string) *Config {
	return &Config{
		OutputPath:      outputPath,
		LogDir:          logDir,
		RingCapacitySD:  DefaultRingCapacitySD,
		RingCapacityHD:  DefaultRingCapacityHD,
		RingCapacityUHD: DefaultRingCapacityUHD,
		BufferedFrames:  DefaultBufferedFrames,
		Timebase:        DefaultTimebase,
		CaptureRate:     DefaultCaptureRate,
		EncodeRate:      DefaultEncodeRate,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.RingCapacitySD < 1<<16 {
		return fmt.Errorf("ring_capacity_sd must be at least 64KiB, got %d", c.RingCapacitySD)
	}
	if c.RingCapacityHD < 1<<16 {
		return fmt.Errorf("ring_capacity_hd must be at least 64KiB, got %d", c.RingCapacityHD)
	}
	if c.RingCapacityUHD < 1<<16 {
		return fmt.Errorf("ring_capacity_uhd must be at least 64KiB, got %d", c.RingCapacityUHD)
	}

	if c.BufferedFrames < 0 {
		return fmt.Errorf("buffered_frames must be non-negative, got %d", c.BufferedFrames)
	}

	if c.Timebase <= 0 {
		return fmt.Errorf("timebase must be positive, got %d", c.Timebase)
	}

	for _, rate := range []struct {
		name  string
		value float64
	}{
		{"capture_rate", c.CaptureRate},
		{"encode_rate", c.EncodeRate},
	} {
		if rate.value <= 0 {
			return fmt.Errorf("%s must be positive, got %g", rate.name, rate.value)
		}
	}

	return nil
}

// RingCapacityForWidth returns the appropriate ring buffer capacity
// based on capture width.
func (c *Config) RingCapacityForWidth(width int) int {
	if width >= UHDWidthThreshold {
		return c.RingCapacityUHD
	}
	if width >= HDWidthThreshold {
		return c.RingCapacityHD
	}
	return c.RingCapacitySD
}
