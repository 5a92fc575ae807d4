package util

import (
	"fmt"
	"time"
)

// FormatBytesReadable renders a byte count using the largest convenient
// binary unit (KiB/MiB/GiB).
func FormatBytesReadable(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	units := "KMGTPE"
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), units[exp])
}

// FormatDurationFromSecs renders a whole number of seconds as H:MM:SS or
// M:SS.
func FormatDurationFromSecs(secs int64) string {
	d := time.Duration(secs) * time.Second
	h := int64(d.Hours())
	m := int64(d.Minutes()) % 60
	s := int64(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// CalculateCompressionRatio returns how much smaller encodedBytes is than
// rawBytes, as a percentage (0-100). Returns 0 if rawBytes is 0.
func CalculateCompressionRatio(rawBytes, encodedBytes uint64) float64 {
	if rawBytes == 0 {
		return 0
	}
	return (1 - float64(encodedBytes)/float64(rawBytes)) * 100
}
