package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatBytesReadable(t *testing.T) {
	require.Equal(t, "512 B", FormatBytesReadable(512))
	require.Equal(t, "1.0 KiB", FormatBytesReadable(1024))
	require.Equal(t, "1.5 MiB", FormatBytesReadable(1024*1024+512*1024))
}

func TestFormatDurationFromSecs(t *testing.T) {
	require.Equal(t, "0:05", FormatDurationFromSecs(5))
	require.Equal(t, "1:01", FormatDurationFromSecs(61))
	require.Equal(t, "1:00:00", FormatDurationFromSecs(3600))
}

func TestCalculateCompressionRatio(t *testing.T) {
	require.Equal(t, float64(0), CalculateCompressionRatio(0, 100))
	require.InDelta(t, 50.0, CalculateCompressionRatio(100, 50), 0.0001)
	require.InDelta(t, 0.0, CalculateCompressionRatio(100, 100), 0.0001)
}
