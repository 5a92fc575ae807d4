// Package diag reports host capability and resource information (CPU
// cores, available memory) for the recorder's hardware summary, and
// warns before recording starts if the output destination is short on
// space.
package diag

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sys/unix"
)

// PhysicalCores returns the number of physical CPU cores, or an error
// if the host's CPU topology could not be read.
func PhysicalCores() (int, error) {
	counts, err := cpu.Counts(false)
	if err != nil {
		return 0, fmt.Errorf("diag: physical core count: %w", err)
	}
	return counts, nil
}

// LogicalCores returns the number of logical CPUs (including SMT
// siblings).
func LogicalCores() (int, error) {
	counts, err := cpu.Counts(true)
	if err != nil {
		return 0, fmt.Errorf("diag: logical core count: %w", err)
	}
	return counts, nil
}

// AvailableMemoryBytes returns the amount of memory the host can
// currently make available to new allocations without swapping.
func AvailableMemoryBytes() (uint64, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("diag: available memory: %w", err)
	}
	return v.Available, nil
}

// AvailableDiskSpaceBytes returns the free space available at path, or
// 0 if it cannot be determined.
func AvailableDiskSpaceBytes(path string) uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0
	}
	return stat.Bavail * uint64(stat.Bsize)
}

// CheckDiskSpace reports whether path has at least minFreeMB of free
// space, invoking warn (if non-nil) when it does not. Returns true when
// space is sufficient or could not be determined.
func CheckDiskSpace(path string, minFreeMB uint64, warn func(format string, args ...any)) bool {
	available := AvailableDiskSpaceBytes(path)
	if available == 0 {
		return true
	}

	availableMB := available / (1024 * 1024)
	if availableMB < minFreeMB {
		if warn != nil {
			warn("Low disk space in %s: %d MB available (minimum recommended: %d MB)",
				path, availableMB, minFreeMB)
		}
		return false
	}
	return true
}
