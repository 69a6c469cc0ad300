package core

import "fmt"

const (
	KB = 1024
	MB = KB * 1024
)

// FormatFileSize renders a byte count for humans, using binary multiples but the familiar “KB” & “MB” units.
// Sizes of a megabyte or more are shown as MB, sizes of a kilobyte or more as KB, both with two decimals;
// anything smaller is shown as a plain count of bytes.
func FormatFileSize(size int64) string {
	switch {
	case size >= MB:
		return fmt.Sprintf("%.2f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.2f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}

// PercentSaved returns how much smaller `after` is than `before`, as a percentage.
// Negative values mean the output grew.
func PercentSaved(before, after int64) float64 {
	if before <= 0 {
		return 0
	}
	return 100 * float64(before-after) / float64(before)
}
