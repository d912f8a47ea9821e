package util

import (
	"fmt"
)

// FormatBytes formats bytes into human readable format using binary units.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	const units = "KMGTPEZY"
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < len(units)-1; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), units[exp])
}

// SizeLimitDetail describes an upload limit for error details, e.g.
// "image is 6.2 MB, limit is 5.0 MB".
func SizeLimitDetail(subject string, size, limit int64) string {
	if size <= 0 {
		return fmt.Sprintf("%s exceeds the limit of %s", subject, FormatBytes(limit))
	}

	return fmt.Sprintf("%s is %s, limit is %s", subject, FormatBytes(size), FormatBytes(limit))
}
