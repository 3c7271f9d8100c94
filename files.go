/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
)

// humanReadableSize formats a byte count with SI units, for SERVE log lines.
func humanReadableSize(bytes int) string {
	const unit = 1000

	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	size := float64(bytes)
	suffix := 0
	for size >= unit && suffix < len("kMGTPE") {
		size /= unit
		suffix++
	}

	return fmt.Sprintf("%.1f %cB", size, "kMGTPE"[suffix-1])
}
