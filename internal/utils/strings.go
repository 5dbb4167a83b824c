package utils

import (
	"strings"

	"github.com/PolarWolf314/musings/internal/ui"

	"github.com/dustin/go-humanize"
)

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(path))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatSize renders a byte count for summaries, e.g. "1.2 kB".
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// Plural picks the singular form when n is one.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
