package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// truncateRunesHelper truncates a string to max visual width (cells), adding
// suffix if needed. Uses go-runewidth to handle wide characters correctly.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	return runewidth.Truncate(s, maxWidth-suffixWidth, "") + suffix
}

// padRight pads string s with spaces on the right to length width
func padRight(s string, width int) string {
	runeCount := utf8.RuneCountInString(s)
	if runeCount >= width {
		return s
	}
	return s + strings.Repeat(" ", width-runeCount)
}

// truncate truncates string s to maxWidth cells
func truncate(s string, maxWidth int) string {
	return truncateRunesHelper(s, maxWidth, "…")
}

// miniBar renders a proportional bar of filled/empty blocks for the metrics
// panel. max <= 0 or value <= 0 renders an empty bar.
func miniBar(value, max float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if max > 0 && value > 0 {
		filled = int(value/max*float64(width) + 0.5)
		if filled > width {
			filled = width
		}
		if filled == 0 {
			filled = 1 // nonzero values always show something
		}
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
