package ansi

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// SliceHorizontal returns the substring covering visual columns
// [start, start+width), keeping escape sequences intact.
func SliceHorizontal(s string, start, width int) string {
	if start <= 0 {
		return ansi.Truncate(s, width, "")
	}
	head := ansi.Truncate(s, start+width, "")
	return ansi.TruncateLeft(head, start, "")
}

// ClipToWidth truncates s to at most w visual columns, no ellipsis.
func ClipToWidth(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return ansi.Truncate(s, w, "")
}

// PadExact pads s with spaces to exactly w visual columns.
func PadExact(s string, w int) string {
	vw := VisualWidth(s)
	if vw >= w {
		return s
	}
	return s + strings.Repeat(" ", w-vw)
}

// TruncateToWidth truncates to width with an ellipsis when needed.
func TruncateToWidth(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}
