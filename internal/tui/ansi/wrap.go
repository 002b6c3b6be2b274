package ansi

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// WrapLine hard-wraps one line to width, preserving escape sequences.
func WrapLine(s string, width int) []string {
	if width <= 0 {
		return []string{""}
	}
	return strings.Split(ansi.Hardwrap(s, width, false), "\n")
}

// WrapLines hard-wraps each line in turn.
func WrapLines(lines []string, width int) []string {
	result := make([]string, 0, len(lines)*2)
	for _, line := range lines {
		result = append(result, WrapLine(line, width)...)
	}
	return result
}
