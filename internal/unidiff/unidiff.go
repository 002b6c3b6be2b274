// Package unidiff parses git unified diff output and synthesizes the
// partial patches used to stage or unstage subsets of a hunk.
package unidiff

import (
	"bufio"
	"strconv"
	"strings"
)

// LineKind classifies one body line of a hunk.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineRemoved
)

// Line is one body line of a hunk, without its prefix byte.
type Line struct {
	Kind LineKind
	Text string
}

// Hunk is one @@ block of a unified diff.
type Hunk struct {
	Header   string
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// FileDiff is the parsed diff of a single file.
type FileDiff struct {
	Path   string
	Binary bool
	Hunks  []Hunk
}

// Parse reads the unified diff of one file as produced by git diff.
// Binary diffs carry no hunks. Lines that are neither context, added
// nor removed (for example "\ No newline at end of file") are dropped
// from hunk bodies.
func Parse(text string) FileDiff {
	if strings.Contains(text, "Binary files") {
		return FileDiff{Binary: true}
	}

	var fd FileDiff
	cur := -1

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 1024*1024), 10*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "+++ b/"):
			fd.Path = line[len("+++ b/"):]
		case strings.HasPrefix(line, "@@"):
			if h, ok := parseHunkHeader(line); ok {
				fd.Hunks = append(fd.Hunks, h)
				cur = len(fd.Hunks) - 1
			} else {
				cur = -1
			}
		default:
			if cur < 0 || line == "" {
				continue
			}
			h := &fd.Hunks[cur]
			switch line[0] {
			case '+':
				h.Lines = append(h.Lines, Line{Kind: LineAdded, Text: line[1:]})
			case '-':
				h.Lines = append(h.Lines, Line{Kind: LineRemoved, Text: line[1:]})
			case ' ':
				h.Lines = append(h.Lines, Line{Kind: LineContext, Text: line[1:]})
			}
		}
	}
	return fd
}

func parseHunkHeader(line string) (Hunk, bool) {
	parts := strings.SplitN(line, " ", 5)
	if len(parts) < 3 {
		return Hunk{}, false
	}
	oldStart, oldCount := parseRange(strings.TrimPrefix(parts[1], "-"))
	newStart, newCount := parseRange(strings.TrimPrefix(parts[2], "+"))
	return Hunk{
		Header:   line,
		OldStart: oldStart,
		OldCount: oldCount,
		NewStart: newStart,
		NewCount: newCount,
	}, true
}

// parseRange reads "start,count" or a bare "start" (count 1). Unparsable
// numbers fall back to start 1 and, in the comma form, count 0.
func parseRange(s string) (start, count int) {
	if a, b, ok := strings.Cut(s, ","); ok {
		return atoiOr(a, 1), atoiOr(b, 0)
	}
	return atoiOr(s, 1), 1
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// LineInfo ties one row of raw diff text to its hunk coordinates.
// HunkIndex is -1 for rows before the first hunk; LineInHunk is -1 for
// those rows and for @@ header rows.
type LineInfo struct {
	HunkIndex  int
	LineInHunk int
	Selectable bool
}

// BuildLineInfos maps every line of raw diff text to a LineInfo. Rows
// inside a hunk are numbered in order of appearance, whether or not
// Parse keeps them, so the result stays aligned with the rendered text.
// Only added and removed rows are selectable.
func BuildLineInfos(raw string) []LineInfo {
	var infos []LineInfo
	hunk := -1
	lineIn := 0

	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Buffer(make([]byte, 1024*1024), 10*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "@@"):
			hunk++
			lineIn = 0
			infos = append(infos, LineInfo{HunkIndex: hunk, LineInHunk: -1})
		case hunk >= 0:
			sel := strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-")
			infos = append(infos, LineInfo{HunkIndex: hunk, LineInHunk: lineIn, Selectable: sel})
			lineIn++
		default:
			infos = append(infos, LineInfo{HunkIndex: -1, LineInHunk: -1})
		}
	}
	return infos
}

// SplitLines splits diff text the way it is rendered, one element per
// row, without a trailing empty row for the final newline. The result
// is index-aligned with BuildLineInfos of the same text.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
