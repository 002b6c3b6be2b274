package unidiff

import (
	"fmt"
	"strings"
)

// HunkPatch reconstructs a whole hunk as a standalone patch. Staging
// applies it with git apply --cached, unstaging with --reverse added.
func HunkPatch(path string, h Hunk) string {
	var b strings.Builder
	writeHeader(&b, path, h.OldStart, h.OldCount, h.NewStart, h.NewCount)
	for _, ln := range h.Lines {
		b.WriteByte(prefixByte(ln.Kind))
		b.WriteString(ln.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// PartialPatch builds a forward patch that stages only the selected
// lines of a hunk. Keys of selected are indices into h.Lines.
//
// Unselected added lines are omitted, unselected removed lines turn
// into context since the file still holds them, and context always
// stays. The range counts are recomputed from the emitted body; the
// starts are the hunk's own.
func PartialPatch(path string, h Hunk, selected map[int]bool) string {
	var body strings.Builder
	var oldCount, newCount int

	for i, ln := range h.Lines {
		switch ln.Kind {
		case LineContext:
			writeBody(&body, ' ', ln.Text)
			oldCount++
			newCount++
		case LineAdded:
			if selected[i] {
				writeBody(&body, '+', ln.Text)
				newCount++
			}
		case LineRemoved:
			if selected[i] {
				writeBody(&body, '-', ln.Text)
				oldCount++
			} else {
				writeBody(&body, ' ', ln.Text)
				oldCount++
				newCount++
			}
		}
	}

	var b strings.Builder
	writeHeader(&b, path, h.OldStart, oldCount, h.NewStart, newCount)
	b.WriteString(body.String())
	return b.String()
}

// ReversePartialPatch builds the patch that unstages the selected lines
// of a hunk taken from git diff --cached. It is constructed directly
// rather than by negating PartialPatch: the old side of this patch is
// the current index content, so both ranges anchor at h.NewStart.
//
// A selected added line becomes a removal from the index, an unselected
// one stays as context. A selected removed line is restored into the
// index as an addition; an unselected one is absent from the index and
// is omitted. Applied with git apply --cached, no --reverse.
func ReversePartialPatch(path string, h Hunk, selected map[int]bool) string {
	var body strings.Builder
	var oldCount, newCount int

	for i, ln := range h.Lines {
		switch ln.Kind {
		case LineContext:
			writeBody(&body, ' ', ln.Text)
			oldCount++
			newCount++
		case LineAdded:
			if selected[i] {
				writeBody(&body, '-', ln.Text)
				oldCount++
			} else {
				writeBody(&body, ' ', ln.Text)
				oldCount++
				newCount++
			}
		case LineRemoved:
			if selected[i] {
				writeBody(&body, '+', ln.Text)
				newCount++
			}
		}
	}

	var b strings.Builder
	writeHeader(&b, path, h.NewStart, oldCount, h.NewStart, newCount)
	b.WriteString(body.String())
	return b.String()
}

func writeHeader(b *strings.Builder, path string, oldStart, oldCount, newStart, newCount int) {
	fmt.Fprintf(b, "--- a/%s\n", path)
	fmt.Fprintf(b, "+++ b/%s\n", path)
	fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
}

func writeBody(b *strings.Builder, prefix byte, text string) {
	b.WriteByte(prefix)
	b.WriteString(text)
	b.WriteByte('\n')
}

func prefixByte(k LineKind) byte {
	switch k {
	case LineAdded:
		return '+'
	case LineRemoved:
		return '-'
	default:
		return ' '
	}
}
