package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/interpretive-systems/stagium/internal/theme"
	"github.com/interpretive-systems/stagium/internal/tui/ansi"
	"github.com/interpretive-systems/stagium/internal/unidiff"
)

// DiffPane owns the right-hand viewport. Content is set as pre-colored
// lines; scrolling and cursor placement are driven by the program.
type DiffPane struct {
	viewport viewport.Model
	lines    []string
}

func NewDiffPane() *DiffPane {
	return &DiffPane{}
}

func (d *DiffPane) SetSize(width, height int) {
	d.viewport.Width = width
	d.viewport.Height = height
}

// SetLines replaces the pane content.
func (d *DiffPane) SetLines(lines []string) {
	d.lines = lines
	d.viewport.SetContent(strings.Join(lines, "\n"))
}

func (d *DiffPane) Lines() []string {
	return d.lines
}

func (d *DiffPane) View() string {
	return d.viewport.View()
}

func (d *DiffPane) Viewport() *viewport.Model {
	return &d.viewport
}

// ColorizeRaw styles a plain unified diff: added and removed lines in
// the add/del colors, hunk headers emphasized, file headers as meta.
// Paired removed/added runs additionally get word-level emphasis.
func ColorizeRaw(raw string, th theme.Theme) []string {
	lines := unidiff.SplitLines(raw)
	out := make([]string, len(lines))

	i := 0
	for i < len(lines) {
		delStart := i
		for i < len(lines) && isDelLine(lines[i]) {
			i++
		}
		addStart := i
		for i < len(lines) && isAddLine(lines[i]) {
			i++
		}

		dels := lines[delStart:addStart]
		adds := lines[addStart:i]
		if len(dels) > 0 && len(adds) > 0 {
			emphasizePaired(out, delStart, dels, addStart, adds, th)
			continue
		}
		for j, l := range dels {
			out[delStart+j] = th.DelText(l)
		}
		for j, l := range adds {
			out[addStart+j] = th.AddText(l)
		}
		if delStart == i {
			out[i] = styleDiffLine(lines[i], th)
			i++
		}
	}

	return out
}

// ColorizeSelect renders the raw diff for line-select mode: same base
// styling, with the cursor row padded and backgrounded.
func ColorizeSelect(raw string, cursor, width int, th theme.Theme) []string {
	out := ColorizeRaw(raw, th)
	if cursor >= 0 && cursor < len(out) {
		row := ansi.PadExact(out[cursor], width)
		out[cursor] = th.CursorRow(row)
	}
	return out
}

func isDelLine(l string) bool {
	return strings.HasPrefix(l, "-") && !strings.HasPrefix(l, "---")
}

func isAddLine(l string) bool {
	return strings.HasPrefix(l, "+") && !strings.HasPrefix(l, "+++")
}

func styleDiffLine(l string, th theme.Theme) string {
	switch {
	case isAddLine(l):
		return th.AddText(l)
	case isDelLine(l):
		return th.DelText(l)
	case strings.HasPrefix(l, "@@"):
		return th.HunkText(l)
	case strings.HasPrefix(l, "diff "),
		strings.HasPrefix(l, "--- "),
		strings.HasPrefix(l, "+++ "),
		strings.HasPrefix(l, "index "):
		return th.MetaText(l)
	default:
		return l
	}
}

// emphasizePaired renders a removed run against an added run, bolding
// the words that differ between paired lines. Unpaired leftovers get
// the plain add/del style.
func emphasizePaired(out []string, delStart int, dels []string, addStart int, adds []string, th theme.Theme) {
	dmp := diffmatchpatch.New()

	n := len(dels)
	if len(adds) < n {
		n = len(adds)
	}

	for j := 0; j < n; j++ {
		oldText := dels[j][1:]
		newText := adds[j][1:]
		diffs := dmp.DiffMain(oldText, newText, false)
		diffs = dmp.DiffCleanupSemantic(diffs)

		out[delStart+j] = th.DelText("-") + renderSegments(diffs, diffmatchpatch.DiffDelete, th.DelText, th.DelEmphText)
		out[addStart+j] = th.AddText("+") + renderSegments(diffs, diffmatchpatch.DiffInsert, th.AddText, th.AddEmphText)
	}
	for j := n; j < len(dels); j++ {
		out[delStart+j] = th.DelText(dels[j])
	}
	for j := n; j < len(adds); j++ {
		out[addStart+j] = th.AddText(adds[j])
	}
}

func renderSegments(diffs []diffmatchpatch.Diff, changed diffmatchpatch.Operation, base, emph func(string) string) string {
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(base(d.Text))
		case changed:
			b.WriteString(emph(d.Text))
		}
	}
	return b.String()
}
