// Package components holds the three render units of the staging UI:
// the tree panes, the diff pane, and the status bar. Components keep
// only presentation state (scroll offsets, cached content); all
// document state lives in the program model.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/interpretive-systems/stagium/internal/changetree"
	"github.com/interpretive-systems/stagium/internal/theme"
	"github.com/interpretive-systems/stagium/internal/tui/ansi"
)

// TreePane renders one changetree section as a titled column with a
// scroll window that follows the cursor.
type TreePane struct {
	title  string
	staged bool
	offset int
}

// NewTreePane creates a pane. staged selects which porcelain column
// the status letters come from.
func NewTreePane(title string, staged bool) *TreePane {
	return &TreePane{title: title, staged: staged}
}

// EnsureVisible adjusts the scroll offset so the section cursor stays
// inside a window of visibleCount rows.
func (p *TreePane) EnsureVisible(sec *changetree.Section, visibleCount int) {
	if sec.VisibleLen() == 0 || visibleCount <= 0 {
		p.offset = 0
		return
	}

	if p.offset < 0 {
		p.offset = 0
	}

	maxStart := sec.VisibleLen() - visibleCount
	if maxStart < 0 {
		maxStart = 0
	}
	if p.offset > maxStart {
		p.offset = maxStart
	}

	cursor := sec.Cursor()
	if cursor < p.offset {
		p.offset = cursor
	} else if cursor >= p.offset+visibleCount {
		p.offset = cursor - visibleCount + 1
		if p.offset < 0 {
			p.offset = 0
		}
	}

	if p.offset > maxStart {
		p.offset = maxStart
	}
}

// Render returns the header line plus up to height-1 rows.
func (p *TreePane) Render(sec *changetree.Section, th theme.Theme, width, height int, focused bool) []string {
	lines := make([]string, 0, height)
	if height < 1 {
		return lines
	}

	lines = append(lines, p.headerLine(sec, th, width, focused))
	bodyH := height - 1
	if bodyH <= 0 {
		return lines
	}

	if sec.VisibleLen() == 0 {
		lines = append(lines, lipgloss.NewStyle().Faint(true).Render("  (no changes)"))
		return lines
	}

	p.EnsureVisible(sec, bodyH)

	end := p.offset + bodyH
	if end > sec.VisibleLen() {
		end = sec.VisibleLen()
	}
	for i := p.offset; i < end; i++ {
		node := sec.VisibleNode(i)
		if node == nil {
			continue
		}
		lines = append(lines, p.renderRow(sec, node, th, width, focused, i == sec.Cursor()))
	}

	return lines
}

func (p *TreePane) headerLine(sec *changetree.Section, th theme.Theme, width int, focused bool) string {
	var title string
	if sec.VisibleLen() == 0 {
		title = fmt.Sprintf("%s (no changes)", p.title)
	} else {
		title = fmt.Sprintf("%s (%d/%d)", p.title, sec.Cursor()+1, sec.VisibleLen())
	}
	title = ansi.TruncateToWidth(title, width)
	if focused {
		return th.HunkText(title)
	}
	return lipgloss.NewStyle().Faint(true).Render(title)
}

// renderRow builds one tree row: indent, fold marker, name, and a
// status letter suffix, colored per the node's state.
func (p *TreePane) renderRow(sec *changetree.Section, node *changetree.Node, th theme.Theme, width int, focused, cursor bool) string {
	indent := strings.Repeat("  ", node.Depth)

	prefix := "  "
	if node.Dir {
		if node.Expanded {
			prefix = "▼ "
		} else {
			prefix = "▶ "
		}
	}

	status := node.StatusFor(p.staged)
	suffix := ""
	if !node.Dir && status != ' ' {
		suffix = fmt.Sprintf(" %c", status)
	}

	name := node.Name
	switch {
	case node.Dir:
		name = th.DirText(name)
	case node.Untracked():
		name = th.UntrackedText(name)
	case node.Unmerged():
		name = th.UnmergedText(name)
	default:
		switch status {
		case 'M':
			name = th.ModText(name)
		case 'A':
			name = th.AddText(name)
		case 'D':
			name = th.DelText(name)
		}
	}

	suffix = p.styleStatus(suffix, status, th)

	row := ansi.TruncateToWidth(indent+prefix+name+suffix, width)
	if cursor && focused {
		return th.CursorRow(ansi.PadExact(row, width))
	}
	return row
}

func (p *TreePane) styleStatus(s string, status byte, th theme.Theme) string {
	if s == "" {
		return s
	}
	switch status {
	case 'M':
		return th.ModText(s)
	case 'A':
		return th.AddText(s)
	case 'D':
		return th.DelText(s)
	case '?':
		return th.UntrackedText(s)
	case 'U':
		return th.UnmergedText(s)
	default:
		return s
	}
}

// Offset is the current scroll offset, exposed for tests.
func (p *TreePane) Offset() int {
	return p.offset
}
