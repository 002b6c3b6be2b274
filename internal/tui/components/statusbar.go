package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/interpretive-systems/stagium/internal/theme"
)

// StatusBar renders the bottom line: transient error or status on the
// left, last-commit summary, and the refresh clock pinned right.
type StatusBar struct {
	lastRefresh time.Time
	lastCommit  string
	keyBuffer   string
	status      string
	errMsg      string
}

func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

func (s *StatusBar) SetLastRefresh(t time.Time) {
	s.lastRefresh = t
}

func (s *StatusBar) SetLastCommit(msg string) {
	s.lastCommit = msg
}

func (s *StatusBar) SetKeyBuffer(buf string) {
	s.keyBuffer = buf
}

// SetMessages replaces the transient status and error texts. The error
// wins when both are set.
func (s *StatusBar) SetMessages(status, errMsg string) {
	s.status = status
	s.errMsg = errMsg
}

func (s *StatusBar) Render(width int, th theme.Theme) string {
	var leftText string
	switch {
	case s.errMsg != "":
		leftText = th.ErrorText("⚠ " + s.errMsg)
	case s.status != "":
		leftText = th.StatusText(s.status)
	case s.keyBuffer != "":
		leftText = s.keyBuffer
	default:
		leftText = lipgloss.NewStyle().Faint(true).Render("?: help")
	}
	if s.lastCommit != "" {
		leftText += lipgloss.NewStyle().Faint(true).Render("  |  last: " + s.lastCommit)
	}

	right := lipgloss.NewStyle().Faint(true).
		Render("refreshed: " + s.lastRefresh.Format("15:04:05"))

	// The clock stays visible; the left side truncates.
	rightW := lipgloss.Width(right)
	if rightW >= width {
		return xansi.Truncate(right, width, "…")
	}

	avail := width - rightW - 1
	if lipgloss.Width(leftText) > avail {
		leftText = xansi.Truncate(leftText, avail, "…")
	} else if lipgloss.Width(leftText) < avail {
		leftText = leftText + strings.Repeat(" ", avail-lipgloss.Width(leftText))
	}

	return leftText + " " + right
}
