package components

import (
	"strings"
	"testing"
	"time"

	"github.com/interpretive-systems/stagium/internal/changetree"
	"github.com/interpretive-systems/stagium/internal/gitx"
	"github.com/interpretive-systems/stagium/internal/theme"
	"github.com/interpretive-systems/stagium/internal/tui/ansi"
)

// stripAll drops color codes and the right padding the cursor-row
// background adds, leaving just the text for comparison.
func stripAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRight(ansi.Strip(l), " ")
	}
	return out
}

func TestColorizeRawKeepsText(t *testing.T) {
	raw := "diff --git a/x b/x\n" +
		"index 000..111 100644\n" +
		"--- a/x\n" +
		"+++ b/x\n" +
		"@@ -1,2 +1,2 @@\n" +
		" ctx\n" +
		"-old line\n" +
		"+new line\n"

	got := stripAll(ColorizeRaw(raw, theme.Get("dark")))
	want := []string{
		"diff --git a/x b/x",
		"index 000..111 100644",
		"--- a/x",
		"+++ b/x",
		"@@ -1,2 +1,2 @@",
		" ctx",
		"-old line",
		"+new line",
	}
	if len(got) != len(want) {
		t.Fatalf("line count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestColorizeRawUnpairedRuns(t *testing.T) {
	raw := "@@ -1,2 +1,1 @@\n-gone\n ctx\n"
	got := stripAll(ColorizeRaw(raw, theme.Get("dark")))
	if got[1] != "-gone" || got[2] != " ctx" {
		t.Errorf("got %q", got)
	}
}

func TestColorizeRawPairedRunsPreserveText(t *testing.T) {
	raw := "-alpha beta gamma\n+alpha BETA gamma\n"
	got := stripAll(ColorizeRaw(raw, theme.Get("dark")))
	if got[0] != "-alpha beta gamma" {
		t.Errorf("del line = %q", got[0])
	}
	if got[1] != "+alpha BETA gamma" {
		t.Errorf("add line = %q", got[1])
	}
}

func TestColorizeRawUnevenPair(t *testing.T) {
	raw := "-one\n-two\n+merged\n"
	got := stripAll(ColorizeRaw(raw, theme.Get("dark")))
	want := []string{"-one", "-two", "+merged"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestColorizeSelectCursorRow(t *testing.T) {
	raw := "@@ -1,1 +1,1 @@\n-a\n+b\n"
	got := ColorizeSelect(raw, 2, 20, theme.Get("dark"))
	if len(got) != 3 {
		t.Fatalf("line count = %d", len(got))
	}
	stripped := ansi.Strip(got[2])
	if !strings.HasPrefix(stripped, "+b") {
		t.Errorf("cursor row text = %q", stripped)
	}
	if ansi.VisualWidth(got[2]) != 20 {
		t.Errorf("cursor row width = %d, want 20", ansi.VisualWidth(got[2]))
	}
}

func sectionOf(t *testing.T, files []gitx.FileStatus) *changetree.Section {
	t.Helper()
	var s changetree.Section
	s.SetFiles(files)
	return &s
}

func TestTreePaneRender(t *testing.T) {
	sec := sectionOf(t, []gitx.FileStatus{
		{Path: "a/b.txt", Index: ' ', Worktree: 'M'},
		{Path: "c.txt", Index: '?', Worktree: '?'},
	})

	pane := NewTreePane("Unstaged", false)
	got := stripAll(pane.Render(sec, theme.Get("dark"), 40, 10, true))

	want := []string{
		"Unstaged (1/3)",
		"▼ a",
		"    b.txt M",
		"  c.txt ?",
	}
	if len(got) != len(want) {
		t.Fatalf("lines = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTreePaneRenderCollapsed(t *testing.T) {
	sec := sectionOf(t, []gitx.FileStatus{
		{Path: "a/b.txt", Index: ' ', Worktree: 'M'},
	})
	sec.SetExpanded(false)

	pane := NewTreePane("Unstaged", false)
	got := stripAll(pane.Render(sec, theme.Get("dark"), 40, 10, false))
	if got[1] != "▶ a" {
		t.Errorf("collapsed dir row = %q", got[1])
	}
}

func TestTreePaneRenderEmpty(t *testing.T) {
	sec := sectionOf(t, nil)
	pane := NewTreePane("Staged", true)
	got := stripAll(pane.Render(sec, theme.Get("dark"), 40, 10, false))
	if got[0] != "Staged (no changes)" {
		t.Errorf("header = %q", got[0])
	}
	if got[1] != "  (no changes)" {
		t.Errorf("body = %q", got[1])
	}
}

func TestTreePaneStagedPaneHidesUntrackedMarker(t *testing.T) {
	sec := sectionOf(t, []gitx.FileStatus{
		{Path: "x.txt", Index: 'A', Worktree: ' '},
	})
	pane := NewTreePane("Staged", true)
	got := stripAll(pane.Render(sec, theme.Get("dark"), 40, 10, false))
	if got[1] != "  x.txt A" {
		t.Errorf("row = %q", got[1])
	}
}

func TestTreePaneEnsureVisibleFollowsCursor(t *testing.T) {
	files := make([]gitx.FileStatus, 0, 10)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		files = append(files, gitx.FileStatus{Path: name + ".txt", Index: ' ', Worktree: 'M'})
	}
	sec := sectionOf(t, files)
	pane := NewTreePane("Unstaged", false)

	sec.SetCursor(9)
	pane.EnsureVisible(sec, 4)
	if pane.Offset() != 6 {
		t.Errorf("offset = %d, want 6", pane.Offset())
	}

	sec.SetCursor(0)
	pane.EnsureVisible(sec, 4)
	if pane.Offset() != 0 {
		t.Errorf("offset = %d, want 0", pane.Offset())
	}
}

func TestStatusBarPriorities(t *testing.T) {
	th := theme.Get("dark")
	bar := NewStatusBar()
	bar.SetLastRefresh(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	line := ansi.Strip(bar.Render(60, th))
	if !strings.Contains(line, "?: help") {
		t.Errorf("default bar = %q", line)
	}
	if !strings.HasSuffix(line, "refreshed: 03:04:05") {
		t.Errorf("clock missing: %q", line)
	}

	bar.SetMessages("Staged: a.txt", "")
	line = ansi.Strip(bar.Render(60, th))
	if !strings.Contains(line, "Staged: a.txt") {
		t.Errorf("status bar = %q", line)
	}

	bar.SetMessages("Staged: a.txt", "boom")
	line = ansi.Strip(bar.Render(60, th))
	if !strings.Contains(line, "⚠ boom") || strings.Contains(line, "Staged: a.txt") {
		t.Errorf("error should win: %q", line)
	}
}

func TestStatusBarClockNeverTruncated(t *testing.T) {
	bar := NewStatusBar()
	bar.SetLastRefresh(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	bar.SetLastCommit("abc1234 a very long commit subject that will not fit")

	line := ansi.Strip(bar.Render(40, theme.Get("dark")))
	if !strings.HasSuffix(line, "refreshed: 03:04:05") {
		t.Errorf("clock truncated: %q", line)
	}
}
