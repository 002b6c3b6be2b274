package tui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/interpretive-systems/stagium/internal/gitx"
	"github.com/interpretive-systems/stagium/internal/theme"
	"github.com/interpretive-systems/stagium/internal/tui/ansi"
)

const sampleRaw = `diff --git a/a.txt b/a.txt
index 0000000..1111111 100644
--- a/a.txt
+++ b/a.txt
@@ -1,2 +1,2 @@
 ctx
-old
+new
`

const twoHunkRaw = `diff --git a/a.txt b/a.txt
index 0000000..1111111 100644
--- a/a.txt
+++ b/a.txt
@@ -1,2 +1,2 @@
 ctx
-old
+new
@@ -10,2 +10,2 @@
 ctx2
-older
+newer
`

func newTestProgram(t *testing.T, tool gitx.Tool) program {
	t.Helper()
	p := newProgram(NewState(Options{RepoRoot: ".", Tool: tool, Theme: theme.Get("dark")}), 0)
	m, _ := p.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	p = m.(program)
	p.View() // sizes the viewport
	return p
}

func pressKey(t *testing.T, p program, key string) (program, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+d":
		msg = tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+u":
		msg = tea.KeyMsg{Type: tea.KeyCtrlU}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, cmd := p.Update(msg)
	return m.(program), cmd
}

func pushStatus(t *testing.T, p program, files []gitx.FileStatus) program {
	t.Helper()
	m, _ := p.Update(statusMsg{files: files})
	return m.(program)
}

// pushDiff injects a diff reply for whatever load is in flight.
func pushDiff(t *testing.T, p program, raw string, reset bool) program {
	t.Helper()
	s := p.state
	require.NotEmpty(t, s.pendingPath, "no diff load in flight")
	m, _ := p.Update(diffMsg{
		path:    s.pendingPath,
		staged:  s.pendingStaged,
		raw:     raw,
		display: raw,
		reset:   reset,
	})
	return m.(program)
}

func TestStartupFocusFallsToStaged(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	p = pushStatus(t, p, []gitx.FileStatus{
		{Path: "a.txt", Index: 'M', Worktree: ' '},
	})
	require.Equal(t, FocusStaged, p.state.Focus)
	require.True(t, p.state.Unstaged.IsEmpty())
	require.Equal(t, 1, p.state.Staged.VisibleLen())
}

func TestTreeHopBetweenPanes(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	p = pushStatus(t, p, []gitx.FileStatus{
		{Path: "a.txt", Index: ' ', Worktree: 'M'},
		{Path: "b.txt", Index: 'A', Worktree: ' '},
	})
	require.Equal(t, FocusUnstaged, p.state.Focus)

	p, _ = pressKey(t, p, "j")
	require.Equal(t, FocusStaged, p.state.Focus)
	require.Equal(t, 0, p.state.Staged.Cursor())

	p, _ = pressKey(t, p, "k")
	require.Equal(t, FocusUnstaged, p.state.Focus)
	require.Equal(t, p.state.Unstaged.VisibleLen()-1, p.state.Unstaged.Cursor())
}

func TestCountPrefixMovesCursor(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	files := []gitx.FileStatus{
		{Path: "a.txt", Index: ' ', Worktree: 'M'},
		{Path: "b.txt", Index: ' ', Worktree: 'M'},
		{Path: "c.txt", Index: ' ', Worktree: 'M'},
		{Path: "d.txt", Index: ' ', Worktree: 'M'},
	}
	p = pushStatus(t, p, files)

	p, _ = pressKey(t, p, "3")
	require.Equal(t, "3", p.keys.Buffer())
	p, _ = pressKey(t, p, "j")
	require.Equal(t, 3, p.state.Unstaged.Cursor())
	require.Empty(t, p.keys.Buffer())
}

func TestOpenDiffMovesFocusAndTitleShowsHunks(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	p = pushStatus(t, p, []gitx.FileStatus{{Path: "a.txt", Index: ' ', Worktree: 'M'}})

	p, _ = pressKey(t, p, "l")
	require.Equal(t, FocusDiff, p.state.Focus)

	p = pushDiff(t, p, sampleRaw, true)
	require.Equal(t, "a.txt", p.state.DiffPath)
	require.Len(t, p.state.FileDiff.Hunks, 1)
	require.Contains(t, p.topLeftTitle(), "a.txt (hunk 1/1)")
}

func TestUntrackedFileShowsPlaceholder(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	p = pushStatus(t, p, []gitx.FileStatus{{Path: "new.txt", Index: '?', Worktree: '?'}})

	p, cmd := pressKey(t, p, "l")
	require.Nil(t, cmd)
	require.Equal(t, FocusDiff, p.state.Focus)
	require.Len(t, p.state.DisplayLines, 1)
	require.Contains(t, ansi.Strip(p.state.DisplayLines[0]), "untracked file")
}

func TestSelectModeRefusals(t *testing.T) {
	p := newTestProgram(t, gitx.ToolDifftastic)
	p = pushStatus(t, p, []gitx.FileStatus{{Path: "a.txt", Index: ' ', Worktree: 'M'}})
	p, _ = pressKey(t, p, "l")
	p = pushDiff(t, p, sampleRaw, true)

	p, _ = pressKey(t, p, "v")
	require.Equal(t, "Line selection unavailable with difftastic", p.state.ErrMsg)
	require.Equal(t, FocusDiff, p.state.Focus)

	p2 := newTestProgram(t, gitx.ToolRaw)
	p2 = pushStatus(t, p2, []gitx.FileStatus{{Path: "a.txt", Index: ' ', Worktree: 'M'}})
	p2, _ = pressKey(t, p2, "l")
	p2 = pushDiff(t, p2, "", true)

	p2, _ = pressKey(t, p2, "v")
	require.Equal(t, "No hunks to select lines from", p2.state.ErrMsg)
	require.Equal(t, FocusDiff, p2.state.Focus)
}

func TestSelectModeEntry(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	p = pushStatus(t, p, []gitx.FileStatus{{Path: "a.txt", Index: ' ', Worktree: 'M'}})
	p, _ = pressKey(t, p, "l")
	p = pushDiff(t, p, sampleRaw, true)

	p, _ = pressKey(t, p, "v")
	require.Equal(t, FocusSelect, p.state.Focus)
	require.Equal(t, "Inline select: j/k move  Enter apply  v/h exit", p.state.StatusMsg)
	require.Equal(t, p.state.Diff.Viewport().YOffset, p.state.DiffCursor)
}

func TestApplyOnContextLineRefused(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	p = pushStatus(t, p, []gitx.FileStatus{{Path: "a.txt", Index: ' ', Worktree: 'M'}})
	p, _ = pressKey(t, p, "l")
	p = pushDiff(t, p, sampleRaw, true)
	p, _ = pressKey(t, p, "v")

	// Row 5 is the context line inside the hunk.
	p.state.DiffCursor = 5
	p, cmd := pressKey(t, p, "enter")
	require.Nil(t, cmd)
	require.Equal(t, "Only +/- lines can be applied", p.state.ErrMsg)
}

func TestApplyLineAdvancesToNextSelectable(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	p = pushStatus(t, p, []gitx.FileStatus{{Path: "a.txt", Index: ' ', Worktree: 'M'}})
	p, _ = pressKey(t, p, "l")
	p = pushDiff(t, p, sampleRaw, true)
	p, _ = pressKey(t, p, "v")

	// Row 6 is the removed line.
	p.state.DiffCursor = 6
	p, cmd := pressKey(t, p, "enter")
	require.NotNil(t, cmd)

	m, _ := p.Update(lineAppliedMsg{staged: false})
	p = m.(program)
	require.Equal(t, "Staged 1 line", p.state.StatusMsg)
	require.True(t, p.state.advancePending)

	// The reload keeps the add on row 6 once the removal is gone.
	remaining := `diff --git a/a.txt b/a.txt
index 0000000..1111111 100644
--- a/a.txt
+++ b/a.txt
@@ -1,2 +1,2 @@
 ctx
 old
+new
`
	p = pushDiff(t, p, remaining, false)
	require.False(t, p.state.advancePending)
	require.Equal(t, FocusSelect, p.state.Focus)
	require.Equal(t, 7, p.state.DiffCursor)
	require.True(t, p.state.LineInfos[p.state.DiffCursor].Selectable)
}

func TestApplyLastLineReturnsFocusToOrigin(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	p = pushStatus(t, p, []gitx.FileStatus{{Path: "a.txt", Index: ' ', Worktree: 'M'}})
	p, _ = pressKey(t, p, "l")
	p = pushDiff(t, p, sampleRaw, true)
	p, _ = pressKey(t, p, "v")

	p.state.DiffCursor = 7
	p, _ = pressKey(t, p, "enter")
	m, _ := p.Update(lineAppliedMsg{staged: false})
	p = m.(program)

	p = pushDiff(t, p, "", false)
	require.Equal(t, FocusUnstaged, p.state.Focus)
	require.Empty(t, p.state.DiffPath)
	view := ansi.Strip(p.View())
	require.Contains(t, view, "Select a file in the tree")
}

func TestHunkJumpSaturates(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	p = pushStatus(t, p, []gitx.FileStatus{{Path: "a.txt", Index: ' ', Worktree: 'M'}})
	p, _ = pressKey(t, p, "l")
	p = pushDiff(t, p, twoHunkRaw, true)

	p, _ = pressKey(t, p, "n")
	require.Equal(t, 1, p.state.HunkCursor)
	p, _ = pressKey(t, p, "n")
	require.Equal(t, 1, p.state.HunkCursor)
	p, _ = pressKey(t, p, "p")
	require.Equal(t, 0, p.state.HunkCursor)
	p, _ = pressKey(t, p, "p")
	require.Equal(t, 0, p.state.HunkCursor)
}

// longRaw builds a diff tall enough to scroll in a 30-row terminal.
func longRaw() string {
	var b strings.Builder
	b.WriteString("diff --git a/a.txt b/a.txt\n")
	b.WriteString("index 0000000..1111111 100644\n")
	b.WriteString("--- a/a.txt\n+++ b/a.txt\n")
	b.WriteString("@@ -1,40 +1,41 @@\n")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, " line %d\n", i)
	}
	b.WriteString("+tail\n")
	return b.String()
}

func TestRefreshPreservesScrollInDiffFocus(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	p = pushStatus(t, p, []gitx.FileStatus{{Path: "a.txt", Index: ' ', Worktree: 'M'}})
	p, _ = pressKey(t, p, "l")
	p = pushDiff(t, p, longRaw(), true)

	p.state.Diff.Viewport().SetYOffset(3)
	m, _ := p.Update(statusMsg{files: []gitx.FileStatus{{Path: "a.txt", Index: ' ', Worktree: 'M'}}})
	p = m.(program)
	p = pushDiff(t, p, longRaw(), false)
	require.Equal(t, 3, p.state.Diff.Viewport().YOffset)
}

func TestKeyPressClearsTransientMessages(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	p = pushStatus(t, p, []gitx.FileStatus{{Path: "a.txt", Index: ' ', Worktree: 'M'}})
	p.state.StatusMsg = "old status"
	p.state.ErrMsg = "old error"

	p, _ = pressKey(t, p, "j")
	require.Empty(t, p.state.StatusMsg)
	require.Empty(t, p.state.ErrMsg)
}

func TestHelpOverlayBlocksOtherKeys(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	p = pushStatus(t, p, []gitx.FileStatus{
		{Path: "a.txt", Index: ' ', Worktree: 'M'},
		{Path: "b.txt", Index: ' ', Worktree: 'M'},
	})

	p, _ = pressKey(t, p, "?")
	require.True(t, p.state.ShowHelp)
	require.Contains(t, ansi.Strip(p.View()), "Help")

	p, _ = pressKey(t, p, "j")
	require.Equal(t, 0, p.state.Unstaged.Cursor())

	p, _ = pressKey(t, p, "esc")
	require.False(t, p.state.ShowHelp)
}

func TestBrowseModeIsReadOnly(t *testing.T) {
	p := newProgram(NewBrowseState(Options{RepoRoot: ".", Tool: gitx.ToolRaw, Theme: theme.Get("dark")}, "abcdef0123456789"), 0)
	m, _ := p.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	p = m.(program)
	p.View()
	p = pushStatus(t, p, []gitx.FileStatus{{Path: "a.txt", Index: 'M', Worktree: ' '}})

	require.Contains(t, p.topLeftTitle(), "Commit abcdef0")

	p, cmd := pressKey(t, p, "C")
	require.Nil(t, cmd)
	require.Equal(t, readOnlyNotice, p.state.StatusMsg)

	p, cmd = pressKey(t, p, "l")
	require.NotNil(t, cmd)
	require.Equal(t, FocusDiff, p.state.Focus)
	p = pushDiff(t, p, sampleRaw, true)

	p, _ = pressKey(t, p, "v")
	require.Equal(t, readOnlyNotice, p.state.StatusMsg)
	require.Equal(t, FocusDiff, p.state.Focus)
}

func TestBinaryTitle(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	p = pushStatus(t, p, []gitx.FileStatus{{Path: "img.png", Index: ' ', Worktree: 'M'}})
	p, _ = pressKey(t, p, "l")
	p = pushDiff(t, p, "Binary files a/img.png and b/img.png differ\n", true)

	require.True(t, p.state.FileDiff.Binary)
	require.Contains(t, p.topLeftTitle(), "img.png [binary]")
}

func TestStaleDiffReplyDropped(t *testing.T) {
	p := newTestProgram(t, gitx.ToolRaw)
	p = pushStatus(t, p, []gitx.FileStatus{
		{Path: "a.txt", Index: ' ', Worktree: 'M'},
		{Path: "b.txt", Index: ' ', Worktree: 'M'},
	})
	p, _ = pressKey(t, p, "l") // requests a.txt
	p.state.pendingPath = "b.txt"

	m, _ := p.Update(diffMsg{path: "a.txt", raw: sampleRaw, display: sampleRaw, reset: true})
	p = m.(program)
	require.Empty(t, p.state.DiffPath)
}

func TestProgramSmoke(t *testing.T) {
	st := NewState(Options{RepoRoot: t.TempDir(), Tool: gitx.ToolRaw, Theme: theme.Get("dark")})
	tm := teatest.NewTestModel(t, newProgram(st, 0),
		teatest.WithInitialTermSize(100, 30),
	)

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Changes"))
	})

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(0))
}
