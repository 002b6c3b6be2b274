// Package tui implements the interactive review screen: two change
// trees on the left, a diff pane on the right, and line-level staging
// driven by synthesized patches.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/interpretive-systems/stagium/internal/clipboard"
	"github.com/interpretive-systems/stagium/internal/gitx"
	"github.com/interpretive-systems/stagium/internal/prefs"
	"github.com/interpretive-systems/stagium/internal/tui/ansi"
	"github.com/interpretive-systems/stagium/internal/tui/components"
	"github.com/interpretive-systems/stagium/internal/tui/wizards"
	"github.com/interpretive-systems/stagium/internal/unidiff"
)

const readOnlyNotice = "Read-only commit view"

// program is the bubbletea model. State lives behind pointers so the
// value receiver bubbletea requires still mutates in place.
type program struct {
	state  *State
	layout *Layout
	keys   *KeyHandler
}

func newProgram(s *State, leftWidth int) program {
	l := NewLayout()
	if leftWidth > 0 {
		l.SetLeftWidth(leftWidth)
	}
	return program{state: s, layout: l, keys: NewKeyHandler()}
}

// Run starts a review session and blocks until it exits.
func Run(opts Options) error {
	return runProgram(NewState(opts), opts.LeftWidth)
}

// RunBrowse starts a read-only session showing a single commit.
func RunBrowse(opts Options, rev string) error {
	return runProgram(NewBrowseState(opts, rev), opts.LeftWidth)
}

func runProgram(s *State, leftWidth int) error {
	p := tea.NewProgram(newProgram(s, leftWidth), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (p program) Init() tea.Cmd {
	s := p.state
	cmds := []tea.Cmd{loadBranch(s.RepoRoot), loadLastCommit(s.RepoRoot)}
	if s.Browse {
		cmds = append(cmds, loadCommitFiles(s.RepoRoot, s.BrowseRev, false))
	} else {
		cmds = append(cmds, loadStatus(s.RepoRoot, false), tickOnce())
	}
	return tea.Batch(cmds...)
}

func (p program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	s := p.state
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return p.handleResize(msg)
	case tea.KeyMsg:
		return p.handleKey(msg)
	case tea.MouseMsg:
		return p.handleMouse(msg)
	case tickMsg:
		if s.Browse {
			return p, nil
		}
		// Skip the refresh while a wizard or line select is active so
		// the reload does not yank state out from under them.
		if s.WizardOpen || s.Focus == FocusSelect {
			return p, tickOnce()
		}
		return p, tea.Batch(loadStatus(s.RepoRoot, false), tickOnce())
	case statusMsg:
		return p.handleStatus(msg)
	case diffMsg:
		return p.handleDiff(msg)
	case treeOpMsg:
		if msg.err != nil {
			s.ErrMsg = "Error: " + msg.err.Error()
		} else {
			s.StatusMsg = msg.status
		}
		return p, loadStatus(s.RepoRoot, false)
	case lineAppliedMsg:
		if msg.err != nil {
			s.ErrMsg = "Error: " + msg.err.Error()
			return p, nil
		}
		if msg.staged {
			s.StatusMsg = "Unstaged 1 line"
		} else {
			s.StatusMsg = "Staged 1 line"
		}
		s.advancePending = true
		return p, tea.Batch(
			loadStatus(s.RepoRoot, false),
			p.requestDiff(s.DiffPath, s.DiffStaged, false),
		)
	case hunkAppliedMsg:
		if msg.err != nil {
			s.ErrMsg = "Error: " + msg.err.Error()
			return p, nil
		}
		if msg.staged {
			s.StatusMsg = "Unstaged hunk"
		} else {
			s.StatusMsg = "Staged hunk"
		}
		return p, tea.Batch(
			loadStatus(s.RepoRoot, false),
			p.requestDiff(s.DiffPath, s.DiffStaged, false),
		)
	case lastCommitMsg:
		if msg.err == nil {
			s.LastCommit = msg.summary
		}
		return p, nil
	case branchMsg:
		if msg.err == nil {
			s.Branch = msg.name
		}
		return p, nil
	case wizards.CommitResultMsg:
		cmd := s.Commit.Update(msg)
		if s.Commit.IsComplete() {
			s.WizardOpen = false
			s.StatusMsg = "Committed: " + msg.Summary
		}
		return p, tea.Batch(loadStatus(s.RepoRoot, false), loadLastCommit(s.RepoRoot), cmd)
	}
	return p, nil
}

func (p program) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	s := p.state
	p.layout.SetSize(msg.Width, msg.Height)
	if p.layout.leftWidth == 0 {
		w := msg.Width / 3
		if w < 24 {
			w = 24
		}
		p.layout.SetLeftWidth(w)
	}
	p.syncDiffContent()
	// Delta renders to the pane width, so its output goes stale on
	// resize. The other tools are width-independent.
	if s.Tool == gitx.ToolDelta && s.DiffPath != "" && s.DiffRaw != "" {
		return p, p.requestDiff(s.DiffPath, s.DiffStaged, false)
	}
	return p, nil
}

func (p program) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return p, nil
	}
	vp := p.state.Diff.Viewport()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		vp.ScrollUp(3)
	case tea.MouseButtonWheelDown:
		vp.ScrollDown(3)
	}
	return p, nil
}

func (p program) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := p.state
	key := msg.String()

	// The wizard owns input while open and reports its own errors.
	if s.WizardOpen {
		act, cmd := s.Commit.HandleKey(msg)
		if act == wizards.ActionClose {
			s.WizardOpen = false
		}
		return p, cmd
	}

	// Any other key press consumes the transient messages first.
	s.StatusMsg, s.ErrMsg = "", ""

	if s.ShowHelp {
		switch key {
		case "q", "ctrl+c":
			return p, tea.Quit
		case "?", "esc":
			s.ShowHelp = false
		}
		return p, nil
	}

	if s.Search.IsActive() {
		handled, cmd := s.Search.HandleKey(msg)
		if handled {
			p.centerOnMatch()
			p.syncDiffContent()
			return p, cmd
		}
	}

	if p.keys.HandleDigit(key) {
		return p, nil
	}
	count := p.keys.Take()

	switch key {
	case "ctrl+c", "q":
		return p, tea.Quit
	case "?":
		s.ShowHelp = true
		return p, nil
	case "r":
		if s.Browse {
			return p, loadCommitFiles(s.RepoRoot, s.BrowseRev, true)
		}
		return p, loadStatus(s.RepoRoot, true)
	case "<":
		p.layout.AdjustLeftWidth(-2)
		_ = prefs.SaveLeftWidth(s.RepoRoot, p.layout.LeftWidth())
		p.syncDiffContent()
		return p, nil
	case ">":
		p.layout.AdjustLeftWidth(2)
		_ = prefs.SaveLeftWidth(s.RepoRoot, p.layout.LeftWidth())
		p.syncDiffContent()
		return p, nil
	case "C":
		if s.Browse {
			s.StatusMsg = readOnlyNotice
			return p, nil
		}
		s.WizardOpen = true
		return p, s.Commit.Init(s.RepoRoot, s.Staged.FileCount())
	}

	switch s.Focus {
	case FocusUnstaged, FocusStaged:
		return p.handleTreeKey(key, count)
	case FocusDiff:
		return p.handleDiffKey(key, count)
	case FocusSelect:
		return p.handleSelectKey(key, count)
	}
	return p, nil
}

// --- Tree pane keys ---

func (p program) handleTreeKey(key string, count int) (tea.Model, tea.Cmd) {
	s := p.state
	sec := s.focusedSection()

	switch key {
	case "j", "down":
		for i := 0; i < count; i++ {
			p.treeMoveDown()
		}
		return p, p.treeLoadPreview()
	case "k", "up":
		for i := 0; i < count; i++ {
			p.treeMoveUp()
		}
		return p, p.treeLoadPreview()
	case "l", "right":
		return p.treeOpenRight()
	case "h", "left":
		node := sec.CurrentNode()
		if node == nil {
			return p, nil
		}
		if node.Dir {
			sec.SetExpanded(false)
		} else {
			sec.FoldParent()
		}
		return p, p.treeLoadPreview()
	case "enter":
		return p.treeEnter()
	case "c":
		node := sec.CurrentNode()
		if node == nil {
			return p, nil
		}
		if err := clipboard.Copy(node.Path); err != nil {
			s.ErrMsg = "Clipboard error: " + err.Error()
		} else {
			s.StatusMsg = "Copied path: " + node.Path
		}
		return p, nil
	}
	return p, nil
}

// treeMoveDown moves the cursor down one row; past the bottom of the
// unstaged pane it hops to the top of the staged pane.
func (p program) treeMoveDown() {
	s := p.state
	sec := s.focusedSection()
	if sec.Cursor()+1 < sec.VisibleLen() {
		sec.MoveCursor(1)
		return
	}
	if !s.Browse && s.Focus == FocusUnstaged && !s.Staged.IsEmpty() {
		s.Focus = FocusStaged
		s.Staged.SetCursor(0)
	}
}

func (p program) treeMoveUp() {
	s := p.state
	sec := s.focusedSection()
	if sec.Cursor() > 0 {
		sec.MoveCursor(-1)
		return
	}
	if !s.Browse && s.Focus == FocusStaged && !s.Unstaged.IsEmpty() {
		s.Focus = FocusUnstaged
		s.Unstaged.SetCursor(s.Unstaged.VisibleLen() - 1)
	}
}

func (p program) treeOpenRight() (tea.Model, tea.Cmd) {
	s := p.state
	sec := s.focusedSection()
	node := sec.CurrentNode()
	if node == nil {
		return p, nil
	}
	if node.Dir {
		sec.ExpandAndEnter()
		return p, p.treeLoadPreview()
	}
	staged := s.Focus == FocusStaged
	if !s.Browse && node.Untracked() {
		p.setUntrackedNotice(node.Path, staged)
		s.Focus = FocusDiff
		p.syncDiffContent()
		return p, nil
	}
	s.Focus = FocusDiff
	return p, p.requestDiff(node.Path, staged, true)
}

func (p program) treeEnter() (tea.Model, tea.Cmd) {
	s := p.state
	sec := s.focusedSection()
	node := sec.CurrentNode()
	if node == nil {
		return p, nil
	}
	if s.Browse {
		if node.Dir {
			sec.SetExpanded(!node.Expanded)
			return p, nil
		}
		s.Focus = FocusDiff
		return p, p.requestDiff(node.Path, false, true)
	}
	if node.Dir {
		paths := sec.FilesUnderDir(node.Path)
		if s.Focus == FocusStaged {
			return p, unstageDir(s.RepoRoot, paths, node.Path)
		}
		return p, stageDir(s.RepoRoot, paths, node.Path)
	}
	if s.Focus == FocusStaged {
		return p, unstagePath(s.RepoRoot, node.Path)
	}
	return p, stagePath(s.RepoRoot, node.Path)
}

// treeLoadPreview loads the diff of the file under the tree cursor.
// Directories keep whatever diff is showing; an empty pane clears it.
func (p program) treeLoadPreview() tea.Cmd {
	s := p.state
	if !s.Focus.IsTree() {
		return nil
	}
	sec := s.focusedSection()
	node := sec.CurrentNode()
	if node == nil {
		p.clearDiff()
		p.syncDiffContent()
		return nil
	}
	if node.Dir {
		return nil
	}
	staged := s.Focus == FocusStaged
	if !s.Browse && node.Untracked() {
		p.setUntrackedNotice(node.Path, staged)
		p.syncDiffContent()
		return nil
	}
	return p.requestDiff(node.Path, staged, true)
}

// --- Diff view keys ---

func (p program) handleDiffKey(key string, count int) (tea.Model, tea.Cmd) {
	s := p.state
	vp := s.Diff.Viewport()

	switch key {
	case "j", "down":
		vp.ScrollDown(count)
	case "k", "up":
		vp.ScrollUp(count)
	case "ctrl+d":
		vp.HalfViewDown()
	case "ctrl+u":
		vp.HalfViewUp()
	case "pgdown":
		vp.ViewDown()
	case "pgup":
		vp.ViewUp()
	case "g":
		vp.GotoTop()
	case "G":
		vp.GotoBottom()
	case "n":
		p.jumpHunk(1)
	case "p":
		p.jumpHunk(-1)
	case "s":
		return p.applyCurrentHunk()
	case "v":
		p.enterSelect()
		p.syncDiffContent()
	case "/":
		s.Search.Activate()
		p.syncDiffContent()
	case "h", "left":
		s.Focus = s.originFocus()
		p.syncDiffContent()
	}
	return p, nil
}

// jumpHunk moves the hunk cursor without wrapping and scrolls to it.
func (p program) jumpHunk(dir int) {
	s := p.state
	n := len(s.FileDiff.Hunks)
	if n == 0 {
		return
	}
	h := s.HunkCursor + dir
	if h >= 0 && h < n {
		s.HunkCursor = h
	}
	p.scrollToHunk(s.HunkCursor)
}

// scrollToHunk finds the idx-th @@ line in the rendered text and
// scrolls there. Select mode moves the cursor with it.
func (p program) scrollToHunk(idx int) {
	s := p.state
	lines := s.DisplayLines
	if s.Focus == FocusSelect {
		lines = unidiff.SplitLines(s.DiffRaw)
	}
	seen := 0
	for i, l := range lines {
		if !strings.HasPrefix(ansi.Strip(l), "@@") {
			continue
		}
		if seen == idx {
			s.Diff.Viewport().SetYOffset(i)
			if s.Focus == FocusSelect {
				s.DiffCursor = i
				p.syncDiffContent()
			}
			return
		}
		seen++
	}
}

func (p program) enterSelect() {
	s := p.state
	if s.Browse {
		s.StatusMsg = readOnlyNotice
		return
	}
	if !s.Tool.SupportsLineOps() {
		s.ErrMsg = "Line selection unavailable with difftastic"
		return
	}
	if len(s.FileDiff.Hunks) == 0 {
		s.ErrMsg = "No hunks to select lines from"
		return
	}
	s.Focus = FocusSelect
	s.DiffCursor = s.Diff.Viewport().YOffset
	p.syncHunkCursor()
	s.StatusMsg = "Inline select: j/k move  Enter apply  v/h exit"
}

func (p program) applyCurrentHunk() (tea.Model, tea.Cmd) {
	s := p.state
	if s.Browse {
		s.StatusMsg = readOnlyNotice
		return p, nil
	}
	if len(s.FileDiff.Hunks) == 0 {
		s.ErrMsg = "No hunks to apply"
		return p, nil
	}
	h := s.HunkCursor
	if h >= len(s.FileDiff.Hunks) {
		h = len(s.FileDiff.Hunks) - 1
	}
	patch := unidiff.HunkPatch(s.DiffPath, s.FileDiff.Hunks[h])
	return p, applyHunk(s.RepoRoot, patch, s.DiffStaged, s.DiffStaged)
}

// --- Inline select keys ---

func (p program) handleSelectKey(key string, count int) (tea.Model, tea.Cmd) {
	s := p.state
	half := s.Diff.Viewport().Height / 2
	if half < 1 {
		half = 1
	}

	switch key {
	case "j", "down":
		p.moveSelectCursor(count)
	case "k", "up":
		p.moveSelectCursor(-count)
	case "ctrl+d":
		p.moveSelectCursor(half)
	case "ctrl+u":
		p.moveSelectCursor(-half)
	case "n":
		p.jumpHunk(1)
	case "p":
		p.jumpHunk(-1)
	case "enter":
		return p, p.applyCurrentLine()
	case "v":
		s.Focus = FocusDiff
		p.syncDiffContent()
	case "h", "left":
		s.Focus = s.originFocus()
		p.syncDiffContent()
	}
	return p, nil
}

func (p program) moveSelectCursor(delta int) {
	s := p.state
	lineCount := len(unidiff.SplitLines(s.DiffRaw))
	if lineCount == 0 {
		return
	}
	c := s.DiffCursor + delta
	if c < 0 {
		c = 0
	}
	if c > lineCount-1 {
		c = lineCount - 1
	}
	s.DiffCursor = c
	p.syncHunkCursor()
	p.ensureCursorVisible()
	p.syncDiffContent()
}

func (p program) syncHunkCursor() {
	s := p.state
	if s.DiffCursor < len(s.LineInfos) {
		if h := s.LineInfos[s.DiffCursor].HunkIndex; h >= 0 {
			s.HunkCursor = h
		}
	}
}

func (p program) ensureCursorVisible() {
	s := p.state
	vp := s.Diff.Viewport()
	if vp.Height <= 0 {
		return
	}
	if s.DiffCursor < vp.YOffset {
		vp.SetYOffset(s.DiffCursor)
	} else if s.DiffCursor >= vp.YOffset+vp.Height {
		vp.SetYOffset(s.DiffCursor + 1 - vp.Height)
	}
}

// applyCurrentLine stages or unstages the line under the cursor as a
// one-line patch against the index.
func (p program) applyCurrentLine() tea.Cmd {
	s := p.state
	if s.DiffCursor >= len(s.LineInfos) {
		return nil
	}
	info := s.LineInfos[s.DiffCursor]
	if !info.Selectable {
		s.ErrMsg = "Only +/- lines can be applied"
		return nil
	}
	if info.HunkIndex < 0 || info.HunkIndex >= len(s.FileDiff.Hunks) || info.LineInHunk < 0 {
		return nil
	}
	hunk := s.FileDiff.Hunks[info.HunkIndex]
	selected := map[int]bool{info.LineInHunk: true}

	var patch string
	if s.DiffStaged {
		patch = unidiff.ReversePartialPatch(s.DiffPath, hunk, selected)
	} else {
		patch = unidiff.PartialPatch(s.DiffPath, hunk, selected)
	}
	if patch == "" {
		return nil
	}
	s.advanceFrom = s.DiffCursor
	return applyLine(s.RepoRoot, patch, s.DiffStaged, s.DiffStaged)
}

// moveToNextSelectable puts the cursor on the nearest +/- line at or
// after from, else the nearest before it, else leaves it clamped.
func (p program) moveToNextSelectable(from int) {
	s := p.state
	infos := s.LineInfos
	for i := from; i < len(infos); i++ {
		if infos[i].Selectable {
			s.DiffCursor = i
			p.ensureCursorVisible()
			return
		}
	}
	for i := from - 1; i >= 0; i-- {
		if infos[i].Selectable {
			s.DiffCursor = i
			p.ensureCursorVisible()
			return
		}
	}
	c := from
	if c > len(infos)-1 {
		c = len(infos) - 1
	}
	if c < 0 {
		c = 0
	}
	s.DiffCursor = c
}

// --- Async message handlers ---

func (p program) handleStatus(msg statusMsg) (tea.Model, tea.Cmd) {
	s := p.state
	if msg.err != nil {
		s.ErrMsg = "Error: " + msg.err.Error()
		return p, nil
	}
	s.LastRefresh = time.Now()
	if msg.announce {
		s.StatusMsg = "Refreshed latest state"
	}

	if s.Browse {
		s.Unstaged.SetFiles(msg.files)
		if s.Focus.IsTree() {
			return p, p.treeLoadPreview()
		}
		return p, nil
	}

	var unstaged, staged []gitx.FileStatus
	for _, f := range msg.files {
		if f.Unstaged() {
			unstaged = append(unstaged, f)
		}
		if f.Staged() {
			staged = append(staged, f)
		}
	}
	s.Unstaged.SetFiles(unstaged)
	s.Staged.SetFiles(staged)

	// A pane that emptied hands its focus to the other one.
	if s.Focus == FocusUnstaged && s.Unstaged.IsEmpty() && !s.Staged.IsEmpty() {
		s.Focus = FocusStaged
	} else if s.Focus == FocusStaged && s.Staged.IsEmpty() && !s.Unstaged.IsEmpty() {
		s.Focus = FocusUnstaged
	}

	switch {
	case s.Focus.IsTree():
		return p, p.treeLoadPreview()
	case s.DiffPath == "":
		return p, nil
	case s.advancePending:
		// The post-apply reload is already in flight.
		return p, nil
	default:
		if !s.DiffStaged {
			for _, f := range unstaged {
				if f.Path == s.DiffPath && f.Untracked() {
					p.setUntrackedNotice(s.DiffPath, false)
					p.syncDiffContent()
					return p, nil
				}
			}
		}
		return p, p.requestDiff(s.DiffPath, s.DiffStaged, false)
	}
}

// requestDiff starts a diff load and records it as the one in flight.
func (p program) requestDiff(path string, staged, reset bool) tea.Cmd {
	s := p.state
	s.pendingPath, s.pendingStaged = path, staged
	if s.Browse {
		return loadCommitDiff(s.RepoRoot, s.BrowseRev, path, s.Tool, p.layout.RightWidth(), reset)
	}
	return loadDiff(s.RepoRoot, path, staged, s.Tool, p.layout.RightWidth(), reset)
}

func (p program) handleDiff(msg diffMsg) (tea.Model, tea.Cmd) {
	s := p.state
	if msg.path != s.pendingPath || msg.staged != s.pendingStaged {
		return p, nil
	}
	s.pendingPath = ""
	if msg.err != nil {
		s.ErrMsg = "Error: " + msg.err.Error()
		return p, nil
	}

	prevScroll := s.Diff.Viewport().YOffset
	prevCursor := s.DiffCursor

	s.DiffPath = msg.path
	s.DiffStaged = msg.staged
	s.DiffRaw = msg.raw
	s.FileDiff = unidiff.Parse(msg.raw)
	s.LineInfos = unidiff.BuildLineInfos(msg.raw)
	if s.Tool == gitx.ToolRaw {
		s.DisplayLines = components.ColorizeRaw(msg.display, s.Theme)
	} else {
		s.DisplayLines = unidiff.SplitLines(msg.display)
	}
	s.Search.SetContent(s.DisplayLines)
	s.HunkCursor = 0

	if msg.reset {
		s.DiffCursor = 0
		s.Diff.Viewport().GotoTop()
	} else {
		rawCount := len(unidiff.SplitLines(msg.raw))
		if prevCursor > rawCount-1 {
			prevCursor = rawCount - 1
		}
		if prevCursor < 0 {
			prevCursor = 0
		}
		s.DiffCursor = prevCursor
		s.Diff.Viewport().SetYOffset(prevScroll)
	}

	if s.advancePending {
		s.advancePending = false
		if len(s.FileDiff.Hunks) == 0 && strings.TrimSpace(msg.raw) == "" {
			origin := s.originFocus()
			p.clearDiff()
			s.Focus = origin
		} else {
			p.moveToNextSelectable(s.advanceFrom)
			p.syncHunkCursor()
		}
	}

	p.syncDiffContent()
	return p, nil
}

// --- Diff pane content ---

func (p program) clearDiff() {
	s := p.state
	s.DiffPath = ""
	s.DiffStaged = false
	s.DiffRaw = ""
	s.FileDiff = unidiff.FileDiff{}
	s.LineInfos = nil
	s.DisplayLines = nil
	s.DiffCursor = 0
	s.HunkCursor = 0
	s.pendingPath = ""
	s.Search.SetContent(nil)
	s.Diff.Viewport().GotoTop()
}

func (p program) setUntrackedNotice(path string, staged bool) {
	s := p.state
	s.DiffPath = path
	s.DiffStaged = staged
	s.DiffRaw = ""
	s.FileDiff = unidiff.FileDiff{}
	s.LineInfos = nil
	s.DiffCursor = 0
	s.HunkCursor = 0
	s.pendingPath = ""
	s.DisplayLines = []string{
		lipgloss.NewStyle().Faint(true).Render("(untracked file – press Enter to stage it)"),
	}
	s.Search.SetContent(s.DisplayLines)
	s.Diff.Viewport().GotoTop()
}

// syncDiffContent pushes the lines for the current mode into the
// viewport. Select mode always renders the raw text so rows stay
// aligned with the line infos.
func (p program) syncDiffContent() {
	s := p.state
	var lines []string
	switch {
	case s.DiffPath == "":
		lines = []string{
			lipgloss.NewStyle().Faint(true).
				Render("Select a file in the tree (← panel) and press Enter to view its diff."),
		}
	case s.Focus == FocusSelect:
		lines = components.ColorizeSelect(s.DiffRaw, s.DiffCursor, p.layout.RightWidth(), s.Theme)
	default:
		lines = s.DisplayLines
		if s.Search.IsActive() && s.Search.Query() != "" {
			lines = s.Search.HighlightedContent()
		}
	}
	s.Diff.SetLines(lines)
}

func (p program) centerOnMatch() {
	s := p.state
	line := s.Search.CurrentMatchLine()
	if line < 0 {
		return
	}
	vp := s.Diff.Viewport()
	off := line - vp.Height/2
	if off < 0 {
		off = 0
	}
	vp.SetYOffset(off)
}

// --- Rendering ---

func (p program) View() string {
	s := p.state
	if p.layout.Width() == 0 || p.layout.Height() == 0 {
		return "Loading..."
	}

	overlay := p.overlayLines()
	contentHeight := p.layout.ContentHeight(len(overlay))
	s.Diff.SetSize(p.layout.RightWidth(), contentHeight)

	rightLines := strings.Split(s.Diff.View(), "\n")
	leftLines := p.leftLines(contentHeight)

	s.Bar.SetMessages(s.StatusMsg, s.ErrMsg)
	s.Bar.SetKeyBuffer(p.keys.Buffer())
	s.Bar.SetLastCommit(s.LastCommit)
	s.Bar.SetLastRefresh(s.LastRefresh)
	bar := s.Bar.Render(p.layout.Width(), s.Theme)

	return p.layout.RenderFrame(
		p.topLeftTitle(),
		lipgloss.NewStyle().Faint(true).Render(s.Branch),
		leftLines, rightLines, overlay, bar, s.Theme,
	)
}

func (p program) leftLines(contentHeight int) []string {
	s := p.state
	leftW := p.layout.LeftWidth()
	th := s.Theme

	if s.Browse {
		s.UnstagedPane.EnsureVisible(s.Unstaged, contentHeight-1)
		return s.UnstagedPane.Render(s.Unstaged, th, leftW, contentHeight, s.Focus == FocusUnstaged)
	}

	topH := (contentHeight - 1) / 2
	if topH < 2 {
		topH = 2
	}
	botH := contentHeight - 1 - topH
	if botH < 2 {
		botH = 2
	}
	s.UnstagedPane.EnsureVisible(s.Unstaged, topH-1)
	s.StagedPane.EnsureVisible(s.Staged, botH-1)

	lines := s.UnstagedPane.Render(s.Unstaged, th, leftW, topH, s.Focus == FocusUnstaged)
	lines = append(lines, th.DividerText(strings.Repeat("─", leftW)))
	lines = append(lines, s.StagedPane.Render(s.Staged, th, leftW, botH, s.Focus == FocusStaged)...)
	return lines
}

func (p program) topLeftTitle() string {
	s := p.state
	base := "Changes"
	if s.Browse {
		base = "Commit " + shortRev(s.BrowseRev)
	}
	if s.DiffPath == "" {
		return base
	}
	title := s.DiffPath
	if s.FileDiff.Binary {
		title += " [binary]"
	} else if n := len(s.FileDiff.Hunks); n > 0 {
		title += fmt.Sprintf(" (hunk %d/%d)", s.HunkCursor+1, n)
	}
	return base + " | " + title
}

func (p program) overlayLines() []string {
	s := p.state
	var overlay []string
	if s.ShowHelp {
		overlay = p.helpOverlayLines()
	}
	if s.WizardOpen {
		overlay = append(overlay, s.Commit.RenderOverlay(p.layout.Width())...)
	}
	if s.Search.IsActive() {
		overlay = append(overlay, s.Search.RenderOverlay(p.layout.Width(), s.Theme.DividerColor)...)
	}
	return overlay
}

func (p program) helpOverlayLines() []string {
	width := p.layout.Width()
	title := lipgloss.NewStyle().Bold(true).Render("Help — press '?' or Esc to close")
	intro := wordwrap.String(
		"Enter stages or unstages whole files and directories; v opens inline select "+
			"to apply single lines. Everything acts on the index, nothing rewrites history.",
		width)

	keys := []string{
		"j/k or arrows   Move cursor / scroll (counts: 12j)",
		"l/h or →/←      Open diff / fold, leave the diff",
		"enter           Stage or unstage file or directory",
		"s               Stage or unstage current hunk",
		"v               Inline line select",
		"n/p             Next / previous hunk",
		"ctrl+d/u        Half page down / up",
		"g / G           Top / bottom of diff",
		"/               Search diff",
		"c               Copy file path",
		"C               Commit staged changes",
		"</>             Adjust left pane width",
		"r               Refresh now",
		"q               Quit",
	}

	lines := make([]string, 0, 4+len(keys))
	lines = append(lines, strings.Repeat("─", width))
	lines = append(lines, title)
	lines = append(lines, strings.Split(intro, "\n")...)
	lines = append(lines, keys...)
	return lines
}
