package tui

import (
	"time"

	"github.com/interpretive-systems/stagium/internal/changetree"
	"github.com/interpretive-systems/stagium/internal/gitx"
	"github.com/interpretive-systems/stagium/internal/theme"
	"github.com/interpretive-systems/stagium/internal/tui/components"
	"github.com/interpretive-systems/stagium/internal/tui/search"
	"github.com/interpretive-systems/stagium/internal/tui/wizards"
	"github.com/interpretive-systems/stagium/internal/unidiff"
)

// Focus identifies which pane receives keyboard input.
type Focus int

const (
	FocusUnstaged Focus = iota
	FocusStaged
	FocusDiff
	FocusSelect
)

// IsTree reports whether the focus is on one of the tree panes.
func (f Focus) IsTree() bool {
	return f == FocusUnstaged || f == FocusStaged
}

// Options configure a session.
type Options struct {
	RepoRoot  string
	Tool      gitx.Tool
	Theme     theme.Theme
	LeftWidth int // 0 picks a default from the terminal width
}

// State holds everything the program mutates while running.
type State struct {
	RepoRoot string
	Tool     gitx.Tool
	Theme    theme.Theme

	// Browse mode shows one commit read-only instead of the worktree.
	Browse    bool
	BrowseRev string

	Unstaged *changetree.Section
	Staged   *changetree.Section

	UnstagedPane *components.TreePane
	StagedPane   *components.TreePane
	Diff         *components.DiffPane
	Bar          *components.StatusBar
	Search       *search.Engine
	Commit       *wizards.CommitWizard

	Focus      Focus
	ShowHelp   bool
	WizardOpen bool

	// Diff state. DiffPath is empty while no diff is shown; an
	// untracked placeholder sets DiffPath with empty DiffRaw.
	DiffPath     string
	DiffStaged   bool
	DiffRaw      string
	FileDiff     unidiff.FileDiff
	LineInfos    []unidiff.LineInfo
	DisplayLines []string
	DiffCursor   int
	HunkCursor   int

	// One diff load is in flight at a time; replies for anything else
	// are stale and dropped.
	pendingPath   string
	pendingStaged bool

	// After a line apply the diff reloads, then the select cursor
	// advances from where it was.
	advancePending bool
	advanceFrom    int

	Branch      string
	LastCommit  string
	LastRefresh time.Time
	StatusMsg   string
	ErrMsg      string
}

// NewState creates the initial state for a review session.
func NewState(opts Options) *State {
	return &State{
		RepoRoot:     opts.RepoRoot,
		Tool:         opts.Tool,
		Theme:        opts.Theme,
		Unstaged:     &changetree.Section{},
		Staged:       &changetree.Section{},
		UnstagedPane: components.NewTreePane("Unstaged", false),
		StagedPane:   components.NewTreePane("Staged", true),
		Diff:         components.NewDiffPane(),
		Bar:          components.NewStatusBar(),
		Search:       search.New(),
		Commit:       wizards.NewCommitWizard(),
		Focus:        FocusUnstaged,
	}
}

// NewBrowseState creates the initial state for a read-only commit
// view. rev must already be resolved to a full hash.
func NewBrowseState(opts Options, rev string) *State {
	s := NewState(opts)
	s.Browse = true
	s.BrowseRev = rev
	s.UnstagedPane = components.NewTreePane("Files", false)
	return s
}

// focusedSection returns the tree section owning the focus, falling
// back to the pane the current diff came from.
func (s *State) focusedSection() *changetree.Section {
	switch {
	case s.Focus == FocusStaged:
		return s.Staged
	case s.Focus == FocusUnstaged:
		return s.Unstaged
	case s.DiffStaged:
		return s.Staged
	default:
		return s.Unstaged
	}
}

// originFocus returns the tree pane the current diff belongs to.
func (s *State) originFocus() Focus {
	if s.DiffStaged {
		return FocusStaged
	}
	return FocusUnstaged
}

func shortRev(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
