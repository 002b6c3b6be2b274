package tui

import (
	"github.com/interpretive-systems/stagium/internal/gitx"
)

// tickMsg triggers the periodic tree refresh.
type tickMsg struct{}

// statusMsg carries a fresh status snapshot. announce is set when the
// refresh was requested explicitly and should be confirmed in the
// status bar.
type statusMsg struct {
	files    []gitx.FileStatus
	announce bool
	err      error
}

// diffMsg carries one loaded diff: the plain unified text used for
// parsing and patch synthesis plus the tool-rendered display text.
// reset distinguishes a freshly opened file from a reload of the one
// already shown.
type diffMsg struct {
	path    string
	staged  bool
	raw     string
	display string
	reset   bool
	err     error
}

// treeOpMsg reports the outcome of a stage or unstage operation
// started from a tree pane.
type treeOpMsg struct {
	status string
	err    error
}

// lineAppliedMsg reports the outcome of staging or unstaging a single
// line from select mode.
type lineAppliedMsg struct {
	staged bool
	err    error
}

// hunkAppliedMsg reports the outcome of staging or unstaging a whole
// hunk from the diff view.
type hunkAppliedMsg struct {
	staged bool
	err    error
}

// lastCommitMsg carries the last commit summary.
type lastCommitMsg struct {
	summary string
	err     error
}

// branchMsg carries the current branch name.
type branchMsg struct {
	name string
	err  error
}
