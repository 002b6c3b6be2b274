package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interpretive-systems/stagium/internal/gitx"
)

// loadStatus loads the worktree status snapshot.
func loadStatus(repoRoot string, announce bool) tea.Cmd {
	return func() tea.Msg {
		files, err := gitx.Status(repoRoot)
		return statusMsg{files: files, announce: announce, err: err}
	}
}

// loadCommitFiles loads the file list of one commit for browse mode.
func loadCommitFiles(repoRoot, rev string, announce bool) tea.Cmd {
	return func() tea.Msg {
		files, err := gitx.CommitFiles(repoRoot, rev)
		return statusMsg{files: files, announce: announce, err: err}
	}
}

// loadDiff loads both the plain and the rendered diff of one file.
// Load failures degrade to an empty diff the way git does when a file
// vanishes mid-refresh; a failed renderer falls back to the plain text.
func loadDiff(repoRoot, path string, staged bool, tool gitx.Tool, width int, reset bool) tea.Cmd {
	return func() tea.Msg {
		raw, _ := gitx.Diff(repoRoot, path, staged)
		display := raw
		if tool != gitx.ToolRaw {
			if d, err := gitx.DisplayDiff(repoRoot, path, staged, tool, width); err == nil {
				display = d
			}
		}
		return diffMsg{path: path, staged: staged, raw: raw, display: display, reset: reset}
	}
}

// loadCommitDiff loads one file's diff within a commit.
func loadCommitDiff(repoRoot, rev, path string, tool gitx.Tool, width int, reset bool) tea.Cmd {
	return func() tea.Msg {
		raw, err := gitx.CommitDiff(repoRoot, rev, path)
		if err != nil {
			return diffMsg{path: path, reset: reset, err: err}
		}
		display := raw
		if tool != gitx.ToolRaw {
			if d, derr := gitx.DisplayCommitDiff(repoRoot, rev, path, tool, width); derr == nil {
				display = d
			}
		}
		return diffMsg{path: path, raw: raw, display: display, reset: reset}
	}
}

// stagePath stages one file.
func stagePath(repoRoot, path string) tea.Cmd {
	return func() tea.Msg {
		if err := gitx.StageFile(repoRoot, path); err != nil {
			return treeOpMsg{err: err}
		}
		return treeOpMsg{status: "Staged: " + path}
	}
}

// unstagePath unstages one file.
func unstagePath(repoRoot, path string) tea.Cmd {
	return func() tea.Msg {
		if err := gitx.UnstageFile(repoRoot, path); err != nil {
			return treeOpMsg{err: err}
		}
		return treeOpMsg{status: "Unstaged: " + path}
	}
}

// stageDir stages every file under a directory. Per-file failures are
// skipped so one unmerged path does not block the rest.
func stageDir(repoRoot string, paths []string, dir string) tea.Cmd {
	return func() tea.Msg {
		for _, p := range paths {
			_ = gitx.StageFile(repoRoot, p)
		}
		return treeOpMsg{status: "Staged directory: " + dir}
	}
}

// unstageDir unstages every file under a directory.
func unstageDir(repoRoot string, paths []string, dir string) tea.Cmd {
	return func() tea.Msg {
		for _, p := range paths {
			_ = gitx.UnstageFile(repoRoot, p)
		}
		return treeOpMsg{status: "Unstaged directory: " + dir}
	}
}

// applyLine applies a synthesized single-line patch to the index.
func applyLine(repoRoot, patch string, reverse, staged bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if reverse {
			err = gitx.ApplyCachedReverse(repoRoot, patch)
		} else {
			err = gitx.ApplyCached(repoRoot, patch)
		}
		return lineAppliedMsg{staged: staged, err: err}
	}
}

// applyHunk applies a whole-hunk patch to the index.
func applyHunk(repoRoot, patch string, reverse, staged bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if reverse {
			err = gitx.ApplyCachedReverse(repoRoot, patch)
		} else {
			err = gitx.ApplyCached(repoRoot, patch)
		}
		return hunkAppliedMsg{staged: staged, err: err}
	}
}

// loadLastCommit loads the last commit summary.
func loadLastCommit(repoRoot string) tea.Cmd {
	return func() tea.Msg {
		s, err := gitx.LastCommitSummary(repoRoot)
		return lastCommitMsg{summary: s, err: err}
	}
}

// loadBranch loads the current branch name.
func loadBranch(repoRoot string) tea.Cmd {
	return func() tea.Msg {
		name, err := gitx.CurrentBranch(repoRoot)
		return branchMsg{name: name, err: err}
	}
}

// tickOnce schedules a single refresh tick after one second.
func tickOnce() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}
