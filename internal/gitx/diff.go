package gitx

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Tool selects how diffs are rendered for display.
type Tool string

const (
	ToolRaw        Tool = "raw"
	ToolDelta      Tool = "delta"
	ToolDifftastic Tool = "difftastic"
)

// ParseTool validates a tool name from a flag or config value.
func ParseTool(s string) (Tool, error) {
	switch Tool(s) {
	case ToolRaw, ToolDelta, ToolDifftastic:
		return Tool(s), nil
	}
	return "", fmt.Errorf("unknown diff tool %q (want raw, delta or difftastic)", s)
}

func (t Tool) String() string { return string(t) }

// SupportsLineOps reports whether displayed rows can be mapped back to
// raw diff lines. Difftastic restructures its output, so line selection
// is disabled there.
func (t Tool) SupportsLineOps() bool { return t != ToolDifftastic }

// Diff returns the plain unified diff for one path, working tree vs
// index, or index vs HEAD when staged is set.
func Diff(root, path string, staged bool) (string, error) {
	return runGit(root, diffArgs(path, staged, false)...)
}

// CommitDiff returns the plain patch one commit applies to one path.
func CommitDiff(root, rev, path string) (string, error) {
	return runGit(root, "show", "--format=", "--patch", rev, "--", path)
}

// DisplayDiff fetches the diff for on-screen use, rendered through the
// selected tool. Width only matters to delta, which lays out for it.
func DisplayDiff(root, path string, staged bool, tool Tool, width int) (string, error) {
	switch tool {
	case ToolDelta:
		return deltaPipe(root, diffArgs(path, staged, false), width)
	case ToolDifftastic:
		return difftasticRun(root, diffArgs(path, staged, true))
	default:
		return Diff(root, path, staged)
	}
}

// DisplayCommitDiff is DisplayDiff for the patch of a commit.
func DisplayCommitDiff(root, rev, path string, tool Tool, width int) (string, error) {
	showArgs := func(extDiff bool) []string {
		args := []string{"show", "--format=", "--patch"}
		if extDiff {
			args = append(args, "--ext-diff")
		}
		return append(args, rev, "--", path)
	}
	switch tool {
	case ToolDelta:
		return deltaPipe(root, showArgs(false), width)
	case ToolDifftastic:
		return difftasticRun(root, showArgs(true))
	default:
		return CommitDiff(root, rev, path)
	}
}

func diffArgs(path string, staged, extDiff bool) []string {
	args := []string{"diff"}
	if staged {
		args = append(args, "--cached")
	}
	if extDiff {
		args = append(args, "--ext-diff")
	}
	return append(args, "--", path)
}

// deltaPipe streams git output through delta. Delta reports its own
// exit codes for found differences, so any run that produced output
// counts as success.
func deltaPipe(root string, gitArgs []string, width int) (string, error) {
	w := strconv.Itoa(width)

	gitCmd := exec.Command("git", append([]string{"-C", root}, gitArgs...)...)
	pipe, err := gitCmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", gitArgs[0], err)
	}

	deltaCmd := exec.Command("delta", "--width", w, "--paging", "never")
	deltaCmd.Env = append(os.Environ(), "COLUMNS="+w)
	deltaCmd.Stdin = pipe
	var buf bytes.Buffer
	deltaCmd.Stdout = &buf

	if err := gitCmd.Start(); err != nil {
		return "", fmt.Errorf("git %s: %w", gitArgs[0], err)
	}
	runErr := deltaCmd.Run()
	waitErr := gitCmd.Wait()
	if buf.Len() == 0 {
		if runErr != nil {
			return "", fmt.Errorf("delta: %w", runErr)
		}
		if waitErr != nil {
			return "", fmt.Errorf("git %s: %w", gitArgs[0], waitErr)
		}
	}
	return buf.String(), nil
}

// difftasticRun lets git drive difft as its external diff command.
func difftasticRun(root string, gitArgs []string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", root}, gitArgs...)...)
	cmd.Env = append(os.Environ(), "GIT_EXTERNAL_DIFF=difft")
	out, err := cmd.Output()
	if err != nil && len(out) == 0 {
		return "", gitError(gitArgs, err)
	}
	return string(out), nil
}
