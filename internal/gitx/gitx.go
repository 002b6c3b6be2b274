// Package gitx shells out to git for repository status, diffs and index
// edits. Every function takes the repository root and runs git -C root,
// so callers never depend on the process working directory.
package gitx

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// FileStatus is one entry of git status --porcelain. Index and Worktree
// are the two status letters of the line.
type FileStatus struct {
	Path     string
	Index    byte
	Worktree byte
}

func (f FileStatus) Untracked() bool {
	return f.Index == '?' && f.Worktree == '?'
}

// Unstaged reports whether the entry has working tree changes and so
// belongs in the unstaged pane. Untracked files count.
func (f FileStatus) Unstaged() bool {
	return f.Worktree != ' '
}

// Staged reports whether the entry has index changes and so belongs in
// the staged pane.
func (f FileStatus) Staged() bool {
	return f.Index != ' ' && f.Index != '?'
}

func runGit(root string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", root}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		return "", gitError(args, err)
	}
	return string(out), nil
}

func runGitStdin(root, stdin string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", root}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.Output()
	if err != nil {
		return "", gitError(args, err)
	}
	return string(out), nil
}

func gitError(args []string, err error) error {
	var ee *exec.ExitError
	if errors.As(err, &ee) && len(ee.Stderr) > 0 {
		return fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(ee.Stderr)))
	}
	return fmt.Errorf("git %s: %w", args[0], err)
}

// RepoRoot resolves the work tree top level for path.
func RepoRoot(path string) (string, error) {
	cmd := exec.Command("git", "-C", path, "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	root := strings.TrimSpace(string(out))
	if err != nil || root == "" {
		return "", errors.New("not a git repository (run stagium inside a work tree)")
	}
	return root, nil
}

// Status lists changed files.
func Status(root string) ([]FileStatus, error) {
	out, err := runGit(root, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseStatus(out), nil
}

func parseStatus(out string) []FileStatus {
	var files []FileStatus
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 3 {
			continue
		}
		rest := line[3:]
		if i := strings.LastIndex(rest, " -> "); i >= 0 {
			rest = rest[i+len(" -> "):]
		}
		rest = strings.Trim(rest, "\"")
		if rest == "" {
			continue
		}
		files = append(files, FileStatus{Path: rest, Index: line[0], Worktree: line[1]})
	}
	return files
}

// StageFile adds one path to the index.
func StageFile(root, path string) error {
	_, err := runGit(root, "add", "--", path)
	return err
}

// UnstageFile restores one path in the index to HEAD.
func UnstageFile(root, path string) error {
	_, err := runGit(root, "restore", "--staged", "--", path)
	return err
}

// Commit records the index with the given message.
func Commit(root, message string) error {
	_, err := runGit(root, "commit", "-m", message)
	return err
}

// Push sends the current branch, setting up an upstream on the first
// push of a new branch.
func Push(root string) error {
	if _, err := runGit(root, "push"); err == nil {
		return nil
	}
	branch, err := CurrentBranch(root)
	if err != nil {
		return err
	}
	remote, err := firstRemote(root)
	if err != nil {
		return err
	}
	_, err = runGit(root, "push", "-u", remote, branch)
	return err
}

func firstRemote(root string) (string, error) {
	out, err := runGit(root, "remote")
	if err != nil {
		return "", err
	}
	remotes := strings.Fields(out)
	if len(remotes) == 0 {
		return "", errors.New("no git remotes configured")
	}
	return remotes[0], nil
}

// CurrentBranch returns the abbreviated HEAD ref name.
func CurrentBranch(root string) (string, error) {
	out, err := runGit(root, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// LastCommitSummary returns "hash subject" for HEAD. An empty string
// means the repository has no commits yet.
func LastCommitSummary(root string) (string, error) {
	out, err := runGit(root, "log", "-1", "--pretty=format:%h %s")
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(out), nil
}

// ResolveCommit expands a revision to a full commit hash.
func ResolveCommit(root, rev string) (string, error) {
	out, err := runGit(root, "rev-parse", "--verify", rev+"^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CommitFiles lists the files touched by a commit. Renames and copies
// report the new name. Both status letters carry the name-status code.
func CommitFiles(root, rev string) ([]FileStatus, error) {
	out, err := runGit(root, "show", "--format=", "--name-status", "--find-renames", rev)
	if err != nil {
		return nil, err
	}
	return parseCommitNameStatus(out), nil
}

func parseCommitNameStatus(out string) []FileStatus {
	var files []FileStatus
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[0] == "" {
			continue
		}
		letter := fields[0][0]
		path := fields[1]
		if (letter == 'R' || letter == 'C') && len(fields) > 2 {
			path = fields[2]
		}
		files = append(files, FileStatus{Path: path, Index: letter, Worktree: letter})
	}
	return files
}
