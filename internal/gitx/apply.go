package gitx

// ApplyCached feeds a synthesized patch to git apply --cached. Both
// forward staging patches and the directly-built reverse patches go
// through here, since the reverse builders already encode direction.
func ApplyCached(root, patch string) error {
	_, err := runGitStdin(root, patch, "apply", "--cached", "-")
	return err
}

// ApplyCachedReverse unapplies a whole-hunk patch from the index.
func ApplyCachedReverse(root, patch string) error {
	_, err := runGitStdin(root, patch, "apply", "--cached", "--reverse", "-")
	return err
}
