package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/interpretive-systems/stagium/internal/config"
	"github.com/interpretive-systems/stagium/internal/gitx"
	"github.com/interpretive-systems/stagium/internal/prefs"
	"github.com/interpretive-systems/stagium/internal/theme"
	"github.com/interpretive-systems/stagium/internal/tui"
)

func Execute() error {
	root := &cobra.Command{
		Use:   "stagium",
		Short: "Interactive staging TUI for git changes",
		Long:  "Stagium: review pending changes and stage them file by file, hunk by hunk or line by line.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd)
		},
	}

	root.PersistentFlags().StringP("repo", "r", ".", "Path to repository root (default: current dir)")
	root.PersistentFlags().VarP(newToolFlag(), "tool", "t", "Diff display tool (raw, delta or difftastic)")

	// Add subcommands
	root.AddCommand(newReviewCmd())
	root.AddCommand(newShowCmd())

	return root.Execute()
}

func newReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Review and stage pending changes (the default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd)
		},
	}
}

func runReview(cmd *cobra.Command) error {
	_, opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	return tui.Run(opts)
}

// resolveOptions turns flags, per-repo prefs and the config file into
// session options. The tool precedence is flag, then repo pref, then
// config file, then raw; an explicit flag is persisted as the repo
// pref for the next run.
func resolveOptions(cmd *cobra.Command) (string, tui.Options, error) {
	repoPath := mustGetStringFlag(cmd.Root(), "repo")
	root, err := gitx.RepoRoot(repoPath)
	if err != nil {
		return "", tui.Options{}, errors.New("not a git repository (run stagium inside a work tree)")
	}

	cfg, err := config.Load()
	if err != nil {
		return "", tui.Options{}, err
	}
	pr := prefs.Load(root)

	toolFlag := cmd.Root().PersistentFlags().Lookup("tool")
	tool := gitx.ToolRaw
	switch {
	case toolFlag != nil && toolFlag.Changed:
		tool = toolFlag.Value.(*toolValue).tool
		_ = prefs.SaveTool(root, tool.String())
	case pr.ToolSet:
		if t, perr := gitx.ParseTool(pr.Tool); perr == nil {
			tool = t
		} else if cfg.Tool != nil {
			// Config values were validated on load.
			tool, _ = gitx.ParseTool(*cfg.Tool)
		}
	case cfg.Tool != nil:
		tool, _ = gitx.ParseTool(*cfg.Tool)
	}

	themeName := "dark"
	if cfg.Theme != nil {
		themeName = *cfg.Theme
	}

	opts := tui.Options{
		RepoRoot: root,
		Tool:     tool,
		Theme:    theme.LoadRepoTheme(root, themeName),
	}
	if pr.LeftSet {
		opts.LeftWidth = pr.LeftWidth
	}
	return root, opts, nil
}

// toolValue is a pflag.Value so an invalid --tool fails at parse time.
type toolValue struct {
	tool gitx.Tool
}

var _ pflag.Value = (*toolValue)(nil)

func newToolFlag() *toolValue {
	return &toolValue{tool: gitx.ToolRaw}
}

func (v *toolValue) String() string { return v.tool.String() }

func (v *toolValue) Set(s string) error {
	t, err := gitx.ParseTool(s)
	if err != nil {
		return err
	}
	v.tool = t
	return nil
}

func (v *toolValue) Type() string { return "tool" }

func mustGetStringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, "flag error:", err)
		os.Exit(2)
	}
	return v
}
