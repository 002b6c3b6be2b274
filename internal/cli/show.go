package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/interpretive-systems/stagium/internal/gitx"
	"github.com/interpretive-systems/stagium/internal/tui"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <rev>",
		Short: "Browse one commit read-only",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, opts, err := resolveOptions(cmd)
			if err != nil {
				return err
			}
			rev, err := gitx.ResolveCommit(root, args[0])
			if err != nil {
				return fmt.Errorf("unknown revision %q: %w", args[0], err)
			}
			return tui.RunBrowse(opts, rev)
		},
	}
}
