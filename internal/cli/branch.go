package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newSwitchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <branch>",
		Short: "Check out a branch, creating it from HEAD if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := g.Switch(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.print(map[string]string{"branch": args[0]}, "")
		},
	}
}

func newBranchesCmd(a *app) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "branches",
		Short: "List local or remote-tracking branches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			list := g.LocalBranches
			if remote {
				list = g.RemoteBranches
			}
			branches, err := list(cmd.Context())
			if err != nil {
				return err
			}
			return a.printLines(branches)
		},
	}
	cmd.Flags().BoolVarP(&remote, "remote", "r", false, "list remote-tracking branches")
	return cmd
}

func newCurrentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the checked out branch and whether it tracks a remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			branch, err := g.CurrentBranch(cmd.Context())
			if err != nil {
				return err
			}
			tracked, err := g.HasRemote(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(map[string]any{"branch": branch, "tracked": tracked}, branch)
		},
	}
}

func newCanMergeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "can-merge <into>",
		Short: "Report whether the current branch can be merged into another",
		Long: `Print true if merging the current branch into <into> is safe: <into> already
contains the current tip, or <into> is the current branch and there are
uncommitted changes to tracked files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := g.CanMerge(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(map[string]any{"into": args[0], "can_merge": ok}, strconv.FormatBool(ok))
		},
	}
}

func newPublishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "publish [branch]",
		Short: "Push a branch to origin and track it (default: current branch)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			branch := ""
			if len(args) == 1 {
				branch = args[0]
			}
			return g.CreateRemote(cmd.Context(), branch)
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "delete <branch>",
		Short: "Delete a merged local branch, or a branch on origin with --remote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if remote {
				return g.DeleteRemote(cmd.Context(), args[0])
			}
			return g.DeleteLocal(cmd.Context(), args[0])
		},
	}
	cmd.Flags().BoolVarP(&remote, "remote", "r", false, "delete the branch on origin")
	return cmd
}

// printLines writes one entry per line, or a JSON array.
func (a *app) printLines(lines []string) error {
	if lines == nil {
		lines = []string{}
	}
	return a.print(lines, strings.Join(lines, "\n"))
}
