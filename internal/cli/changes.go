package cli

import (
	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add [pathspec] [-- <git add args>...]",
		Short: "Force-add paths to the index (default: .)",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			pathspec := ""
			if len(args) > 0 {
				pathspec, args = args[0], args[1:]
			}
			return g.Add(cmd.Context(), pathspec, args...)
		},
	}
}

func newCommitCmd(a *app) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit -m <message>",
		Short: "Commit all tracked changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			return g.Commit(cmd.Context(), message)
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func newStashCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stash",
		Short: "Stash working-tree changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			return g.Stash(cmd.Context())
		},
	}
}

func newTagCmd(a *app) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "tag <name> -m <message>",
		Short: "Create an annotated tag at HEAD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			return g.Tag(cmd.Context(), args[0], message)
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "tag message")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}
