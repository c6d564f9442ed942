package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jmgilman/gitsession/git"
)

// newPassthroughCmd builds fetch, pull and push, which forward everything
// after -- to git.
func newPassthroughCmd(a *app, use, short string, op func(*git.Git) func(context.Context, ...string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [-- <git args>...]",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			return op(g)(cmd.Context(), args...)
		},
	}
}

func newFetchCmd(a *app) *cobra.Command {
	return newPassthroughCmd(a, "fetch", "Run git fetch", func(g *git.Git) func(context.Context, ...string) error {
		return g.Fetch
	})
}

func newPullCmd(a *app) *cobra.Command {
	return newPassthroughCmd(a, "pull", "Run git pull --rebase", func(g *git.Git) func(context.Context, ...string) error {
		return g.Pull
	})
}

func newPushCmd(a *app) *cobra.Command {
	return newPassthroughCmd(a, "push", "Run git push", func(g *git.Git) func(context.Context, ...string) error {
		return g.Push
	})
}
