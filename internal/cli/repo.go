package cli

import (
	"github.com/spf13/cobra"

	"github.com/jmgilman/gitsession/git"
)

type repoResult struct {
	Root     string       `json:"root"`
	URL      string       `json:"url"`
	Protocol git.Protocol `json:"protocol"`
	Branch   string       `json:"branch,omitempty"`
}

func newCloneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clone <url> <path> [-- <git clone args>...]",
		Short: "Clone a repository and register authenticated origin",
		Long: `Clone a repository into path. For https URLs the configured username and
password are embedded in the clone URL, so later fetches and pushes do not
prompt. Arguments after -- are passed to git clone.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}

			repo, err := git.Clone(cmd.Context(), git.CloneConfig{
				URL:      args[0],
				Path:     args[1],
				Username: a.cfg.Username,
				Password: a.cfg.Password,
				Email:    a.cfg.Email,
				Args:     args[2:],
			}, opts...)
			if err != nil {
				return err
			}

			return a.print(repoResult{
				Root:     repo.Root(),
				URL:      git.RedactURL(repo.URL()),
				Protocol: repo.Protocol(),
			}, repo.Root())
		},
	}
}

func newInitCmd(a *app) *cobra.Command {
	var fetchArgs, pullArgs []string

	cmd := &cobra.Command{
		Use:   "init <url> [path]",
		Short: "Create a repository tracking url and pull its history",
		Long: `Create a repository in path (default: --root or the current directory),
register url as origin, fetch, and pull the remote's default branch.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}

			path := a.cfg.Root
			if len(args) == 2 {
				path = args[1]
			}

			g, err := git.Init(cmd.Context(), git.InitConfig{
				Path:      path,
				URL:       args[0],
				Username:  a.cfg.Username,
				Password:  a.cfg.Password,
				Email:     a.cfg.Email,
				FetchArgs: fetchArgs,
				PullArgs:  pullArgs,
			}, opts...)
			if err != nil {
				return err
			}

			branch, err := g.CurrentBranch(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(repoResult{
				Root:     g.Root(),
				URL:      git.RedactURL(g.URL()),
				Protocol: g.Protocol(),
				Branch:   branch,
			}, g.Root())
		},
	}
	cmd.Flags().StringArrayVar(&fetchArgs, "fetch-arg", nil, "argument passed to git fetch (repeatable)")
	cmd.Flags().StringArrayVar(&pullArgs, "pull-arg", nil, "argument passed to git pull --rebase (repeatable, default: origin HEAD)")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective git configuration (git config --list)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := g.ConfigList(cmd.Context())
			if err != nil {
				return err
			}
			return a.printLines(entries)
		},
	}
}
