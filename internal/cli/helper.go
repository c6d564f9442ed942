package cli

import (
	"context"

	"github.com/spf13/cobra"

	platformerrors "github.com/jmgilman/gitsession/errors"
	"github.com/jmgilman/gitsession/git"
)

func newHelperCmd(a *app) *cobra.Command {
	var show, disable bool

	cmd := &cobra.Command{
		Use:   "helper [<helper> [-- <helper args>...]]",
		Short: "Show, disable or install the global credential helper",
		Long: `Install the credential helper as the only global credential.helper entry.
Without arguments the configured helper (--helper, default "cache
--timeout=31536000") is installed. Existing entries are replaced, so running
the command repeatedly leaves exactly one entry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if show && disable {
				return platformerrors.New(platformerrors.CodeInvalidInput, "--show and --disable are mutually exclusive")
			}

			g, err := a.helperSession(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			switch {
			case disable:
				if err := g.DisableCredentialHelper(ctx); err != nil {
					return err
				}
			case !show:
				helper, helperArgs, err := a.helperFromArgs(args)
				if err != nil {
					return err
				}
				if err := g.ConfigureCredentialHelper(ctx, helper, helperArgs...); err != nil {
					return err
				}
			}

			current, err := g.CredentialHelper(ctx)
			if err != nil {
				return err
			}
			return a.print(map[string]any{"helper": current, "enabled": current != ""}, current)
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "print the configured helper without changing it")
	cmd.Flags().BoolVar(&disable, "disable", false, "remove every credential.helper entry")
	return cmd
}

// helperSession opens a session that leaves credential.helper alone during
// construction; the helper command manages it explicitly.
func (a *app) helperSession(ctx context.Context) (*git.Git, error) {
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, git.WithoutCredentialHelper())
	return git.New(ctx, a.cfg.Session(), opts...)
}

func (a *app) helperFromArgs(args []string) (string, []string, error) {
	if len(args) > 0 {
		return args[0], args[1:], nil
	}

	configured, err := a.cfg.HelperArgs()
	if err != nil {
		return "", nil, err
	}
	if len(configured) == 0 {
		return git.DefaultCredentialHelper, git.DefaultCredentialHelperOptions, nil
	}
	return configured[0], configured[1:], nil
}
