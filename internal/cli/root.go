// Package cli implements the gitsession command tree. Every command loads
// configuration, builds a logger, opens a git session from the resolved
// settings and runs one session operation.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	platformerrors "github.com/jmgilman/gitsession/errors"
	"github.com/jmgilman/gitsession/git"
	"github.com/jmgilman/gitsession/internal/config"
	"github.com/jmgilman/gitsession/internal/logging"
)

// app carries state shared by the commands of one invocation.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *logging.Logger

	stdout io.Writer
	stderr io.Writer

	// extra is appended to the options derived from configuration.
	extra []git.Option
}

func newApp(stdout, stderr io.Writer, opts []git.Option) *app {
	return &app{
		v:      config.New(),
		stdout: stdout,
		stderr: stderr,
		extra:  opts,
	}
}

// NewRootCmd builds the command tree. opts are appended to every session's
// options after the configured ones.
func NewRootCmd(version string, stdout, stderr io.Writer, opts ...git.Option) *cobra.Command {
	return newRootCmd(newApp(stdout, stderr, opts), version)
}

func newRootCmd(a *app, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "gitsession",
		Short: "Credential-aware git sessions for CI jobs and scripts",
		Long: `gitsession drives the git command line through a session that knows the
working-copy root, the origin URL and the identity to authenticate with.

Settings come from flags, GITSESSION_* environment variables (for example
GITSESSION_PASSWORD or GITSESSION_LOG_LEVEL) and an optional YAML file given
with --config.`,
		Version:           version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := config.AddFlags(a.v, root.PersistentFlags()); err != nil {
		// Flag names are static; a failure here is a programming error.
		panic(err)
	}

	root.AddCommand(
		newCloneCmd(a),
		newInitCmd(a),
		newSwitchCmd(a),
		newBranchesCmd(a),
		newCurrentCmd(a),
		newCanMergeCmd(a),
		newPublishCmd(a),
		newDeleteCmd(a),
		newAddCmd(a),
		newCommitCmd(a),
		newStashCmd(a),
		newTagCmd(a),
		newFetchCmd(a),
		newPullCmd(a),
		newPushCmd(a),
		newHelperCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the command tree with args and returns the process exit
// code. Errors are written to stderr, as JSON when --json is set.
func Execute(ctx context.Context, version string, args []string, stdout, stderr io.Writer, opts ...git.Option) int {
	a := newApp(stdout, stderr, opts)
	root := newRootCmd(a, version)
	root.SetArgs(args)
	defer func() { _ = a.teardown() }()

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	if a.jsonOutput() {
		_ = json.NewEncoder(stderr).Encode(platformerrors.ToJSON(err))
	} else {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if cmd != nil && platformerrors.GetCode(err) == platformerrors.CodeUnknown {
			fmt.Fprintln(stderr, cmd.UsageString())
		}
	}
	return 1
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(a.stderr, cfg.Logging())
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.DebugContext(cmd.Context(), "configuration loaded",
		"command", cmd.CommandPath(),
		"root", cfg.Root,
		"url", git.RedactURL(cfg.URL),
		"timeout", cfg.Timeout,
	)
	return nil
}

// teardown closes the log file. It is safe to call more than once.
func (a *app) teardown() error {
	if a.logger == nil {
		return nil
	}
	err := a.logger.Close()
	a.logger = nil
	return err
}

// options returns the session options for the loaded configuration.
func (a *app) options() ([]git.Option, error) {
	opts, err := a.cfg.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, git.WithLogger(a.logger.Logger))
	return append(opts, a.extra...), nil
}

// session opens a session on the configured working copy.
func (a *app) session(ctx context.Context) (*git.Git, error) {
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	return git.New(ctx, a.cfg.Session(), opts...)
}

func (a *app) jsonOutput() bool {
	if a.cfg != nil {
		return a.cfg.JSON
	}
	return a.v.GetBool(config.KeyJSON)
}

// print writes v as JSON when --json is set and as text otherwise.
func (a *app) print(v any, text string) error {
	if a.jsonOutput() {
		return json.NewEncoder(a.stdout).Encode(v)
	}
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(a.stdout, text)
	return err
}
