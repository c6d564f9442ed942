package git

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	platformerrors "github.com/jmgilman/gitsession/errors"
)

// Git is a session over the git command-line tool. It holds the resolved
// identity of one working copy and its origin remote, and dispatches every
// command through Run.
//
// A Git value is not safe for concurrent mutation through its Set* methods.
// Commands themselves share no per-call state and may run concurrently.
type Git struct {
	root     string
	url      string
	protocol Protocol
	username string
	password string
	email    string
	version  *semver.Version
	workDir  string

	run      *runner
	store    CredentialStore
	helpers  HelperConfig
	logger   *slog.Logger
	timeout  time.Duration
	lockFile string
}

// New builds a session from cfg.
//
// Construction checks the git version, configures the credential helper,
// resolves the root, registers or reads back the origin URL, and then
// resolves username, email and password in that order. Empty Config fields
// are read back from git's configuration; a missing password is not an
// error.
//
// Example:
//
//	g, err := git.New(ctx, git.Config{
//	    URL:      "https://example.com/r.git",
//	    Username: "ci",
//	    Password: token,
//	    Email:    "ci@example.com",
//	}, git.WithWorkDir("/src/r"))
func New(ctx context.Context, cfg Config, opts ...Option) (*Git, error) {
	o := newOptions(opts...)
	r := o.runner()

	g := &Git{
		workDir:  o.workDir,
		run:      r,
		store:    o.store,
		helpers:  o.helpers,
		logger:   o.logger,
		timeout:  o.timeout,
		lockFile: o.lockFile,
	}
	if g.store == nil || g.helpers == nil {
		global := &GlobalCredentials{run: r}
		if g.store == nil {
			g.store = global
		}
		if g.helpers == nil {
			g.helpers = global
		}
	}

	if err := g.checkVersion(ctx); err != nil {
		return nil, err
	}

	if !o.disableHelper {
		if err := g.ConfigureCredentialHelper(ctx, o.helper, o.helperOptions...); err != nil {
			return nil, platformerrors.Wrap(err, platformerrors.GetCode(err), "failed to configure credential helper")
		}
	}

	if err := g.setRoot(ctx, cfg.Root); err != nil {
		return nil, err
	}
	if err := g.SetURL(ctx, cfg.URL); err != nil {
		return nil, err
	}
	if err := g.SetUsername(ctx, cfg.Username); err != nil {
		return nil, err
	}
	if err := g.SetEmail(ctx, cfg.Email); err != nil {
		return nil, err
	}
	if err := g.SetPassword(ctx, cfg.Password); err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "session ready",
		"root", g.root,
		"url", RedactURL(g.url),
		"protocol", g.protocol,
		"version", g.version.String(),
	)
	return g, nil
}

// Run executes `git <args...>` in the session's working directory and
// returns its standard output. Every session operation goes through Run.
func (g *Git) Run(ctx context.Context, args ...string) (string, error) {
	return g.run.run(ctx, g.workDir, nil, args...)
}

// Root returns the working-copy root.
func (g *Git) Root() string { return g.root }

// URL returns the origin URL, including any embedded credentials.
func (g *Git) URL() string { return g.url }

// Protocol returns how the origin URL is reached.
func (g *Git) Protocol() Protocol { return g.protocol }

// Username returns the resolved username.
func (g *Git) Username() string { return g.username }

// Password returns the resolved password, or "" if none is stored.
func (g *Git) Password() string { return g.password }

// Email returns the resolved email.
func (g *Git) Email() string { return g.email }

// Version returns the git version found at construction.
func (g *Git) Version() *semver.Version { return g.version }

// WorkDir returns the directory commands run in. Empty means the process
// working directory.
func (g *Git) WorkDir() string { return g.workDir }

// SetURL registers url as origin. If origin already exists its URL is
// updated instead. An empty url reads back the configured origin URL.
// The URL must use a recognized protocol.
func (g *Git) SetURL(ctx context.Context, url string) error {
	if url == "" {
		out, err := g.Run(ctx, "config", "--get", "remote."+RemoteName+".url")
		if err != nil {
			return platformerrors.Wrap(err, platformerrors.GetCode(err), "failed to read remote URL")
		}
		url = firstLine(out)

		protocol, err := classifyProtocol(url)
		if err != nil {
			return err
		}
		g.url, g.protocol = url, protocol
		return nil
	}

	protocol, err := classifyProtocol(url)
	if err != nil {
		return err
	}

	if _, err := g.Run(ctx, "remote", "add", RemoteName, url); err != nil {
		if !platformerrors.HasCode(err, platformerrors.CodeAlreadyExists) {
			return err
		}
		g.logger.InfoContext(ctx, "ignored: remote already exists, updating URL", "remote", RemoteName)
		if _, err := g.Run(ctx, "remote", "set-url", RemoteName, url); err != nil {
			return err
		}
	}

	g.url, g.protocol = url, protocol
	return nil
}

// SetUsername approves username into the credential store, or reads back
// user.name when username is empty.
func (g *Git) SetUsername(ctx context.Context, username string) error {
	if username == "" {
		out, err := g.Run(ctx, "config", "--get", "user.name")
		if err != nil {
			return platformerrors.Wrap(err, platformerrors.GetCode(err), "failed to read username")
		}
		g.username = firstLine(out)
		return nil
	}

	if err := g.approve(ctx, Credential{Username: username}); err != nil {
		return err
	}
	g.username = username
	return nil
}

// SetPassword approves password into the credential store, or reads back
// user.password when password is empty. A failed read-back leaves the
// password empty.
func (g *Git) SetPassword(ctx context.Context, password string) error {
	if password == "" {
		out, err := g.Run(ctx, "config", "--get", "user.password")
		if err != nil {
			g.logger.InfoContext(ctx, "ignored: no stored password", "error", err)
			g.password = ""
			return nil
		}
		g.password = firstLine(out)
		return nil
	}

	if err := g.approve(ctx, Credential{Password: password}); err != nil {
		return err
	}
	g.password = password
	return nil
}

// SetEmail approves email into the credential store, or reads back
// user.email when email is empty.
func (g *Git) SetEmail(ctx context.Context, email string) error {
	if email == "" {
		out, err := g.Run(ctx, "config", "--get", "user.email")
		if err != nil {
			return platformerrors.Wrap(err, platformerrors.GetCode(err), "failed to read email")
		}
		g.email = firstLine(out)
		return nil
	}

	if err := g.approve(ctx, Credential{Email: email}); err != nil {
		return err
	}
	g.email = email
	return nil
}

// ConfigList returns the output of `git config --list`, one entry per line.
func (g *Git) ConfigList(ctx context.Context) ([]string, error) {
	out, err := g.Run(ctx, "config", "--list")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (g *Git) setRoot(ctx context.Context, root string) error {
	if root != "" {
		g.root = root
		return nil
	}

	out, err := g.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return platformerrors.Wrap(err, platformerrors.GetCode(err), "failed to resolve repository root")
	}
	g.root = firstLine(out)
	return nil
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// checkVersion parses `git --version` and rejects releases older than
// MinimumVersion.
func (g *Git) checkVersion(ctx context.Context) error {
	out, err := g.Run(ctx, "--version")
	if err != nil {
		return platformerrors.Wrap(err, platformerrors.GetCode(err), "failed to determine git version")
	}

	version, err := parseVersion(out)
	if err != nil {
		return err
	}
	if version.LessThan(MinimumVersion) {
		return platformerrors.WithContextMap(
			platformerrors.Newf(platformerrors.CodeVersionUnsupported,
				"git %s is not supported, install %s or newer", version, MinimumVersion),
			map[string]interface{}{"version": version.String(), "minimum": MinimumVersion.String()},
		)
	}

	g.version = version
	return nil
}

// parseVersion extracts the release from output such as "git version 2.39.2"
// or "git version 2.37.1 (Apple Git-137.1)".
func parseVersion(out string) (*semver.Version, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out), "git version"))
	match := versionPattern.FindString(raw)
	if match == "" {
		return nil, platformerrors.Newf(platformerrors.CodeParseFailed, "unrecognized git version output %q", firstLine(out))
	}

	version, err := semver.NewVersion(match)
	if err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeParseFailed, "unrecognized git version %q", match)
	}
	return version, nil
}
