package git

import (
	"context"
	"path/filepath"
	"slices"

	platformerrors "github.com/jmgilman/gitsession/errors"
)

// Repo is a session bound to a checkout: every command runs with its working
// directory set to Root, whatever the process working directory is.
type Repo struct {
	*Git
}

// Open binds a session to the checkout at path. cfg.Root defaults to the
// absolute form of path.
func Open(ctx context.Context, path string, cfg Config, opts ...Option) (*Repo, error) {
	if path == "" {
		return nil, platformerrors.New(platformerrors.CodeInvalidInput, "repository path is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "invalid repository path %q", path)
	}
	if cfg.Root == "" {
		cfg.Root = abs
	}

	g, err := New(ctx, cfg, append(slices.Clip(opts), WithWorkDir(cfg.Root))...)
	if err != nil {
		return nil, err
	}
	return &Repo{Git: g}, nil
}

// Clone clones cfg.URL into cfg.Path and opens the result.
//
// For https remotes the credentials are embedded in the URL used for the
// clone and registered as origin, so later fetches and pushes authenticate
// without prompting.
//
// Example:
//
//	repo, err := git.Clone(ctx, git.CloneConfig{
//	    Path:     "/src/r",
//	    URL:      "https://example.com/r.git",
//	    Username: "ci",
//	    Password: token,
//	    Email:    "ci@example.com",
//	    Args:     []string{"--depth", "1"},
//	})
func Clone(ctx context.Context, cfg CloneConfig, opts ...Option) (*Repo, error) {
	if cfg.URL == "" {
		return nil, platformerrors.New(platformerrors.CodeInvalidInput, "clone URL is required")
	}
	if cfg.Path == "" {
		return nil, platformerrors.New(platformerrors.CodeInvalidInput, "clone path is required")
	}
	if _, err := classifyProtocol(cfg.URL); err != nil {
		return nil, err
	}

	o := newOptions(opts...)
	path := cfg.Path
	if !filepath.IsAbs(path) && o.workDir != "" {
		path = filepath.Join(o.workDir, path)
	}

	url := MakeRemoteURL(cfg.URL, cfg.Username, cfg.Password)
	args := append([]string{"clone"}, cfg.Args...)
	args = append(args, url, path)
	if _, err := o.runner().run(ctx, o.workDir, nil, args...); err != nil {
		return nil, err
	}

	return Open(ctx, path, Config{
		URL:      url,
		Username: cfg.Username,
		Password: cfg.Password,
		Email:    cfg.Email,
	}, opts...)
}

// Init creates a repository, registers cfg.URL as origin, and pulls its
// history.
//
// The sequence is `git init`, `git remote add origin <url>`, session
// construction, `git fetch <FetchArgs...>` and `git pull --rebase
// <PullArgs...>`. PullArgs defaults to "origin HEAD" so an empty repository
// can be filled from the remote's default branch.
func Init(ctx context.Context, cfg InitConfig, opts ...Option) (*Git, error) {
	if cfg.URL == "" {
		return nil, platformerrors.New(platformerrors.CodeInvalidInput, "remote URL is required")
	}
	if _, err := classifyProtocol(cfg.URL); err != nil {
		return nil, err
	}

	o := newOptions(opts...)
	dir := o.workDir
	if cfg.Path != "" {
		abs, err := filepath.Abs(cfg.Path)
		if err != nil {
			return nil, platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "invalid repository path %q", cfg.Path)
		}
		dir = abs
	}

	r := o.runner()
	url := MakeRemoteURL(cfg.URL, cfg.Username, cfg.Password)

	initArgs := []string{"init"}
	if dir != "" {
		initArgs = append(initArgs, dir)
	}
	if _, err := r.run(ctx, "", nil, initArgs...); err != nil {
		return nil, err
	}
	if _, err := r.run(ctx, dir, nil, "remote", "add", RemoteName, url); err != nil {
		return nil, err
	}

	if dir != "" {
		opts = append(slices.Clip(opts), WithWorkDir(dir))
	}
	g, err := New(ctx, Config{
		Root:     dir,
		URL:      url,
		Username: cfg.Username,
		Password: cfg.Password,
		Email:    cfg.Email,
	}, opts...)
	if err != nil {
		return nil, err
	}

	if err := g.Fetch(ctx, cfg.FetchArgs...); err != nil {
		return nil, err
	}

	pullArgs := cfg.PullArgs
	if len(pullArgs) == 0 {
		pullArgs = []string{RemoteName, "HEAD"}
	}
	if err := g.Pull(ctx, pullArgs...); err != nil {
		return nil, err
	}
	return g, nil
}
