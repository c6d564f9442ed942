// Package git provides a credential-aware session over the git command-line
// tool for automation scripts and CI pipelines.
//
// A session (Git) resolves the identity of one working copy: its root, the
// URL of its single remote (origin), and the username, password and email
// used against it. Every operation is a git invocation dispatched through
// Git.Run, so the package never reads or writes repository internals
// directly. A Repo is a session bound to a checkout; its commands always run
// with the working directory pinned to the checkout root.
//
// # Creating sessions
//
// Clone and Init materialize a checkout and return a ready session:
//
//	repo, err := git.Clone(ctx, git.CloneConfig{
//	    Path:     "/src/app",
//	    URL:      "https://git.example.com/team/app.git",
//	    Username: "ci-bot",
//	    Password: os.Getenv("GIT_TOKEN"),
//	    Email:    "ci-bot@example.com",
//	})
//	if err != nil {
//	    return err
//	}
//
// Open binds to an existing checkout; fields left empty in Config are read
// back from git's configuration:
//
//	repo, err := git.Open(ctx, "/src/app", git.Config{})
//
// # Remote authentication
//
// MakeRemoteURL embeds percent-encoded credentials into https URLs and leaves
// every other scheme untouched. Clone and Init apply it automatically.
// Because the authenticated URL carries a secret, the package redacts it with
// RedactURL in every log line and error it produces.
//
// # Credential helper
//
// New configures git's global credential helper (DefaultCredentialHelper,
// the in-memory cache, unless changed with WithCredentialHelper or skipped
// with WithoutCredentialHelper) and approves supplied credentials into it.
// Both are host-global state shared by every session and process. Callers
// running sessions concurrently across processes can serialize this with
// WithLockFile. Tests substitute CredentialStore and HelperConfig fakes
// through WithCredentialStore and WithHelperConfig.
//
// # Branches
//
//	if err := repo.Switch(ctx, "release/1.2"); err != nil {
//	    return err
//	}
//	ok, err := repo.CanMerge(ctx, "main")
//
// Switch creates the branch when it does not exist and checks it out
// otherwise. CanMerge answers whether the current branch's tip is already
// contained in the target branch, or, when the target is the current branch,
// whether there is anything to commit.
//
// # Errors
//
// All errors are errors.PlatformError values from this module's errors
// package. Failures are classified by exit code where git documents one and
// by a fixed list of stderr substrings otherwise:
//
//	err := repo.CreateBranch(ctx, "main")
//	if errors.HasCode(err, errors.CodeAlreadyExists) {
//	    err = repo.Checkout(ctx, "main")
//	}
//
// Error context carries the redacted command line, exit code and stderr.
//
// # Timeouts
//
// Each command runs under its context. Commands whose context has no
// deadline are bounded by DefaultCommandTimeout, configurable with
// WithTimeout. GIT_TERMINAL_PROMPT=0 is set so a missing credential fails
// instead of waiting for input.
package git
