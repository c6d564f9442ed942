package git

import (
	"io"
	"log/slog"
	"maps"
	"time"

	"github.com/jmgilman/gitsession/exec"
)

// Option configures a session built by New, Open, Clone or Init.
type Option func(*options)

type options struct {
	executor      exec.Executor
	store         CredentialStore
	helpers       HelperConfig
	logger        *slog.Logger
	timeout       time.Duration
	helper        string
	helperOptions []string
	disableHelper bool
	workDir       string
	lockFile      string
	env           map[string]string
}

func newOptions(opts ...Option) *options {
	o := &options{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:       DefaultCommandTimeout,
		helper:        DefaultCredentialHelper,
		helperOptions: DefaultCredentialHelperOptions,
		env:           map[string]string{"GIT_TERMINAL_PROMPT": "0"},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.executor == nil {
		o.executor = exec.New(exec.WithInheritEnv(), exec.WithRedactor(RedactURL))
	}
	return o
}

// runner builds the command runner shared by a session and its default
// credential store.
func (o *options) runner() *runner {
	return &runner{
		executor: o.executor,
		env:      maps.Clone(o.env),
		timeout:  o.timeout,
		logger:   o.logger,
	}
}

// WithExecutor runs git through e instead of a new exec.Command. Tests pass
// a fake here.
func WithExecutor(e exec.Executor) Option {
	return func(o *options) {
		o.executor = e
	}
}

// WithCredentialStore replaces the global `git credential approve` store.
func WithCredentialStore(s CredentialStore) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithHelperConfig replaces the global credential.helper configuration.
func WithHelperConfig(h HelperConfig) Option {
	return func(o *options) {
		o.helpers = h
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTimeout bounds each git command whose context has no deadline.
// Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithCredentialHelper installs helper with args instead of
// DefaultCredentialHelper.
func WithCredentialHelper(helper string, args ...string) Option {
	return func(o *options) {
		o.helper = helper
		o.helperOptions = args
		o.disableHelper = false
	}
}

// WithoutCredentialHelper leaves the credential.helper configuration alone.
func WithoutCredentialHelper() Option {
	return func(o *options) {
		o.disableHelper = true
	}
}

// WithWorkDir runs commands in dir instead of the process working directory.
func WithWorkDir(dir string) Option {
	return func(o *options) {
		o.workDir = dir
	}
}

// WithLockFile serializes credential helper configuration and credential
// approval across processes through an exclusive lock on path.
func WithLockFile(path string) Option {
	return func(o *options) {
		o.lockFile = path
	}
}

// WithEnv adds environment variables to every git command.
func WithEnv(env map[string]string) Option {
	return func(o *options) {
		maps.Copy(o.env, env)
	}
}
