package git

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/jmgilman/gitsession/exec"
)

// runner is the single dispatch point for git invocations.
type runner struct {
	executor exec.Executor
	env      map[string]string
	timeout  time.Duration
	logger   *slog.Logger
}

// run executes git with args in dir and returns its stdout. Each call works
// on a clone of the executor so concurrent calls share no per-call state.
func (r *runner) run(ctx context.Context, dir string, stdin io.Reader, args ...string) (string, error) {
	if _, ok := ctx.Deadline(); !ok && r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var git exec.Executor = exec.NewWrapper(r.executor.Clone(), "git")
	git = git.WithContext(ctx)
	if dir != "" {
		git = git.WithDir(dir)
	}
	if len(r.env) > 0 {
		git = git.WithEnv(r.env)
	}
	if stdin != nil {
		git = git.WithStdin(stdin)
	}

	r.logger.DebugContext(ctx, "running git",
		"args", RedactURL(shellquote.Join(args...)),
		"dir", dir,
	)

	result, err := git.Run(args...)
	if err != nil {
		err = classifyExecError(err, args)
		r.logger.DebugContext(ctx, "git failed", "args", RedactURL(shellquote.Join(args...)), "error", err)
		return "", err
	}

	return result.Stdout, nil
}
