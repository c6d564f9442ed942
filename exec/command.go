package exec

import (
	"context"
	"io"
	"os"
	osexec "os/exec"
	"time"
)

// Command is the concrete implementation of the Executor interface.
type Command struct {
	config  *config
	baseCtx context.Context
	ctx     context.Context
	stdout  io.Writer
	stderr  io.Writer
	redact  Redactor
}

// New creates a new Command with the given global options.
func New(opts ...Option) *Command {
	cmd := &Command{
		config:  newConfig(),
		baseCtx: context.Background(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(cmd)
	}

	return cmd
}

// WithEnv sets environment variables for the next Run.
func (c *Command) WithEnv(env map[string]string) Executor {
	for k, v := range env {
		c.config.localEnv[k] = v
	}
	return c
}

// WithDir sets the working directory for the next Run.
func (c *Command) WithDir(dir string) Executor {
	c.config.localDir = dir
	return c
}

// WithContext sets the context for the next Run.
func (c *Command) WithContext(ctx context.Context) Executor {
	c.ctx = ctx
	return c
}

// WithTimeout bounds the next Run.
func (c *Command) WithTimeout(timeout time.Duration) Executor {
	c.config.localTimeout = &timeout
	return c
}

// WithInheritEnv enables environment inheritance for the next Run.
func (c *Command) WithInheritEnv() Executor {
	val := true
	c.config.localInheritEnv = &val
	return c
}

// WithStdin feeds r to the next Run.
func (c *Command) WithStdin(r io.Reader) Executor {
	c.config.localStdin = r
	return c
}

// WithStdout sets the stdout passthrough writer.
func (c *Command) WithStdout(w io.Writer) Executor {
	c.stdout = w
	return c
}

// WithStderr sets the stderr passthrough writer.
func (c *Command) WithStderr(w io.Writer) Executor {
	c.stderr = w
	return c
}

// WithPassthrough enables output passthrough for the next Run.
func (c *Command) WithPassthrough() Executor {
	val := true
	c.config.localPassthrough = &val
	return c
}

// Run executes the command with the given arguments.
func (c *Command) Run(args ...string) (*Result, error) {
	defer c.reset()

	if len(args) == 0 {
		return nil, c.newError(args, nil, osexec.ErrNotFound)
	}

	ctx := c.ctx
	if ctx == nil {
		ctx = c.baseCtx
	}
	if timeout := c.config.effectiveTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := osexec.CommandContext(ctx, args[0], args[1:]...)

	if dir := c.config.effectiveDir(); dir != "" {
		cmd.Dir = dir
	}

	if c.config.effectiveInheritEnv() {
		cmd.Env = os.Environ()
	}
	for k, v := range c.config.effectiveEnv() {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	if c.config.localStdin != nil {
		cmd.Stdin = c.config.localStdin
	}

	var passOut, passErr io.Writer
	if c.config.effectivePassthrough() {
		passOut, passErr = c.stdout, c.stderr
	}
	stdout := newCapture(passOut)
	stderr := newCapture(passErr)
	combined := &syncBuffer{}

	cmd.Stdout = io.MultiWriter(stdout, combined)
	cmd.Stderr = io.MultiWriter(stderr, combined)

	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Combined: combined.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return result, c.newError(args, result, err)
	}

	return result, nil
}

// Clone creates a copy of the executor with the same configuration.
func (c *Command) Clone() Executor {
	return &Command{
		config:  c.config.clone(),
		baseCtx: c.baseCtx,
		ctx:     c.ctx,
		stdout:  c.stdout,
		stderr:  c.stderr,
		redact:  c.redact,
	}
}

func (c *Command) reset() {
	c.config.resetLocal()
	c.ctx = nil
}

func (c *Command) newError(args []string, result *Result, err error) *ExecError {
	execErr := &ExecError{
		Command:  c.redactAll(args),
		ExitCode: -1,
		Err:      err,
	}
	if result != nil {
		execErr.ExitCode = result.ExitCode
		execErr.Stdout = c.redactOne(result.Stdout)
		execErr.Stderr = c.redactOne(result.Stderr)
	}
	return execErr
}

func (c *Command) redactOne(s string) string {
	if c.redact == nil {
		return s
	}
	return c.redact(s)
}

func (c *Command) redactAll(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = c.redactOne(a)
	}
	return out
}
