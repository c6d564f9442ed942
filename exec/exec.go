package exec

import (
	"context"
	"io"
	"time"
)

//go:generate go run github.com/matryer/moq@latest -out mocks/executor.go -pkg mocks . Executor

// Executor is the main interface for executing commands.
// It provides a fluent API for configuring and running commands.
type Executor interface {
	// WithEnv sets environment variables for the next Run.
	WithEnv(env map[string]string) Executor

	// WithDir sets the working directory for the next Run.
	WithDir(dir string) Executor

	// WithContext sets the context for the next Run.
	// The process is killed if the context is canceled.
	WithContext(ctx context.Context) Executor

	// WithTimeout bounds the next Run. Zero means no timeout.
	WithTimeout(timeout time.Duration) Executor

	// WithInheritEnv inherits the parent process environment for the next Run.
	WithInheritEnv() Executor

	// WithStdin feeds r to the process's standard input for the next Run.
	WithStdin(r io.Reader) Executor

	// WithStdout sets the passthrough writer for stdout.
	WithStdout(w io.Writer) Executor

	// WithStderr sets the passthrough writer for stderr.
	WithStderr(w io.Writer) Executor

	// WithPassthrough streams output to the stdout/stderr writers while capturing it.
	WithPassthrough() Executor

	// Run executes args[0] with args[1:] and returns the captured output.
	Run(args ...string) (*Result, error)

	// Clone returns an independent copy with the same configuration.
	Clone() Executor
}

// Result represents the result of a command execution.
type Result struct {
	// Stdout is the captured standard output
	Stdout string

	// Stderr is the captured standard error
	Stderr string

	// Combined is stdout and stderr interleaved in write order
	Combined string

	// ExitCode is the exit code returned by the command
	ExitCode int
}

// Redactor rewrites a string before it is stored in an ExecError.
type Redactor func(string) string

// Option is a function that configures a Command with global settings.
type Option func(*Command)

// WithEnv returns an Option that sets global environment variables.
func WithEnv(env map[string]string) Option {
	return func(c *Command) {
		for k, v := range env {
			c.config.globalEnv[k] = v
		}
	}
}

// WithDir returns an Option that sets the global working directory.
func WithDir(dir string) Option {
	return func(c *Command) {
		c.config.globalDir = dir
	}
}

// WithContext returns an Option that sets the base context.
func WithContext(ctx context.Context) Option {
	return func(c *Command) {
		c.baseCtx = ctx
	}
}

// WithTimeout returns an Option that sets a global timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Command) {
		c.config.globalTimeout = timeout
	}
}

// WithInheritEnv returns an Option that globally enables environment inheritance.
func WithInheritEnv() Option {
	return func(c *Command) {
		c.config.globalInheritEnv = true
	}
}

// WithStdout returns an Option that sets the global stdout writer.
func WithStdout(w io.Writer) Option {
	return func(c *Command) {
		c.stdout = w
	}
}

// WithStderr returns an Option that sets the global stderr writer.
func WithStderr(w io.Writer) Option {
	return func(c *Command) {
		c.stderr = w
	}
}

// WithPassthrough returns an Option that globally enables output passthrough.
func WithPassthrough() Option {
	return func(c *Command) {
		c.config.globalPassthrough = true
	}
}

// WithRedactor returns an Option that installs r for ExecError contents.
func WithRedactor(r Redactor) Option {
	return func(c *Command) {
		c.redact = r
	}
}
