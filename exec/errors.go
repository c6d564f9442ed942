package exec

import (
	"fmt"

	"github.com/kballard/go-shellquote"
)

// ExecError represents an error that occurred during command execution.
type ExecError struct {
	// Command is the full command line, redacted if a Redactor is installed.
	Command []string

	// ExitCode is the process exit code, or -1 if it never ran or was killed.
	ExitCode int

	// Stdout is the captured standard output
	Stdout string

	// Stderr is the captured standard error
	Stderr string

	// Err is the underlying error from the execution
	Err error
}

// CommandLine renders Command as a shell-quoted string.
func (e *ExecError) CommandLine() string {
	return shellquote.Join(e.Command...)
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %q failed with exit code %d: %v", e.CommandLine(), e.ExitCode, e.Err)
	}
	return fmt.Sprintf("command %q failed with exit code %d", e.CommandLine(), e.ExitCode)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}
