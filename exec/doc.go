// Package exec runs local commands behind a small, mockable interface.
//
// It wraps os/exec with the pieces a command-line facade needs: captured
// stdout/stderr, per-call working directory, environment, stdin, context and
// timeout, and a structured *ExecError carrying the exit code and output of a
// failed process. The package returns concrete types (Command, CommandWrapper)
// and accepts the Executor interface, so callers can substitute a fake in tests.
//
// # Basic Usage
//
//	cmd := exec.New()
//	result, err := cmd.Run("git", "--version")
//	if err != nil {
//		return err
//	}
//	fmt.Print(result.Stdout)
//
// # Global and local settings
//
// Options passed to New are global. With* methods are local to the next Run
// and are reset afterwards; local settings override global ones:
//
//	cmd := exec.New(exec.WithInheritEnv(), exec.WithTimeout(time.Minute))
//	result, err := cmd.
//		WithDir("/src/repo").
//		WithStdin(strings.NewReader("username=ci\n")).
//		Run("git", "credential", "approve")
//
// # Command Wrappers
//
// A CommandWrapper prepends a program name to every Run:
//
//	git := exec.NewWrapper(exec.New(), "git")
//	result, err := git.WithDir("/src/repo").Run("status", "--porcelain")
//
// # Errors
//
// A failing process returns both the partial *Result and an *ExecError:
//
//	var execErr *exec.ExecError
//	if errors.As(err, &execErr) {
//		fmt.Println(execErr.ExitCode, execErr.Stderr)
//	}
//
// Arguments can contain secrets (a remote URL with an embedded password).
// Install a redactor with WithRedactor; it is applied to the command line and
// captured output stored in ExecError so secrets do not leak into error
// messages or logs.
//
// # Testing
//
// Code that runs commands should accept an Executor. The mocks package holds a
// generated ExecutorMock.
package exec
