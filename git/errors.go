package git

import (
	"context"
	"errors"
	"slices"
	"strings"

	platformerrors "github.com/jmgilman/gitsession/errors"
	"github.com/jmgilman/gitsession/exec"
)

// Exit codes git uses for specific conditions.
const (
	// exitConfigKeyMissing is returned by `git config --get` for a missing key.
	exitConfigKeyMissing = 1
	// exitRemoteExists is returned by `git remote add` for a duplicate name.
	exitRemoteExists = 3
	// exitConfigNothingToUnset is returned by `git config --unset-all` when
	// the key is absent.
	exitConfigNothingToUnset = 5
)

// stderrPatterns is the substring fallback for failures git only reports as
// free text. The messages are not a stable interface and may change between
// git releases; exit codes are checked first wherever git provides one.
var stderrPatterns = []struct {
	substr string
	code   platformerrors.ErrorCode
}{
	{"already exists", platformerrors.CodeAlreadyExists},
	{"not fully merged", platformerrors.CodeConflict},
	{"CONFLICT", platformerrors.CodeConflict},
	{"non-fast-forward", platformerrors.CodeConflict},
	{"[rejected]", platformerrors.CodeConflict},
	{"Authentication failed", platformerrors.CodeUnauthorized},
	{"could not read Username", platformerrors.CodeUnauthorized},
	{"Permission denied", platformerrors.CodeUnauthorized},
	{"Could not resolve host", platformerrors.CodeNetwork},
	{"Connection refused", platformerrors.CodeNetwork},
	{"Connection timed out", platformerrors.CodeNetwork},
	{"not a git repository", platformerrors.CodeNotFound},
	{"does not exist", platformerrors.CodeNotFound},
	{"not found", platformerrors.CodeNotFound},
	{"did not match any", platformerrors.CodeNotFound},
	{"remote ref does not exist", platformerrors.CodeNotFound},
}

// classifyExecError converts a failed git invocation into a PlatformError.
// The returned error carries the redacted command line and exit code as
// context and wraps the original error.
func classifyExecError(err error, args []string) error {
	if err == nil {
		return nil
	}

	ctx := map[string]interface{}{
		"command": RedactURL(strings.Join(append([]string{"git"}, args...), " ")),
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return platformerrors.WrapWithContext(err, platformerrors.CodeTimeout, "git command timed out", ctx)
	}
	if errors.Is(err, context.Canceled) {
		return platformerrors.WrapWithContext(err, platformerrors.CodeTimeout, "git command canceled", ctx)
	}

	var execErr *exec.ExecError
	if !errors.As(err, &execErr) {
		return platformerrors.WrapWithContext(err, platformerrors.CodeExecutionFailed, "failed to run git", ctx)
	}

	ctx["exit_code"] = execErr.ExitCode
	if stderr := strings.TrimSpace(execErr.Stderr); stderr != "" {
		ctx["stderr"] = RedactURL(stderr)
	}

	code := classifyExitCode(args, execErr.ExitCode)
	if code == platformerrors.CodeExecutionFailed {
		code = classifyStderr(execErr.Stderr)
	}

	return platformerrors.WrapWithContext(err, code, commandMessage(args), ctx)
}

// classifyExitCode recognizes the few exit codes git documents per command.
func classifyExitCode(args []string, exitCode int) platformerrors.ErrorCode {
	switch {
	case exitCode == -1:
		return platformerrors.CodeUnavailable
	case hasPrefix(args, "remote", "add") && exitCode == exitRemoteExists:
		return platformerrors.CodeAlreadyExists
	case isConfigGet(args) && exitCode == exitConfigKeyMissing:
		return platformerrors.CodeNotFound
	case isConfigUnset(args) && exitCode == exitConfigNothingToUnset:
		return platformerrors.CodeNotFound
	}
	return platformerrors.CodeExecutionFailed
}

func classifyStderr(stderr string) platformerrors.ErrorCode {
	for _, p := range stderrPatterns {
		if strings.Contains(stderr, p.substr) {
			return p.code
		}
	}
	return platformerrors.CodeExecutionFailed
}

func commandMessage(args []string) string {
	if len(args) == 0 {
		return "git failed"
	}
	return "git " + args[0] + " failed"
}

func hasPrefix(args []string, prefix ...string) bool {
	if len(args) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if args[i] != p {
			return false
		}
	}
	return true
}

func isConfigGet(args []string) bool {
	return len(args) > 0 && args[0] == "config" && slices.Contains(args, "--get")
}

func isConfigUnset(args []string) bool {
	return len(args) > 0 && args[0] == "config" && slices.Contains(args, "--unset-all")
}
