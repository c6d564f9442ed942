// Package errors provides the structured error type returned by every gitsession package.
//
// Each error carries an ErrorCode naming what went wrong, a classification
// (retryable or permanent), optional context metadata and the wrapped cause.
// Errors stay compatible with the standard library (errors.Is, errors.As,
// errors.Unwrap), so a caller can still reach an *exec.ExecError underneath a
// classified git failure.
//
// # Creating and wrapping
//
//	err := errors.New(errors.CodeInvalidInput, "branch name is required")
//
//	if _, err := runner.Run("fetch"); err != nil {
//	    return errors.Wrap(err, errors.CodeNetwork, "failed to fetch")
//	}
//
// # Context
//
// Context is attached per layer. The git package uses it to record the
// (credential-redacted) command line and the exit code of the failing process:
//
//	err = errors.WithContextMap(err, map[string]interface{}{
//	    "command":   "git push -u origin main",
//	    "exit_code": 128,
//	})
//
// # Codes
//
//   - Resource: CodeNotFound, CodeAlreadyExists, CodeConflict
//   - Access: CodeUnauthorized
//   - Validation: CodeInvalidInput, CodeInvalidConfig, CodeParseFailed
//   - Infrastructure: CodeNetwork, CodeTimeout, CodeUnavailable
//   - Execution: CodeExecutionFailed, CodeVersionUnsupported
//   - System: CodeInternal, CodeUnknown
//
// Nothing in gitsession retries on its own. IsRetryable exists so that callers
// who do want to retry (a CI step re-running a push after a network blip) have
// a single predicate to ask.
package errors
