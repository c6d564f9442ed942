package errors

// ErrorCode represents a specific error condition.
// Codes are strings so they read well in logs and JSON.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a branch, remote, config key or repository does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a branch, tag, remote or checkout already exists.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeConflict indicates the repository state prevents the operation
	// (unmerged branch deletion, rebase conflict, rejected non-fast-forward push).
	CodeConflict ErrorCode = "CONFLICT"

	// Access errors.

	// CodeUnauthorized indicates the remote rejected or requested credentials.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation errors.

	// CodeInvalidInput indicates an argument was rejected before any command ran.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates the session configuration is unusable,
	// for example a remote URL with an unrecognized protocol.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeParseFailed indicates output from the wrapped tool could not be parsed.
	CodeParseFailed ErrorCode = "PARSE_FAILED"

	// Infrastructure errors.

	// CodeNetwork indicates the remote could not be reached.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates a command exceeded its deadline.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeUnavailable indicates a shared resource (such as the credential lock) is busy.
	CodeUnavailable ErrorCode = "UNAVAILABLE"

	// Execution errors.

	// CodeExecutionFailed indicates a command exited non-zero for an unclassified reason.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// CodeVersionUnsupported indicates the installed tool is older than the supported minimum.
	CodeVersionUnsupported ErrorCode = "VERSION_UNSUPPORTED"

	// System errors.

	// CodeInternal indicates a bug or an unexpected local failure.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unclassified error.
	CodeUnknown ErrorCode = "UNKNOWN"
)
