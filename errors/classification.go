package errors

// ErrorClassification indicates whether an operation may succeed if repeated.
type ErrorClassification string

const (
	// ClassificationRetryable marks transient failures: network, timeouts, lock contention.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent marks failures that repeat until something changes.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeNetwork:     ClassificationRetryable,
	CodeTimeout:     ClassificationRetryable,
	CodeUnavailable: ClassificationRetryable,

	CodeNotFound:           ClassificationPermanent,
	CodeAlreadyExists:      ClassificationPermanent,
	CodeConflict:           ClassificationPermanent,
	CodeUnauthorized:       ClassificationPermanent,
	CodeInvalidInput:       ClassificationPermanent,
	CodeInvalidConfig:      ClassificationPermanent,
	CodeParseFailed:        ClassificationPermanent,
	CodeExecutionFailed:    ClassificationPermanent,
	CodeVersionUnsupported: ClassificationPermanent,
	CodeInternal:           ClassificationPermanent,
	CodeUnknown:            ClassificationPermanent,
}

// getDefaultClassification returns the default classification for an error code.
// Unlisted codes are permanent.
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
