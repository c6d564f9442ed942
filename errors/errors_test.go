package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidInput, "branch name is required")

	require.Error(t, err)
	assert.Equal(t, CodeInvalidInput, err.Code())
	assert.Equal(t, ClassificationPermanent, err.Classification())
	assert.Equal(t, "branch name is required", err.Message())
	assert.Nil(t, err.Context())
	assert.Nil(t, err.Unwrap())
	assert.Equal(t, "[INVALID_INPUT] branch name is required", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(CodeVersionUnsupported, "git %s is older than %s", "2.10.0", "2.16.0")
	assert.Equal(t, "git 2.10.0 is older than 2.16.0", err.Message())
}

func TestDefaultClassification(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{CodeNetwork, true},
		{CodeTimeout, true},
		{CodeUnavailable, true},
		{CodeNotFound, false},
		{CodeAlreadyExists, false},
		{CodeConflict, false},
		{CodeUnauthorized, false},
		{CodeExecutionFailed, false},
		{CodeVersionUnsupported, false},
		{ErrorCode("SOMETHING_NEW"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retryable, New(tt.code, "x").Classification().IsRetryable())
		})
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("exit status 128")
	err := Wrap(cause, CodeNetwork, "failed to fetch")

	require.Error(t, err)
	assert.Equal(t, CodeNetwork, err.Code())
	assert.True(t, IsRetryable(err))
	assert.Equal(t, "[NETWORK_ERROR] failed to fetch: exit status 128", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "nothing"))
	assert.Nil(t, Wrapf(nil, CodeInternal, "nothing %d", 1))
	assert.Nil(t, WrapWithContext(nil, CodeInternal, "nothing", nil))
}

func TestWrap_PreservesClassification(t *testing.T) {
	inner := WithClassification(New(CodeExecutionFailed, "push rejected"), ClassificationRetryable)
	outer := Wrap(inner, CodeConflict, "failed to push")

	assert.Equal(t, CodeConflict, outer.Code())
	assert.True(t, outer.Classification().IsRetryable())
}

func TestWrapWithContext_CopiesMap(t *testing.T) {
	ctx := map[string]interface{}{"command": "git fetch"}
	err := WrapWithContext(stderrors.New("boom"), CodeExecutionFailed, "failed", ctx)

	ctx["command"] = "mutated"
	assert.Equal(t, "git fetch", err.Context()["command"])

	got := err.Context()
	got["command"] = "mutated again"
	assert.Equal(t, "git fetch", err.Context()["command"])
}

func TestWithContext(t *testing.T) {
	err := New(CodeNotFound, "branch not found")
	err = WithContext(err, "branch", "feature")
	err = WithContextMap(err, map[string]interface{}{"remote": "origin", "branch": "main"})

	assert.Equal(t, CodeNotFound, err.Code())
	assert.Equal(t, map[string]interface{}{"branch": "main", "remote": "origin"}, err.Context())
}

func TestWithContext_StandardError(t *testing.T) {
	cause := fmt.Errorf("plain")
	err := WithContext(cause, "k", "v")

	assert.Equal(t, CodeUnknown, err.Code())
	assert.Equal(t, "plain", err.Message())
	assert.True(t, stderrors.Is(err, cause))
	assert.Nil(t, WithContext(nil, "k", "v"))
	assert.Nil(t, WithClassification(nil, ClassificationRetryable))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, CodeUnknown},
		{"plain", stderrors.New("x"), CodeUnknown},
		{"platform", New(CodeConflict, "x"), CodeConflict},
		{"fmt wrapped", fmt.Errorf("ctx: %w", New(CodeTimeout, "x")), CodeTimeout},
		{"outermost wins", Wrap(New(CodeNotFound, "x"), CodeExecutionFailed, "y"), CodeExecutionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCode(tt.err))
		})
	}
}

func TestHasCode(t *testing.T) {
	err := Wrap(New(CodeAlreadyExists, "remote origin already exists"), CodeExecutionFailed, "failed to add remote")

	assert.True(t, HasCode(err, CodeAlreadyExists))
	assert.True(t, HasCode(err, CodeExecutionFailed))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(nil, CodeUnknown))
}

func TestIsAs(t *testing.T) {
	sentinel := New(CodeNotFound, "not found")
	wrapped := Wrap(sentinel, CodeExecutionFailed, "lookup failed")

	assert.True(t, Is(wrapped, sentinel))

	var platformErr PlatformError
	require.True(t, As(wrapped, &platformErr))
	assert.Equal(t, CodeExecutionFailed, platformErr.Code())
}

func TestToJSON(t *testing.T) {
	assert.Nil(t, ToJSON(nil))

	err := WithContext(New(CodeUnauthorized, "authentication failed"), "remote", "origin")
	resp := ToJSON(err)
	require.NotNil(t, resp)
	assert.Equal(t, "UNAUTHORIZED", resp.Code)
	assert.Equal(t, "authentication failed", resp.Message)
	assert.Equal(t, "PERMANENT", resp.Classification)
	assert.Equal(t, "origin", resp.Context["remote"])

	plain := ToJSON(stderrors.New("plain failure"))
	assert.Equal(t, "UNKNOWN", plain.Code)
	assert.Equal(t, "plain failure", plain.Message)
}

func TestMarshalJSON(t *testing.T) {
	err := New(CodeTimeout, "command timed out")

	data, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)
	assert.JSONEq(t, `{"code":"TIMEOUT","message":"command timed out","classification":"RETRYABLE"}`, string(data))
}
