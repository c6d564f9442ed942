package exec

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapper_Run(t *testing.T) {
	echo := NewWrapper(New(), "echo")
	assert.Equal(t, "echo", echo.Program())

	result, err := echo.Run("hello", "world")
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "hello world")
	assert.Equal(t, 0, result.ExitCode)
}

func TestWrapper_Chaining(t *testing.T) {
	dir := t.TempDir()
	sh := NewWrapper(New(), "sh")

	result, err := sh.
		WithEnv(map[string]string{"VAR1": "value1"}).
		WithEnv(map[string]string{"VAR2": "value2"}).
		WithDir(dir).
		Run("-c", "echo $VAR1 $VAR2 && pwd")
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "value1 value2")
	assert.Contains(t, result.Stdout, dir)
}

func TestWrapper_Stdin(t *testing.T) {
	cat := NewWrapper(New(), "cat")

	result, err := cat.WithStdin(strings.NewReader("protocol=https\nhost=example.com\n")).Run()
	require.NoError(t, err)
	assert.Equal(t, "protocol=https\nhost=example.com\n", result.Stdout)
}

func TestWrapper_Clone(t *testing.T) {
	sh := NewWrapper(New(WithEnv(map[string]string{"GLOBAL_VAR": "global"})), "sh")
	clone := sh.Clone()

	result, err := clone.WithEnv(map[string]string{"LOCAL_VAR": "local"}).Run("-c", "echo $GLOBAL_VAR $LOCAL_VAR")
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "global local")

	result, err = sh.Run("-c", "echo $GLOBAL_VAR $LOCAL_VAR")
	require.NoError(t, err)
	assert.NotContains(t, result.Stdout, "local")
}

func TestWrapper_Failure(t *testing.T) {
	result, err := NewWrapper(New(), "false").Run()
	require.Error(t, err)
	require.NotNil(t, result)

	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.NotZero(t, execErr.ExitCode)
	assert.Equal(t, []string{"false"}, execErr.Command)
}

func TestWrapper_Timeout(t *testing.T) {
	_, err := NewWrapper(New(), "sleep").WithTimeout(100 * time.Millisecond).Run("5")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
