package deliver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passpick/passpick/internal/deliver"
	"github.com/passpick/passpick/internal/logging"
	"github.com/passpick/passpick/internal/selection"
	"github.com/passpick/passpick/tests/testutil"
)

func testLogger() *logging.Logger {
	return logging.New(false, true)
}

func TestDeliver_CopyVerbatim(t *testing.T) {
	t.Parallel()

	var copied string
	d := deliver.New(testLogger(), deliver.WithCopyFunc(func(s string) error {
		copied = s
		return nil
	}))

	payload := selection.Payload{Text: "line1\nline2", Kind: selection.KindMultilineField}
	err := d.Deliver(context.Background(), payload, deliver.ModeCopy)

	require.NoError(t, err)
	// Multiline payloads keep their newlines; no line-by-line splitting.
	assert.Equal(t, "line1\nline2", copied)
}

func TestDeliver_CopyBackendFailure(t *testing.T) {
	t.Parallel()

	d := deliver.New(testLogger(), deliver.WithCopyFunc(func(string) error {
		return errors.New("No clipboard utilities available")
	}))

	err := d.Deliver(context.Background(), selection.Payload{Text: "x"}, deliver.ModeCopy)

	require.Error(t, err)
	assert.ErrorIs(t, err, deliver.ErrBackendUnavailable)
	assert.Contains(t, err.Error(), "wl-clipboard")
}

func TestDeliver_TypePipesPayload(t *testing.T) {
	t.Parallel()

	mockExec := testutil.NewMockCommandExecutor()
	d := deliver.New(testLogger(),
		deliver.WithExecutor(mockExec),
		deliver.WithLookPath(func(name string) bool { return name == "wtype" }))

	payload := selection.Payload{Text: "hunter2\nsecond", Kind: selection.KindMultilineField}
	err := d.Deliver(context.Background(), payload, deliver.ModeType)

	require.NoError(t, err)
	calls := mockExec.GetCalls("wtype")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"-"}, calls[0].Args)
	// Embedded newlines reach the typing tool untouched.
	assert.Equal(t, "hunter2\nsecond", calls[0].Input)
}

func TestDeliver_TypeFallsBackToXdotool(t *testing.T) {
	t.Parallel()

	mockExec := testutil.NewMockCommandExecutor()
	d := deliver.New(testLogger(),
		deliver.WithExecutor(mockExec),
		deliver.WithLookPath(func(name string) bool { return name == "xdotool" }))

	err := d.Deliver(context.Background(), selection.Payload{Text: "pw"}, deliver.ModeType)

	require.NoError(t, err)
	calls := mockExec.GetCalls("xdotool")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"type", "--clearmodifiers", "--file", "-"}, calls[0].Args)
}

func TestDeliver_TypeNoBackend(t *testing.T) {
	t.Parallel()

	mockExec := testutil.NewMockCommandExecutor()
	d := deliver.New(testLogger(),
		deliver.WithExecutor(mockExec),
		deliver.WithLookPath(func(string) bool { return false }))

	err := d.Deliver(context.Background(), selection.Payload{Text: "pw"}, deliver.ModeType)

	// Never silently downgraded to copy.
	require.Error(t, err)
	assert.ErrorIs(t, err, deliver.ErrBackendUnavailable)
	assert.Contains(t, err.Error(), "wtype")
	assert.Equal(t, 0, mockExec.CallCount())
}

func TestDeliver_ConfiguredTypeToolMissing(t *testing.T) {
	t.Parallel()

	d := deliver.New(testLogger(),
		deliver.WithTypeTool([]string{"ydotool", "type"}),
		deliver.WithLookPath(func(string) bool { return false }))

	err := d.Deliver(context.Background(), selection.Payload{Text: "pw"}, deliver.ModeType)

	require.Error(t, err)
	assert.ErrorIs(t, err, deliver.ErrBackendUnavailable)
	assert.Contains(t, err.Error(), "ydotool")
}

func TestDeliver_TypeToolFailure(t *testing.T) {
	t.Parallel()

	mockExec := testutil.NewMockCommandExecutor()
	mockExec.AddErrorResponse("wtype -", "compositor does not support virtual keyboard", 1)

	d := deliver.New(testLogger(),
		deliver.WithExecutor(mockExec),
		deliver.WithTypeTool([]string{"wtype", "-"}),
		deliver.WithLookPath(func(string) bool { return true }))

	err := d.Deliver(context.Background(), selection.Payload{Text: "pw"}, deliver.ModeType)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "virtual keyboard")
}

func TestModeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "copy", deliver.ModeCopy.String())
	assert.Equal(t, "type", deliver.ModeType.String())
}
