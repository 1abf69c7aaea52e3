package system

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveCommandRunnerRun(t *testing.T) {
	runner := &LiveCommandRunner{}

	out, err := runner.Run(context.Background(), "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestLiveCommandRunnerCapturesStderr(t *testing.T) {
	runner := &LiveCommandRunner{}

	out, err := runner.Run(context.Background(), "echo oops >&2; exit 3")
	assert.Error(t, err)
	assert.Contains(t, string(out), "oops")
}

func TestLiveCommandRunnerTimeout(t *testing.T) {
	runner := &LiveCommandRunner{}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := runner.Run(ctx, "sleep 5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestExecLookPath(t *testing.T) {
	// sh is a safe bet on any host these tests run on.
	path, err := ExecLookPath("sh")
	require.NoError(t, err)
	assert.NotEmpty(t, path)

	_, err = ExecLookPath("definitely-not-a-real-tool")
	assert.Error(t, err)
}
