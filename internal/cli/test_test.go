package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCommandPasses(t *testing.T) {
	out, err := executeCommand(t, "test", "testdata/scenarios")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ arrow_pass")
	assert.Contains(t, out, "✓ All scenarios passed")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommandFails(t *testing.T) {
	out, err := executeCommand(t, "test", "testdata/scenarios_fail")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "✗ arrow_fail")
	assert.Contains(t, out, "0 passed, 1 failed, 1 total")
}

func TestTestCommandJSON(t *testing.T) {
	out, err := executeCommand(t, "test", "testdata/scenarios", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestTestCommandFilterNoMatch(t *testing.T) {
	out, err := executeCommand(t, "test", "testdata/scenarios", "--filter", "zzz-*")
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandMissingDir(t *testing.T) {
	_, err := executeCommand(t, "test", "testdata/absent")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
