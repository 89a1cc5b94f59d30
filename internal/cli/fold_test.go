package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// savedModelWithDuplicates chases the arrow presentation with satisfied
// triggers refiring for two bounded rounds, so the saved model carries two
// witnesses over the same generator.
func savedModelWithDuplicates(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	_, err := executeCommand(t, "run", "testdata/arrow.cue",
		"--seed", "A=a", "--fire-satisfied", "--max-steps", "2", "-o", path)
	require.NoError(t, err)
	return path
}

func TestFoldMergesDuplicates(t *testing.T) {
	path := savedModelWithDuplicates(t)

	out, err := executeCommand(t, "fold", path)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Folded: 3 -> 2 element(s), 1 merged")
}

func TestFoldProtectedSort(t *testing.T) {
	path := savedModelWithDuplicates(t)

	out, err := executeCommand(t, "fold", path, "--protect", "B")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Folded: 3 -> 3 element(s), 0 merged")
}

func TestFoldJSON(t *testing.T) {
	path := savedModelWithDuplicates(t)

	out, err := executeCommand(t, "fold", path, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["before"])
	assert.Equal(t, float64(2), data["after"])
	assert.Equal(t, float64(1), data["merged"])
}

func TestFoldRoundTrip(t *testing.T) {
	path := savedModelWithDuplicates(t)
	outPath := filepath.Join(t.TempDir(), "folded.json")

	_, err := executeCommand(t, "fold", path, "-o", outPath)
	require.NoError(t, err)

	// Folding the folded model again changes nothing.
	out, err := executeCommand(t, "fold", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Folded: 2 -> 2 element(s), 0 merged")
}

func TestFoldMissingFile(t *testing.T) {
	_, err := executeCommand(t, "fold", "testdata/nope.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
