package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/categorist/chasekit/internal/ir"
)

func TestRunParallel(t *testing.T) {
	out, err := executeCommand(t, "run", "testdata/arrow.cue", "--seed", "A=a")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Chase (parallel): 2 element(s), 1 tuple(s)")
	assert.Contains(t, out, "Model hash: ")
}

func TestRunFree(t *testing.T) {
	out, err := executeCommand(t, "run", "testdata/arrow.cue", "--seed", "A=a", "--strategy", "free")
	require.NoError(t, err)

	assert.Contains(t, out, "Freedom: free")
}

func TestRunJSON(t *testing.T) {
	out, err := executeCommand(t, "run", "testdata/arrow.cue", "--seed", "A=a,b", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "parallel", data["strategy"])
	assert.Equal(t, float64(4), data["elements"])
	assert.Equal(t, float64(2), data["tuples"])
	assert.NotEmpty(t, data["hash"])
}

func TestRunStrategies(t *testing.T) {
	for _, strategy := range ValidStrategies {
		t.Run(strategy, func(t *testing.T) {
			out, err := executeCommand(t, "run", "testdata/arrow.cue", "--seed", "A=a", "--strategy", strategy)
			require.NoError(t, err)
			assert.Contains(t, out, "2 element(s), 1 tuple(s)")
		})
	}
}

func TestRunOutputModel(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "model.json")

	_, err := executeCommand(t, "run", "testdata/arrow.cue", "--seed", "A=a", "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	inst, err := ir.UnmarshalInstance(data)
	require.NoError(t, err)
	assert.Equal(t, 2, inst.ElementCount())
	assert.Equal(t, 1, inst.TupleCount())
}

func TestRunBadSeedEntry(t *testing.T) {
	_, err := executeCommand(t, "run", "testdata/arrow.cue", "--seed", "A:a")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunUnknownSeedSort(t *testing.T) {
	out, err := executeCommand(t, "run", "testdata/arrow.cue", "--seed", "Z=a")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E003")
}

func TestRunUnknownStrategy(t *testing.T) {
	_, err := executeCommand(t, "run", "testdata/arrow.cue", "--seed", "A=a", "--strategy", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}
