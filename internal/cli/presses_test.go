package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/store"
)

func TestPressesText(t *testing.T) {
	out, err := execute(t, NewPressesCommand(&RootOptions{Format: "text"}), countersWiring)
	require.NoError(t, err)

	assert.Contains(t, out, "feeder:  join\n")
	assert.Contains(t, out, "  ia: first high at press 3\n")
	assert.Contains(t, out, "  ib: first high at press 5\n")
	assert.Contains(t, out, "presses: 15\n")
}

func TestPressesJSON(t *testing.T) {
	out, err := execute(t, NewPressesCommand(&RootOptions{Format: "json"}), countersWiring)
	require.NoError(t, err)

	var result PressesResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "rx", result.Target)
	assert.Equal(t, "lcm", result.Method)
	assert.Equal(t, "join", result.Feeder)
	assert.Equal(t, []string{"ia", "ib"}, result.Witnesses)
	assert.Equal(t, map[string]int{"ia": 3, "ib": 5}, result.Periods)
	assert.Equal(t, 5, result.Simulated)
	assert.Equal(t, int64(15), result.Presses)
}

func TestPressesBruteForceAgrees(t *testing.T) {
	out, err := execute(t, NewPressesCommand(&RootOptions{Format: "json"}), countersWiring, "--brute-force")
	require.NoError(t, err)

	var result PressesResult
	decodeResponse(t, out, &result)
	assert.Equal(t, "brute_force", result.Method)
	assert.Equal(t, int64(15), result.Presses)
	assert.Equal(t, 15, result.Simulated)
	assert.Empty(t, result.Feeder)
}

func TestPressesExplicitWitnesses(t *testing.T) {
	out, err := execute(t, NewPressesCommand(&RootOptions{Format: "json"}), countersWiring, "--witness", "ib")
	require.NoError(t, err)

	var result PressesResult
	decodeResponse(t, out, &result)
	assert.Equal(t, []string{"ib"}, result.Witnesses)
	assert.Empty(t, result.Feeder)
	assert.Equal(t, int64(5), result.Presses)
}

func TestPressesOutputTarget(t *testing.T) {
	out, err := execute(t, NewPressesCommand(&RootOptions{Format: "json"}), outputWiring, "--target", "output")
	require.NoError(t, err)

	var result PressesResult
	decodeResponse(t, out, &result)
	assert.Equal(t, "con", result.Feeder)
	assert.Equal(t, []string{"a", "b"}, result.Witnesses)
	assert.Equal(t, int64(1), result.Presses)
}

func TestPressesErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"no_predecessor", []string{counterWiring}, "NO_PREDECESSOR"},
		{"unknown_witness", []string{countersWiring, "--witness", "nope"}, string(engine.ErrCodeUnknownWitness)},
		{"press_limit", []string{countersWiring, "--max-presses", "4"}, string(engine.ErrCodePressLimit)},
		{"brute_force_limit", []string{countersWiring, "--brute-force", "--max-presses", "10"}, string(engine.ErrCodePressLimit)},
		{"malformed", []string{badWiring}, "MALFORMED_WIRING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewPressesCommand(&RootOptions{Format: "json"}), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decodeResponse(t, out, nil)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestPressesPressLimitDetails(t *testing.T) {
	out, err := execute(t, NewPressesCommand(&RootOptions{Format: "json"}), countersWiring, "--max-presses", "4")
	require.Error(t, err)

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	details, ok := resp.Error.Details.(map[string]interface{})
	require.True(t, ok, "details: %#v", resp.Error.Details)
	assert.Equal(t, "4", details["max_presses"])
	assert.Equal(t, "[ib]", details["pending"])
}

func TestPressesConfig(t *testing.T) {
	out, err := execute(t, NewPressesCommand(&RootOptions{Format: "json", Config: countersConfig}))
	require.NoError(t, err)

	var result PressesResult
	decodeResponse(t, out, &result)
	assert.Equal(t, int64(15), result.Presses)
}

func TestPressesRecordsRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, NewPressesCommand(&RootOptions{Format: "json"}), countersWiring, "--db", dbPath)
	require.NoError(t, err)
	resp := decodeResponse(t, out, nil)
	require.NotEmpty(t, resp.RunID)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.ReadRun(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, store.QueryMinPresses, run.Query)
	assert.Equal(t, "rx", run.Target)
	assert.Equal(t, 5, run.Presses)
	assert.Equal(t, int64(15), run.Result)
	assert.Equal(t, "join", run.Details["feeder"])
	assert.Equal(t, map[string]any{"ia": int64(3), "ib": int64(5)}, run.Details["periods"])
}

func TestPressesRecordsBruteForceRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, NewPressesCommand(&RootOptions{Format: "json"}), countersWiring, "--brute-force", "--db", dbPath)
	require.NoError(t, err)
	resp := decodeResponse(t, out, nil)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.ReadRun(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, store.QueryFirstLowPress, run.Query)
	assert.Equal(t, int64(15), run.Result)
}

func TestMinPressesDetails(t *testing.T) {
	details := minPressesDetails(engine.Result{
		Witnesses: []string{"ia", "ib"},
		Periods:   map[string]int{"ia": 3, "ib": 5},
	})

	assert.NotContains(t, details, "feeder")
	assert.Equal(t, []string{"ia", "ib"}, details["witnesses"])
	assert.Equal(t, map[string]any{"ia": 3, "ib": 5}, details["periods"])
}
