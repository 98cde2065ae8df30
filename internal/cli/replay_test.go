package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/ir"
	"github.com/roach88/pulsenet/internal/store"
)

func TestReplayDeterministic(t *testing.T) {
	out, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), outputWiring, "--presses", "50")
	require.NoError(t, err)

	assert.Contains(t, out, "(50 presses, ")
	assert.Contains(t, out, "✓ runs identical")
	assert.Contains(t, out, "Deterministic.")
}

func TestReplayJSON(t *testing.T) {
	out, err := execute(t, NewReplayCommand(&RootOptions{Format: "json"}), counterWiring, "--presses", "10")
	require.NoError(t, err)

	var result ReplayResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Deterministic)
	assert.True(t, result.Determinism.Identical)
	assert.Equal(t, 120, result.Determinism.Deliveries)
	assert.Equal(t, result.Determinism.FirstHash, result.Determinism.SecondHash)
	assert.Equal(t, int64(80), result.Determinism.Tally.Low)
	assert.Nil(t, result.Recorded)
}

func TestReplayAgainstRecordedRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, NewTallyCommand(&RootOptions{Format: "json"}),
		outputWiring, "--presses", "10", "--db", dbPath, "--record-trace", "3")
	require.NoError(t, err)
	runID := decodeResponse(t, out, nil).RunID
	require.NotEmpty(t, runID)

	out, err = execute(t, NewReplayCommand(&RootOptions{Format: "json"}),
		outputWiring, "--presses", "5", "--db", dbPath, "--run", runID)
	require.NoError(t, err)

	var result ReplayResult
	decodeResponse(t, out, &result)
	require.NotNil(t, result.Recorded)
	assert.True(t, result.Recorded.Matches)
	assert.Equal(t, 3, result.Recorded.Presses)
	assert.Equal(t, runID, result.Recorded.RunID)
	assert.True(t, result.Deterministic)
}

func TestReplayDetectsTamperedRecording(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, NewTraceCommand(&RootOptions{Format: "json"}), counterWiring, "--presses", "1", "--db", dbPath)
	require.NoError(t, err)
	var recorded TraceResult
	decodeResponse(t, out, &recorded)

	// Flip the level of the fourth delivery.
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	_, err = st.DB().Exec(`UPDATE pulses SET level = 'high' WHERE run_id = ? AND seq = 4`, recorded.RunID)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err = execute(t, NewReplayCommand(&RootOptions{Format: "text"}),
		counterWiring, "--presses", "1", "--db", dbPath, "--run", recorded.RunID)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "diverges at seq 4")
	assert.Contains(t, out, "Not deterministic.")
}

func TestReplayRejectsOtherWiring(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, NewTraceCommand(&RootOptions{Format: "json"}), counterWiring, "--db", dbPath)
	require.NoError(t, err)
	runID := decodeResponse(t, out, nil).RunID

	_, err = execute(t, NewReplayCommand(&RootOptions{Format: "text"}),
		outputWiring, "--presses", "1", "--db", dbPath, "--run", runID)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "was recorded for wiring")
}

func TestReplayRunWithoutPulses(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, NewTallyCommand(&RootOptions{Format: "json"}), counterWiring, "--presses", "1", "--db", dbPath)
	require.NoError(t, err)
	runID := decodeResponse(t, out, nil).RunID

	_, err = execute(t, NewReplayCommand(&RootOptions{Format: "text"}),
		counterWiring, "--presses", "1", "--db", dbPath, "--run", runID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no recorded pulses")
}

func TestReplayMissingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "typo.db")

	out, err := execute(t, NewReplayCommand(&RootOptions{Format: "json"}),
		outputWiring, "--presses", "1", "--db", dbPath, "--run", "abc")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNoDatabase, resp.Error.Code)
	assert.NoFileExists(t, dbPath)
}

func TestReplayMalformedWiring(t *testing.T) {
	_, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), badWiring)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDivergence(t *testing.T) {
	a := []ir.Pulse{
		{Seq: 1, Press: 1, Source: "button", Dest: "broadcaster", Level: ir.Low},
		{Seq: 2, Press: 1, Source: "broadcaster", Dest: "a", Level: ir.Low},
	}
	changed := append([]ir.Pulse(nil), a...)
	changed[1].Level = ir.High

	assert.Equal(t, int64(0), divergence(a, a))
	assert.Equal(t, int64(2), divergence(a, changed))
	assert.Equal(t, int64(2), divergence(a, a[:1]), "shorter trace diverges after its last pulse")
}

func TestReplayStoreIsolation(t *testing.T) {
	// Recording the same wiring twice yields two runs with identical pulses.
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	for i := 0; i < 2; i++ {
		_, err := execute(t, NewTraceCommand(&RootOptions{Format: "json"}), outputWiring, "--presses", "2", "--db", dbPath)
		require.NoError(t, err)
	}

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.NotEqual(t, runs[0].ID, runs[1].ID)

	first, err := st.ReadPulses(ctx, runs[0].ID, 0)
	require.NoError(t, err)
	second, err := st.ReadPulses(ctx, runs[1].ID, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
