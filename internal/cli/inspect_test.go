package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectOutputWiring(t *testing.T) {
	out, err := execute(t, NewInspectCommand(&RootOptions{Format: "json"}), outputWiring, "--target", "output")
	require.NoError(t, err)

	var result InspectResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)

	require.Len(t, result.Modules, 5)
	assert.Equal(t, ModuleInfo{Name: "broadcaster", Kind: "broadcaster", Destinations: []string{"a"}}, result.Modules[0])
	assert.Equal(t, ModuleInfo{Name: "inv", Kind: "conjunction", Destinations: []string{"b"}, Inputs: []string{"a"}}, result.Modules[2])
	assert.Equal(t, ModuleInfo{Name: "con", Kind: "conjunction", Destinations: []string{"output"}, Inputs: []string{"a", "b"}}, result.Modules[4])

	assert.Equal(t, []string{"output"}, result.Sinks)
	assert.Equal(t, "output", result.Target)
	assert.Equal(t, "con", result.Feeder)
	assert.Empty(t, result.FeederError)
	assert.Empty(t, result.Loops)
}

func TestInspectReportsLoops(t *testing.T) {
	out, err := execute(t, NewInspectCommand(&RootOptions{Format: "json"}), counterWiring)
	require.NoError(t, err)

	var result InspectResult
	decodeResponse(t, out, &result)
	require.Len(t, result.Loops, 1)
	assert.Equal(t, []string{"a", "b", "c", "inv"}, result.Loops[0].Modules)
	assert.Empty(t, result.Sinks)

	// counter wiring has no rx
	assert.Empty(t, result.Feeder)
	assert.Contains(t, result.FeederError, "NO_PREDECESSOR")
}

func TestInspectText(t *testing.T) {
	out, err := execute(t, NewInspectCommand(&RootOptions{Format: "text"}), countersWiring)
	require.NoError(t, err)

	assert.Contains(t, out, "(11 modules)")
	assert.Contains(t, out, "<- ia, ib")
	assert.Contains(t, out, "sinks: rx\n")
	assert.Contains(t, out, "feeder of rx: join\n")
	assert.Contains(t, out, "loops: 2\n")
}

func TestInspectMalformed(t *testing.T) {
	_, err := execute(t, NewInspectCommand(&RootOptions{Format: "text"}), badWiring)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
