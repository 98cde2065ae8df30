package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

var (
	counterWiring  = filepath.Join("testdata", "wiring", "counter.txt")
	outputWiring   = filepath.Join("testdata", "wiring", "output.txt")
	countersWiring = filepath.Join("testdata", "wiring", "counters_3_5.txt")
	badWiring      = filepath.Join("testdata", "wiring", "malformed.txt")
	countersConfig = filepath.Join("testdata", "config", "counters.cue")
	scenariosDir   = filepath.Join("..", "harness", "testdata", "scenarios")
)

// jsonResponse mirrors CLIResponse with the payload left raw.
type jsonResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
	RunID  string          `json:"run_id"`
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeResponse parses a JSON response and decodes its data into data.
func decodeResponse(t *testing.T, out string, data any) jsonResponse {
	t.Helper()

	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	if data != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}
