package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/pulsenet/internal/ir"
)

// RenderTrace renders pulses one per line, with a "# press N" header before
// the first pulse of each press.
func RenderTrace(pulses []ir.Pulse) []byte {
	var buf bytes.Buffer
	press := 0
	for _, p := range pulses {
		if p.Press != press {
			press = p.Press
			fmt.Fprintf(&buf, "# press %d\n", press)
		}
		buf.WriteString(p.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// Returns error if scenario execution fails or the scenario records no trace.
// Test failure (via goldie) occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	if scenario.TracePresses == 0 {
		return nil, fmt.Errorf("scenario %s: trace_presses must be set for golden comparison", scenario.Name)
	}

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result's trace against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, RenderTrace(result.Trace))
}
