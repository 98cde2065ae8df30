package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/ir"
	"github.com/roach88/pulsenet/internal/network"
)

const counterWiring = `broadcaster -> a, b, c
%a -> b
%b -> c
%c -> inv
&inv -> a
`

const outputWiring = `broadcaster -> a
%a -> inv, con
&inv -> b
%b -> con
&con -> output
`

func mustNetwork(t *testing.T, wiring string) *network.Network {
	t.Helper()
	n, err := network.Parse(wiring)
	require.NoError(t, err)
	return n
}

func render(pulses []ir.Pulse) []string {
	out := make([]string, len(pulses))
	for i, p := range pulses {
		out[i] = p.String()
	}
	return out
}
