package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDecls() []Declaration {
	return []Declaration{
		{Name: "broadcaster", Kind: KindBroadcaster, Destinations: []string{"a"}, Line: 1},
		{Name: "a", Kind: KindFlipFlop, Destinations: []string{"inv", "con"}, Line: 2},
	}
}

func TestWiringHashStable(t *testing.T) {
	h1, err := WiringHash(sampleDecls())
	require.NoError(t, err)
	h2, err := WiringHash(sampleDecls())
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestWiringHashIgnoresLineNumbers(t *testing.T) {
	moved := sampleDecls()
	moved[0].Line = 10
	moved[1].Line = 12

	assert.Equal(t, MustWiringHash(sampleDecls()), MustWiringHash(moved))
}

func TestWiringHashSensitiveToDestinationOrder(t *testing.T) {
	swapped := sampleDecls()
	swapped[1].Destinations = []string{"con", "inv"}

	assert.NotEqual(t, MustWiringHash(sampleDecls()), MustWiringHash(swapped))
}

func TestTraceHashDomainSeparation(t *testing.T) {
	pulses := []Pulse{{Seq: 1, Press: 1, Source: ButtonName, Dest: DefaultEntry, Level: Low}}

	trace, err := TraceHash(pulses)
	require.NoError(t, err)
	empty, err := TraceHash(nil)
	require.NoError(t, err)

	assert.NotEqual(t, trace, empty)
	assert.NotEqual(t, hashWithDomain(DomainTrace, []byte("[]")), hashWithDomain(DomainWiring, []byte("[]")))
	assert.Equal(t, hashWithDomain(DomainTrace, []byte("[]")), empty)
}

func TestTraceHashDetectsLevelChange(t *testing.T) {
	a := []Pulse{{Seq: 1, Press: 1, Source: "x", Dest: "y", Level: Low}}
	b := []Pulse{{Seq: 1, Press: 1, Source: "x", Dest: "y", Level: High}}

	ha, err := TraceHash(a)
	require.NoError(t, err)
	hb, err := TraceHash(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}
