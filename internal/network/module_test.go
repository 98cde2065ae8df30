package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/ir"
)

func decl(prefix, name string, dests ...string) ir.Declaration {
	kind := ir.KindBroadcaster
	switch prefix {
	case "%":
		kind = ir.KindFlipFlop
	case "&":
		kind = ir.KindConjunction
	}
	return ir.Declaration{Name: name, Kind: kind, Destinations: dests}
}

func TestBroadcasterForwardsLevel(t *testing.T) {
	m := newModule(decl("", "broadcaster", "a", "b", "c"))

	for _, level := range []ir.Level{ir.Low, ir.High} {
		out := m.Receive(level, ir.ButtonName)
		assert.Equal(t, []Emission{
			{Level: level, Dest: "a"},
			{Level: level, Dest: "b"},
			{Level: level, Dest: "c"},
		}, out)
	}
}

func TestFlipFlopIgnoresHigh(t *testing.T) {
	m := newModule(decl("%", "a", "b"))

	assert.Empty(t, m.Receive(ir.High, "x"))
	assert.False(t, m.On(), "high pulse must not change state")
}

func TestFlipFlopTogglesOnLow(t *testing.T) {
	m := newModule(decl("%", "a", "b", "c"))

	out := m.Receive(ir.Low, "x")
	assert.True(t, m.On())
	assert.Equal(t, []Emission{{ir.High, "b"}, {ir.High, "c"}}, out)

	out = m.Receive(ir.Low, "x")
	assert.False(t, m.On())
	assert.Equal(t, []Emission{{ir.Low, "b"}, {ir.Low, "c"}}, out)
}

func TestConjunctionEmitsLowOnlyWhenAllHigh(t *testing.T) {
	m := newModule(decl("&", "con", "output"))
	m.addInput("a")
	m.addInput("b")

	out := m.Receive(ir.High, "a")
	assert.Equal(t, []Emission{{ir.High, "output"}}, out, "b still remembered low")

	out = m.Receive(ir.High, "b")
	assert.Equal(t, []Emission{{ir.Low, "output"}}, out)

	out = m.Receive(ir.Low, "a")
	assert.Equal(t, []Emission{{ir.High, "output"}}, out)
	assert.Equal(t, map[string]ir.Level{"a": ir.Low, "b": ir.High}, m.Memory())
}

func TestConjunctionRepeatedLevelKeepsCount(t *testing.T) {
	m := newModule(decl("&", "con", "output"))
	m.addInput("a")
	m.addInput("b")

	m.Receive(ir.High, "a")
	m.Receive(ir.High, "a")
	out := m.Receive(ir.High, "a")
	assert.Equal(t, []Emission{{ir.High, "output"}}, out, "one input high twice is not all high")
}

func TestSingleInputConjunctionInverts(t *testing.T) {
	m := newModule(decl("&", "inv", "a"))
	m.addInput("c")

	assert.Equal(t, []Emission{{ir.Low, "a"}}, m.Receive(ir.High, "c"))
	assert.Equal(t, []Emission{{ir.High, "a"}}, m.Receive(ir.Low, "c"))
}

func TestDegenerateConjunctionAlwaysEmitsLow(t *testing.T) {
	m := newModule(decl("&", "solo", "x", "y"))
	require.Empty(t, m.Inputs())

	for i := 0; i < 10; i++ {
		level := ir.Level(i%2 == 0)
		out := m.Receive(level, "anyone")
		assert.Equal(t, []Emission{{ir.Low, "x"}, {ir.Low, "y"}}, out)
	}
	assert.Empty(t, m.Memory(), "unregistered sources are not remembered")
}

func TestConjunctionIgnoresUnregisteredSourceInMemory(t *testing.T) {
	m := newModule(decl("&", "con", "out"))
	m.addInput("a")

	out := m.Receive(ir.High, ir.ButtonName)
	assert.Equal(t, []Emission{{ir.High, "out"}}, out)
	assert.Equal(t, map[string]ir.Level{"a": ir.Low}, m.Memory())
}

func TestSinkAbsorbs(t *testing.T) {
	m := newSink("rx")

	assert.Nil(t, m.Receive(ir.Low, "x"))
	assert.Nil(t, m.Receive(ir.High, "x"))
	assert.Equal(t, ir.KindSink, m.Kind())
	assert.Empty(t, m.Destinations())
}

func TestModuleAccessorsReturnCopies(t *testing.T) {
	m := newModule(decl("&", "con", "out"))
	m.addInput("a")

	m.Destinations()[0] = "changed"
	m.Inputs()[0] = "changed"
	m.Memory()["a"] = ir.High

	assert.Equal(t, []string{"out"}, m.Destinations())
	assert.Equal(t, []string{"a"}, m.Inputs())
	assert.Equal(t, ir.Low, m.Memory()["a"])
}
