package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "low", Low.String())
	assert.Equal(t, "high", High.String())
}

func TestKindStringAndPrefix(t *testing.T) {
	tests := []struct {
		kind   Kind
		name   string
		prefix string
	}{
		{KindBroadcaster, "broadcaster", ""},
		{KindFlipFlop, "flip-flop", "%"},
		{KindConjunction, "conjunction", "&"},
		{KindSink, "sink", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Equal(t, tt.prefix, tt.kind.Prefix())
		})
	}
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestPulseString(t *testing.T) {
	p := Pulse{Source: "button", Dest: "broadcaster", Level: Low}
	assert.Equal(t, "button -low-> broadcaster", p.String())

	p = Pulse{Source: "a", Dest: "inv", Level: High}
	assert.Equal(t, "a -high-> inv", p.String())
}

func TestDeclarationString(t *testing.T) {
	d := Declaration{Name: "a", Kind: KindFlipFlop, Destinations: []string{"inv", "con"}}
	assert.Equal(t, "%a -> inv, con", d.String())

	d = Declaration{Name: "broadcaster", Kind: KindBroadcaster, Destinations: []string{"a"}}
	assert.Equal(t, "broadcaster -> a", d.String())
}
