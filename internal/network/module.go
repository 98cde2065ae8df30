package network

import "github.com/roach88/pulsenet/internal/ir"

// Emission is a pulse a module sends in response to one it received.
type Emission struct {
	Level ir.Level
	Dest  string
}

// Module is one node of the network.
//
// Only the fields relevant to its kind are used: on for flip-flops,
// memory/inputs/highs for conjunctions. Sinks have no destinations.
type Module struct {
	name  string
	kind  ir.Kind
	dests []string

	on bool

	memory map[string]ir.Level
	inputs []string // discovery order
	highs  int      // count of memory entries that are high
}

func newModule(d ir.Declaration) *Module {
	m := &Module{
		name:  d.Name,
		kind:  d.Kind,
		dests: append([]string(nil), d.Destinations...),
	}
	if d.Kind == ir.KindConjunction {
		m.memory = make(map[string]ir.Level)
	}
	return m
}

func newSink(name string) *Module {
	return &Module{name: name, kind: ir.KindSink}
}

// addInput registers a conjunction input remembered as low.
// Registering the same input twice is a no-op.
func (m *Module) addInput(from string) {
	if _, ok := m.memory[from]; ok {
		return
	}
	m.memory[from] = ir.Low
	m.inputs = append(m.inputs, from)
}

// Receive handles one pulse and returns what the module emits, in
// destination order.
//
// A conjunction only remembers inputs discovered at build time. A pulse from
// any other source (the button, when a conjunction is the entry) leaves its
// memory unchanged but still triggers an emission.
func (m *Module) Receive(level ir.Level, from string) []Emission {
	switch m.kind {
	case ir.KindBroadcaster:
		return m.emit(level)

	case ir.KindFlipFlop:
		if level == ir.High {
			return nil
		}
		m.on = !m.on
		return m.emit(ir.Level(m.on))

	case ir.KindConjunction:
		if prev, ok := m.memory[from]; ok && prev != level {
			m.memory[from] = level
			if level == ir.High {
				m.highs++
			} else {
				m.highs--
			}
		}
		// Zero inputs vacuously means every input is high.
		if m.highs == len(m.memory) {
			return m.emit(ir.Low)
		}
		return m.emit(ir.High)

	default:
		return nil
	}
}

func (m *Module) emit(level ir.Level) []Emission {
	if len(m.dests) == 0 {
		return nil
	}
	out := make([]Emission, len(m.dests))
	for i, dest := range m.dests {
		out[i] = Emission{Level: level, Dest: dest}
	}
	return out
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// Kind returns the module kind.
func (m *Module) Kind() ir.Kind { return m.kind }

// Destinations returns a copy of the destination list in wiring order.
func (m *Module) Destinations() []string {
	return append([]string(nil), m.dests...)
}

// On reports whether a flip-flop is on. Always false for other kinds.
func (m *Module) On() bool { return m.on }

// Inputs returns a conjunction's discovered inputs in discovery order.
func (m *Module) Inputs() []string {
	return append([]string(nil), m.inputs...)
}

// Memory returns a copy of a conjunction's remembered input levels.
// Nil for other kinds.
func (m *Module) Memory() map[string]ir.Level {
	if m.memory == nil {
		return nil
	}
	out := make(map[string]ir.Level, len(m.memory))
	for k, v := range m.memory {
		out[k] = v
	}
	return out
}
