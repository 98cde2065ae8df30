package network

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/pulsenet/internal/compiler"
	"github.com/roach88/pulsenet/internal/ir"
)

// Network owns every module of one simulation run.
//
// INVARIANTS:
//   - module names are unique; declared and sink names never overlap
//   - destination lists and conjunction inputs never change after New
//   - Lookup never returns nil
type Network struct {
	modules map[string]*Module
	decls   []ir.Declaration // declaration order
	sinks   []string         // first-reference order
	preds   map[string][]string
}

// New builds a network from declarations.
//
// Every declared module is instantiated with default state, then each
// destination that names a declared conjunction registers its source as a
// low input. Destinations that are not declared become sinks.
func New(decls []ir.Declaration) (*Network, error) {
	n := &Network{
		modules: make(map[string]*Module, len(decls)),
		decls:   make([]ir.Declaration, len(decls)),
		preds:   make(map[string][]string),
	}
	copy(n.decls, decls)

	for _, d := range decls {
		if _, dup := n.modules[d.Name]; dup {
			return nil, &DuplicateModuleError{Name: d.Name}
		}
		n.modules[d.Name] = newModule(d)
	}

	for _, d := range decls {
		for _, dest := range d.Destinations {
			n.preds[dest] = appendUnique(n.preds[dest], d.Name)

			target, declared := n.modules[dest]
			if !declared {
				n.modules[dest] = newSink(dest)
				n.sinks = append(n.sinks, dest)
				continue
			}
			if target.kind == ir.KindConjunction {
				target.addInput(d.Name)
			}
		}
	}

	return n, nil
}

// Parse compiles wiring text and builds a network from it.
func Parse(text string) (*Network, error) {
	return Load(strings.NewReader(text))
}

// Load compiles wiring from r and builds a network from it.
func Load(r io.Reader) (*Network, error) {
	decls, err := compiler.Compile(r)
	if err != nil {
		return nil, err
	}
	return New(decls)
}

// Lookup returns the module for name. Unknown names resolve to a sink,
// so pulses to them are absorbed.
func (n *Network) Lookup(name string) *Module {
	if m, ok := n.modules[name]; ok {
		return m
	}
	return newSink(name)
}

// Module returns the declared module or sink named name.
func (n *Network) Module(name string) (*Module, bool) {
	m, ok := n.modules[name]
	return m, ok
}

// Declared reports whether name was declared in the wiring (sinks are not).
func (n *Network) Declared(name string) bool {
	m, ok := n.modules[name]
	return ok && m.kind != ir.KindSink
}

// Names returns declared module names in declaration order.
func (n *Network) Names() []string {
	names := make([]string, len(n.decls))
	for i, d := range n.decls {
		names[i] = d.Name
	}
	return names
}

// Sinks returns undeclared destination names in order of first reference.
func (n *Network) Sinks() []string {
	return append([]string(nil), n.sinks...)
}

// Declarations returns a copy of the declarations the network was built from.
func (n *Network) Declarations() []ir.Declaration {
	out := make([]ir.Declaration, len(n.decls))
	copy(out, n.decls)
	return out
}

// Predecessors returns the declared modules wired to name, in declaration order.
func (n *Network) Predecessors(name string) []string {
	return append([]string(nil), n.preds[name]...)
}

// InputsOf returns the inputs discovered for a conjunction.
func (n *Network) InputsOf(name string) ([]string, error) {
	m, ok := n.modules[name]
	if !ok || m.kind == ir.KindSink {
		return nil, &TopologyError{
			Code:    ErrCodeUnknownModule,
			Module:  name,
			Message: "no such module",
		}
	}
	if m.kind != ir.KindConjunction {
		return nil, &TopologyError{
			Code:    ErrCodeNotConjunction,
			Module:  name,
			Message: fmt.Sprintf("module is a %s", m.kind),
		}
	}
	return m.Inputs(), nil
}

// PredecessorConjunction returns the single conjunction feeding target.
//
// The minimum-presses shortcut relies on this shape: the target has exactly
// one predecessor and it is a conjunction whose inputs are the witnesses.
func (n *Network) PredecessorConjunction(target string) (string, error) {
	preds := n.preds[target]
	switch len(preds) {
	case 0:
		return "", &TopologyError{
			Code:    ErrCodeNoPredecessor,
			Module:  target,
			Message: "no module is wired to the target",
		}
	case 1:
	default:
		return "", &TopologyError{
			Code:    ErrCodeAmbiguousPredecessor,
			Module:  target,
			Message: fmt.Sprintf("target is fed by %d modules: %s", len(preds), strings.Join(preds, ", ")),
		}
	}

	feeder := n.modules[preds[0]]
	if feeder.kind != ir.KindConjunction {
		return "", &TopologyError{
			Code:    ErrCodeNotConjunction,
			Module:  feeder.name,
			Message: fmt.Sprintf("target %q is fed by a %s", target, feeder.kind),
		}
	}
	return feeder.name, nil
}

func appendUnique(list []string, name string) []string {
	for _, existing := range list {
		if existing == name {
			return list
		}
	}
	return append(list, name)
}
