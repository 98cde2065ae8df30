package ir

import "fmt"

// Level is the value carried by a pulse.
type Level bool

const (
	// Low is the default level remembered by conjunctions and sent by the button.
	Low Level = false
	// High is the level that flip-flops ignore.
	High Level = true
)

// String returns "low" or "high".
func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// Kind identifies the pulse-handling rule of a module.
type Kind int

const (
	// KindSink absorbs pulses. Any destination that is never declared is a sink.
	KindSink Kind = iota
	// KindBroadcaster forwards every pulse unchanged (no prefix in wiring).
	KindBroadcaster
	// KindFlipFlop toggles on low pulses (prefix %).
	KindFlipFlop
	// KindConjunction remembers the last level from each input (prefix &).
	KindConjunction
)

var kindNames = map[Kind]string{
	KindSink:        "sink",
	KindBroadcaster: "broadcaster",
	KindFlipFlop:    "flip-flop",
	KindConjunction: "conjunction",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Prefix returns the wiring prefix for the kind ("%", "&" or "").
func (k Kind) Prefix() string {
	switch k {
	case KindFlipFlop:
		return "%"
	case KindConjunction:
		return "&"
	default:
		return ""
	}
}

// ButtonName is the source name of the pulse injected by a button press.
const ButtonName = "button"

// DefaultEntry is the module that receives the button pulse unless configured otherwise.
const DefaultEntry = "broadcaster"

// Declaration is one parsed wiring line.
type Declaration struct {
	Name         string   `json:"name"`
	Kind         Kind     `json:"kind"`
	Destinations []string `json:"destinations"`
	Line         int      `json:"line,omitempty"` // 1-based source line, 0 if built in code
}

// String renders the declaration back into wiring syntax.
func (d Declaration) String() string {
	s := d.Kind.Prefix() + d.Name + " ->"
	for i, dest := range d.Destinations {
		if i > 0 {
			s += ","
		}
		s += " " + dest
	}
	return s
}

// Pulse is one delivered pulse.
//
// Seq is stamped by the engine's logical clock when the pulse is dequeued,
// so Seq order is exactly delivery order. Press is the 1-based index of the
// button press that caused it.
type Pulse struct {
	Seq    int64  `json:"seq"`
	Press  int    `json:"press"`
	Source string `json:"source"`
	Dest   string `json:"dest"`
	Level  Level  `json:"level"`
}

// String renders the pulse as "source -level-> dest".
func (p Pulse) String() string {
	return p.Source + " -" + p.Level.String() + "-> " + p.Dest
}
