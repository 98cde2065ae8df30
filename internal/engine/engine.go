package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/pulsenet/internal/ir"
	"github.com/roach88/pulsenet/internal/network"
)

// DefaultMaxSteps is the default bound on deliveries within one press.
const DefaultMaxSteps = 1_000_000

// DefaultMaxPresses is the default bound on presses for the searching queries.
const DefaultMaxPresses = 10_000_000

// Observer sees every delivered pulse, in delivery order.
type Observer interface {
	Observe(p ir.Pulse)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(p ir.Pulse)

// Observe calls f(p).
func (f ObserverFunc) Observe(p ir.Pulse) { f(p) }

// Engine drives button presses through a network.
//
// An engine is either idle or draining a press. Press runs the queue until it
// is empty, so every press is observed as one atomic step. All state lives in
// the network's modules and the engine's clock and queue; nothing is shared
// with other engines.
//
// INVARIANTS:
//   - pulses are delivered strictly in the order they were sent
//   - the queue is empty whenever Press returns nil
//   - a halted engine never delivers another pulse
type Engine struct {
	net       *network.Network
	entry     string
	clock     *Clock
	queue     *pulseQueue
	quota     *QuotaEnforcer
	observers []Observer

	presses int
	halted  bool
}

// settings collects every Option. Engine-level fields are read by New;
// query-level fields by the query functions.
type settings struct {
	entry     string
	maxSteps  int
	observers []Observer

	witnesses    []string
	witnessesSet bool
	maxPresses   int
}

// Option configures an engine or a query.
type Option func(*settings)

// WithEntry sets the module that receives the button's low pulse.
//
// Default: "broadcaster".
func WithEntry(name string) Option {
	return func(s *settings) {
		s.entry = name
	}
}

// WithMaxSteps sets the per-press delivery bound.
//
// Default: 1,000,000 (DefaultMaxSteps).
func WithMaxSteps(maxSteps int) Option {
	return func(s *settings) {
		s.maxSteps = maxSteps
	}
}

// WithObserver registers observers. Observers are notified in registration
// order, before the destination module handles the pulse.
func WithObserver(obs ...Observer) Option {
	return func(s *settings) {
		s.observers = append(s.observers, obs...)
	}
}

// WithWitnesses overrides the witnesses MinPresses watches. Without it the
// witnesses are the inputs of the conjunction feeding the target.
func WithWitnesses(names ...string) Option {
	return func(s *settings) {
		s.witnesses = append([]string(nil), names...)
		s.witnessesSet = true
	}
}

// WithMaxPresses bounds how many presses MinPresses and FirstLowPress may
// simulate.
//
// Default: 10,000,000 (DefaultMaxPresses).
func WithMaxPresses(n int) Option {
	return func(s *settings) {
		s.maxPresses = n
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		entry:      ir.DefaultEntry,
		maxSteps:   DefaultMaxSteps,
		maxPresses: DefaultMaxPresses,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// New creates an idle engine over net.
//
// The engine mutates the modules of net as it runs; give each engine its
// own network.
func New(net *network.Network, opts ...Option) (*Engine, error) {
	s := newSettings(opts)
	return newEngine(net, s)
}

func newEngine(net *network.Network, s settings) (*Engine, error) {
	if !net.Declared(s.entry) {
		return nil, newUnknownEntryError(s.entry)
	}

	return &Engine{
		net:       net,
		entry:     s.entry,
		clock:     NewClock(),
		queue:     newPulseQueue(),
		quota:     NewQuotaEnforcer(s.maxSteps),
		observers: append([]Observer(nil), s.observers...),
	}, nil
}

// Press performs one button press and drains the queue.
//
// Returns *StepsExceededError if the press does not settle within the step
// bound; the engine is halted afterwards and later calls return
// ErrEngineHalted.
func (e *Engine) Press() error {
	if e.halted {
		return ErrEngineHalted
	}

	press := e.presses + 1
	e.quota.Reset()
	e.queue.Enqueue(ir.Pulse{
		Press:  press,
		Source: ir.ButtonName,
		Dest:   e.entry,
		Level:  ir.Low,
	})

	for {
		p, ok := e.queue.TryDequeue()
		if !ok {
			break
		}

		if err := e.quota.Check(press); err != nil {
			e.halted = true
			e.queue.Reset()
			slog.Error("press did not settle",
				"press", press,
				"steps", e.quota.Current(),
				"max_steps", e.quota.MaxSteps(),
				"entry", e.entry,
			)
			return err
		}

		p.Seq = e.clock.Next()
		for _, obs := range e.observers {
			obs.Observe(p)
		}

		for _, em := range e.net.Lookup(p.Dest).Receive(p.Level, p.Source) {
			e.queue.Enqueue(ir.Pulse{
				Press:  press,
				Source: p.Dest,
				Dest:   em.Dest,
				Level:  em.Level,
			})
		}
	}

	e.presses = press
	slog.Debug("press settled",
		"press", press,
		"deliveries", e.quota.Current(),
		"seq", e.clock.Current(),
	)
	return nil
}

// Run performs n presses. ctx is checked between presses only; a press in
// progress always completes.
func (e *Engine) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Press(); err != nil {
			return err
		}
	}
	return nil
}

// Presses returns the number of completed presses.
func (e *Engine) Presses() int { return e.presses }

// Seq returns the stamp of the last delivered pulse.
func (e *Engine) Seq() int64 { return e.clock.Current() }

// Entry returns the module receiving the button pulse.
func (e *Engine) Entry() string { return e.entry }

// Halted reports whether a press failed to settle.
func (e *Engine) Halted() bool { return e.halted }
