package testutil

import (
	"fmt"
	"math/bits"
	"strings"
)

const (
	// CounterTarget is the sink fed by the join conjunction of CounterWiring.
	CounterTarget = "rx"

	// CounterJoin is the conjunction whose inputs are the counter witnesses.
	CounterJoin = "join"
)

// CounterWiring builds a network of independent binary counters, one per
// period, joined so that rx first receives a low pulse on the press that is
// the least common multiple of the periods.
//
// Counter i (letter l = 'a'+i) is a ripple chain of flip-flops l0..lk-1.
// The bits set in the period feed the hub conjunction cl; when they are all
// high cl resets the counter and sends low to the inverter il, which is the
// counter's witness. Each witness therefore sends its first high pulse on
// press "period" and the counter is back at zero afterwards.
//
// Periods must be odd and at least 3.
func CounterWiring(periods ...int) (string, error) {
	if len(periods) == 0 {
		return "", fmt.Errorf("at least one period is required")
	}
	if len(periods) > 26 {
		return "", fmt.Errorf("at most 26 counters, got %d", len(periods))
	}

	var (
		b      strings.Builder
		starts []string
	)
	for i, period := range periods {
		if period < 3 || period%2 == 0 {
			return "", fmt.Errorf("period %d: must be odd and at least 3", period)
		}
		l := string(rune('a' + i))
		starts = append(starts, l+"0")
	}

	fmt.Fprintf(&b, "broadcaster -> %s\n", strings.Join(starts, ", "))
	for i, period := range periods {
		writeCounter(&b, string(rune('a'+i)), period)
	}
	fmt.Fprintf(&b, "&%s -> %s\n", CounterJoin, CounterTarget)

	return b.String(), nil
}

// MustCounterWiring is CounterWiring that panics on error.
func MustCounterWiring(periods ...int) string {
	w, err := CounterWiring(periods...)
	if err != nil {
		panic(err)
	}
	return w
}

// CounterWitnesses returns the witness names of the first n counters.
func CounterWitnesses(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "i" + string(rune('a'+i))
	}
	return out
}

func writeCounter(b *strings.Builder, l string, period int) {
	width := bits.Len(uint(period))
	hub := "c" + l
	bit := func(j int) string { return fmt.Sprintf("%s%d", l, j) }

	resets := []string{bit(0)}
	for j := 0; j < width; j++ {
		set := period&(1<<j) != 0
		if !set {
			resets = append(resets, bit(j))
		}

		var dests []string
		if j+1 < width {
			dests = append(dests, bit(j+1))
		}
		if set {
			dests = append(dests, hub)
		}
		fmt.Fprintf(b, "%%%s -> %s\n", bit(j), strings.Join(dests, ", "))
	}

	fmt.Fprintf(b, "&%s -> %s, i%s\n", hub, strings.Join(resets, ", "), l)
	fmt.Fprintf(b, "&i%s -> %s\n", l, CounterJoin)
}
