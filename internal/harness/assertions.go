package harness

import "fmt"

// checkExpectations compares the result against every expectation the
// scenario sets and records a message per mismatch.
func checkExpectations(s *Scenario, r *Result) {
	e := s.Expect

	if r.Tally != nil {
		checkInt64(r, "low", e.Low, r.Tally.Low)
		checkInt64(r, "high", e.High, r.Tally.High)
		checkInt64(r, "product", e.Product, r.Tally.Product())
	}

	if e.MinPresses != nil && r.MinPresses != nil {
		checkInt64(r, "min_presses", e.MinPresses, r.MinPresses.Answer)
	}

	if e.FirstLowPress != nil && *e.FirstLowPress != r.FirstLowPress {
		r.Fail(fmt.Sprintf("first_low_press: expected %d, got %d", *e.FirstLowPress, r.FirstLowPress))
	}
}

func checkInt64(r *Result, field string, want *int64, got int64) {
	if want == nil || *want == got {
		return
	}
	r.Fail(fmt.Sprintf("%s: expected %d, got %d", field, *want, got))
}
