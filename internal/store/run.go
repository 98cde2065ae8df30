package store

import "errors"

// Query names the kind of run recorded.
type Query string

const (
	QueryTally         Query = "tally"
	QueryMinPresses    Query = "min_presses"
	QueryFirstLowPress Query = "first_low_press"
	QueryTrace         Query = "trace"
)

// Run is one recorded query.
//
// Result holds the query's answer: the low×high product for tally, the
// press count for min_presses and first_low_press, 0 for trace.
// Details holds query-specific extras (witness periods, feeder) and must be
// representable as canonical JSON.
type Run struct {
	ID         string
	Query      Query
	WiringHash string
	Entry      string
	Target     string
	Presses    int
	Low        int64
	High       int64
	Result     int64
	Details    map[string]any
	Seq        int64 // assigned by WriteRun
}

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")
