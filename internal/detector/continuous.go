package detector

import (
	"time"

	"click-analyser/internal/event"
)

// RunState tracks one continuous run of activity. It is the whole state
// of the scan, so it can be advanced one event at a time (the stream
// pipeline persists it between records) or driven over a full sequence
// by ScanContinuous.
type RunState struct {
	Start       time.Time
	Accumulated time.Duration
}

func (s RunState) open() bool {
	return !s.Start.IsZero()
}

// Step advances the scan with the gap between two consecutive click
// starts. A gap below gapThreshold extends the current run (opening one
// if needed) and accumulates the gap; a gap at or above the threshold
// closes the run. The broken pair contributes nothing to any run.
func (s RunState) Step(prev, next time.Time, gapThreshold time.Duration) RunState {
	gap := next.Sub(prev)
	if gap >= gapThreshold {
		return RunState{}
	}

	if !s.open() {
		s.Start = prev
	}
	s.Accumulated += gap
	return s
}

// Crossed reports whether the run has accumulated enough continuous
// time to count as automated activity.
func (s RunState) Crossed(durationThreshold time.Duration) bool {
	return s.open() && s.Accumulated >= durationThreshold
}

// ScanContinuous scans consecutive click pairs and stops at the first
// point where the accumulated continuous time crosses durationThreshold.
// The returned state at that point carries the run start and the
// accumulated minutes at the crossing, not the full-sequence sum.
// Sequences with fewer than two clicks never match.
func ScanContinuous(seq []event.Click, gapThreshold, durationThreshold time.Duration) (RunState, bool) {
	var state RunState
	for i := 0; i+1 < len(seq); i++ {
		state = state.Step(seq[i].Start, seq[i+1].Start, gapThreshold)
		if state.Crossed(durationThreshold) {
			return state, true
		}
	}
	return state, false
}
