package config

import (
	"fmt"
	"time"

	"click-analyser/internal/detector"
)

// PolicyFlags holds the raw policy selection from the command line.
// Policy is either one of the policy kinds, parameterized by the
// threshold flags, or the name of a preset.
type PolicyFlags struct {
	Policy          string
	GapMinutes      int
	DurationMinutes int
	MinDays         int
	TotalHours      float64
	LongestMinutes  int
	Combine         string
	Malformed       string
}

func (f PolicyFlags) MalformedMode() (detector.MalformedMode, error) {
	switch detector.MalformedMode(f.Malformed) {
	case detector.MalformedSkip:
		return detector.MalformedSkip, nil
	case detector.MalformedAbort:
		return detector.MalformedAbort, nil
	}
	return "", fmt.Errorf("malformed mode must be %q or %q, got %q",
		detector.MalformedSkip, detector.MalformedAbort, f.Malformed)
}

func (f PolicyFlags) combineMode() (detector.CombineMode, error) {
	switch detector.CombineMode(f.Combine) {
	case detector.CombineAnd:
		return detector.CombineAnd, nil
	case detector.CombineOr:
		return detector.CombineOr, nil
	}
	return "", fmt.Errorf("combine must be %q or %q, got %q",
		detector.CombineAnd, detector.CombineOr, f.Combine)
}

// Build resolves the flags into a policy value.
func (f PolicyFlags) Build() (detector.Policy, error) {
	switch f.Policy {
	case "single-run":
		return detector.SingleRun{
			GapThreshold:      time.Duration(f.GapMinutes) * time.Minute,
			DurationThreshold: time.Duration(f.DurationMinutes) * time.Minute,
		}, nil
	case "multi-day":
		return detector.MultiDay{
			GapThreshold:      time.Duration(f.GapMinutes) * time.Minute,
			DurationThreshold: time.Duration(f.DurationMinutes) * time.Minute,
			MinQualifyingDays: f.MinDays,
		}, nil
	case "span-peak":
		combine, err := f.combineMode()
		if err != nil {
			return nil, err
		}
		malformed, err := f.MalformedMode()
		if err != nil {
			return nil, err
		}
		return detector.SpanAndPeak{
			TotalThreshold:   time.Duration(f.TotalHours * float64(time.Hour)),
			LongestThreshold: time.Duration(f.LongestMinutes) * time.Minute,
			Combine:          combine,
			Malformed:        malformed,
		}, nil
	}

	return detector.Preset(f.Policy)
}
