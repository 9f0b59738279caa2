package detector

import (
	"errors"
	"fmt"
	"time"

	"click-analyser/internal/event"
)

var ErrUnknownPolicy = errors.New("unknown policy")

// MalformedMode decides what happens to a click that cannot be used:
// an unparseable timestamp or a negative span.
type MalformedMode string

const (
	// MalformedSkip drops the offending click, counts it in
	// Result.SkippedEvents and classifies the rest.
	MalformedSkip MalformedMode = "skip"
	// MalformedAbort fails the whole subject.
	MalformedAbort MalformedMode = "abort"
)

type CombineMode string

const (
	CombineAnd CombineMode = "and"
	CombineOr  CombineMode = "or"
)

// Result is the verdict for one subject plus the metrics relevant to
// the policy that produced it.
type Result struct {
	IsBot             bool      `json:"is_bot"`
	ContinuousMinutes float64   `json:"continuous_minutes,omitempty"`
	RunStart          time.Time `json:"run_start,omitempty"`
	QualifyingDays    int       `json:"qualifying_days,omitempty"`
	TotalHours        float64   `json:"total_hours,omitempty"`
	LongestMinutes    float64   `json:"longest_minutes,omitempty"`
	SkippedEvents     int       `json:"skipped_events,omitempty"`
}

// Policy is one named way of deciding whether a click sequence came
// from a robot. Implementations are stateless; the same policy value
// may classify any number of subjects.
type Policy interface {
	Name() string
	Evaluate(seq []event.Click) (Result, error)
}

// SingleRun flags a subject whose clicks form one loosely unbroken run
// accumulating at least DurationThreshold of continuous time.
type SingleRun struct {
	GapThreshold      time.Duration
	DurationThreshold time.Duration
}

func (p SingleRun) Name() string { return "single-run" }

func (p SingleRun) Evaluate(seq []event.Click) (Result, error) {
	state, crossed := ScanContinuous(seq, p.GapThreshold, p.DurationThreshold)
	if !crossed {
		return Result{}, nil
	}
	return Result{
		IsBot:             true,
		ContinuousMinutes: state.Accumulated.Minutes(),
		RunStart:          state.Start,
	}, nil
}

// MultiDay flags a subject with at least MinQualifyingDays distinct
// calendar days that each contain a qualifying continuous run. The gap
// tolerance here is typically wider than SingleRun's: the question is
// whether a day contained the activity, not whether it was one run.
type MultiDay struct {
	GapThreshold      time.Duration
	DurationThreshold time.Duration
	MinQualifyingDays int
}

func (p MultiDay) Name() string { return "multi-day" }

func (p MultiDay) Evaluate(seq []event.Click) (Result, error) {
	days := QualifyingDays(seq, p.GapThreshold, p.DurationThreshold)
	return Result{
		IsBot:          days >= p.MinQualifyingDays,
		QualifyingDays: days,
	}, nil
}

// SpanAndPeak flags a subject on total active time and the single
// longest click, combined with an explicit AND/OR rule. Thresholds are
// strict: a total exactly at TotalThreshold does not flag.
type SpanAndPeak struct {
	TotalThreshold   time.Duration
	LongestThreshold time.Duration
	Combine          CombineMode
	Malformed        MalformedMode
}

func (p SpanAndPeak) Name() string { return "span-peak" }

func (p SpanAndPeak) Evaluate(seq []event.Click) (Result, error) {
	totals, err := SumSpans(seq, p.Malformed)
	if err != nil {
		return Result{}, err
	}

	totalHit := totals.Total > p.TotalThreshold
	longestHit := totals.Longest > p.LongestThreshold

	isBot := totalHit && longestHit
	if p.Combine == CombineOr {
		isBot = totalHit || longestHit
	}

	return Result{
		IsBot:          isBot,
		TotalHours:     totals.TotalHours(),
		LongestMinutes: totals.LongestMinutes(),
		SkippedEvents:  totals.Skipped,
	}, nil
}

// Classifier applies one configured policy to independent subjects.
type Classifier struct {
	policy Policy
}

func New(policy Policy) *Classifier {
	return &Classifier{policy: policy}
}

func (c *Classifier) Policy() Policy {
	return c.policy
}

// Classify sorts the sequence by start time and evaluates the policy.
// skipped is the number of clicks the ingester already dropped as
// malformed; it is folded into the result's SkippedEvents.
func (c *Classifier) Classify(seq []event.Click, skipped int) (Result, error) {
	event.SortByStart(seq)

	result, err := c.policy.Evaluate(seq)
	if err != nil {
		return Result{}, fmt.Errorf("policy %s: %w", c.policy.Name(), err)
	}

	result.SkippedEvents += skipped
	return result, nil
}
