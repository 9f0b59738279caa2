package detector

import (
	"errors"
	"fmt"
	"time"

	"click-analyser/internal/event"
)

var ErrMalformedRecord = errors.New("malformed record")

// SpanTotals is the sum/extremum reduction over click spans. It ignores
// gaps between clicks entirely, so the result is independent of event
// order.
type SpanTotals struct {
	Total   time.Duration
	Longest time.Duration
	Skipped int
}

// SumSpans accumulates total and longest click duration over a sequence
// of clicks that carry both endpoints. A click without an end timestamp,
// or with an end before its start, is a malformed record: depending on
// mode it is skipped and counted, or it aborts the whole reduction. It
// is never summed as negative time.
func SumSpans(seq []event.Click, mode MalformedMode) (SpanTotals, error) {
	var totals SpanTotals
	for i, click := range seq {
		if !click.HasEnd() || click.Span() < 0 {
			if mode == MalformedAbort {
				return SpanTotals{}, fmt.Errorf("%w: click %d has end %s before start %s",
					ErrMalformedRecord, i, click.End.Format(event.TimeLayout), click.Start.Format(event.TimeLayout))
			}
			totals.Skipped++
			continue
		}

		span := click.Span()
		totals.Total += span
		if span > totals.Longest {
			totals.Longest = span
		}
	}
	return totals, nil
}

func (t SpanTotals) TotalHours() float64 {
	return t.Total.Hours()
}

func (t SpanTotals) LongestMinutes() float64 {
	return t.Longest.Minutes()
}
