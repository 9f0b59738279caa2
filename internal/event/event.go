package event

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// TimeLayout is the timestamp format produced by the click exporters.
// The date portion before the space doubles as the calendar-day key.
const TimeLayout = "2006-01-02 15:04:05"

const DayLayout = "2006-01-02"

var ErrMalformedTimestamp = errors.New("malformed timestamp")

// Click is a single user click. End is the zero time when the source
// data carries no click-end column.
type Click struct {
	Start time.Time `json:"click_start"`
	End   time.Time `json:"click_end,omitempty"`
}

func (c Click) HasEnd() bool {
	return !c.End.IsZero()
}

// Span is the start-to-end duration of the click. Only meaningful
// when HasEnd is true; may be negative on malformed records.
func (c Click) Span() time.Duration {
	return c.End.Sub(c.Start)
}

// Day returns the calendar-day key of the click's start.
func (c Click) Day() string {
	return c.Start.Format(DayLayout)
}

// ParseClick builds a Click from raw timestamp strings. endStr may be
// empty when the source has no click-end column.
func ParseClick(startStr, endStr string) (Click, error) {
	start, err := ParseTimestamp(startStr)
	if err != nil {
		return Click{}, fmt.Errorf("click start: %w", err)
	}

	click := Click{Start: start}
	if endStr != "" {
		end, err := ParseTimestamp(endStr)
		if err != nil {
			return Click{}, fmt.Errorf("click end: %w", err)
		}
		click.End = end
	}

	return click, nil
}

// ParseTimestamp parses an exporter timestamp. RFC3339 is accepted as a
// fallback for sources that emit machine timestamps.
func ParseTimestamp(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrMalformedTimestamp)
	}

	if ts, err := time.Parse(TimeLayout, trimmed); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return ts, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, raw)
}

// SortByStart orders a sequence ascending by click start. The gap and
// daily scans require this ordering; callers that cannot guarantee it
// get it enforced here.
func SortByStart(seq []Click) {
	sort.SliceStable(seq, func(i, j int) bool {
		return seq[i].Start.Before(seq[j].Start)
	})
}
