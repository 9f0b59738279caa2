package detector

import (
	"testing"
	"time"

	"click-analyser/internal/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

// clicksAt builds a sequence of start-only clicks at the given minute
// offsets from base.
func clicksAt(offsets ...int) []event.Click {
	clicks := make([]event.Click, 0, len(offsets))
	for _, offset := range offsets {
		clicks = append(clicks, event.Click{Start: base.Add(time.Duration(offset) * time.Minute)})
	}
	return clicks
}

// evenlySpaced builds count clicks spaced gapMinutes apart.
func evenlySpaced(count, gapMinutes int) []event.Click {
	clicks := make([]event.Click, 0, count)
	for i := 0; i < count; i++ {
		clicks = append(clicks, event.Click{Start: base.Add(time.Duration(i*gapMinutes) * time.Minute)})
	}
	return clicks
}

func TestScanContinuousShortSequences(t *testing.T) {
	gap := 9 * time.Minute
	duration := 5 * time.Hour

	_, crossed := ScanContinuous(nil, gap, duration)
	assert.False(t, crossed, "empty sequence must never match")

	_, crossed = ScanContinuous(clicksAt(0), gap, duration)
	assert.False(t, crossed, "single click has no pairs to compare")
}

func TestScanContinuousFiveMinuteGaps(t *testing.T) {
	// 61 clicks five minutes apart: 60 gaps, 300 accumulated minutes,
	// crossing exactly at the 60th gap.
	seq := evenlySpaced(61, 5)

	state, crossed := ScanContinuous(seq, 9*time.Minute, 300*time.Minute)
	require.True(t, crossed)
	assert.Equal(t, 300*time.Minute, state.Accumulated)
	assert.Equal(t, base, state.Start)
}

func TestScanContinuousStopsAtCrossingPoint(t *testing.T) {
	// 100 clicks five minutes apart would accumulate 495 minutes over
	// the full sequence; the scan must report the sum at the first
	// crossing instead.
	seq := evenlySpaced(100, 5)

	state, crossed := ScanContinuous(seq, 9*time.Minute, 300*time.Minute)
	require.True(t, crossed)
	assert.Equal(t, 300*time.Minute, state.Accumulated)
}

func TestScanContinuousLargeGapResets(t *testing.T) {
	// First run: three 9-minute gaps (27 accumulated). A 60-minute gap
	// breaks it. Second run: four 9-minute gaps (36 accumulated)
	// crosses the 30-minute threshold on its own.
	seq := clicksAt(0, 9, 18, 27, 87, 96, 105, 114, 123)

	state, crossed := ScanContinuous(seq, 10*time.Minute, 30*time.Minute)
	require.True(t, crossed)
	assert.Equal(t, 36*time.Minute, state.Accumulated, "only the second run's gaps may count")
	assert.Equal(t, base.Add(87*time.Minute), state.Start, "run start must be the second run's first click")
}

func TestScanContinuousInsufficientRuns(t *testing.T) {
	// Both runs stay under the threshold; nothing carries across the
	// break.
	seq := clicksAt(0, 9, 18, 27, 87, 96, 105)

	_, crossed := ScanContinuous(seq, 10*time.Minute, 30*time.Minute)
	assert.False(t, crossed)
}

func TestGapEqualToThresholdBreaks(t *testing.T) {
	// Extension requires a gap strictly below the threshold; a gap of
	// exactly nine minutes closes the run.
	seq := evenlySpaced(100, 9)

	_, crossed := ScanContinuous(seq, 9*time.Minute, 30*time.Minute)
	assert.False(t, crossed)

	state := RunState{}.Step(base, base.Add(9*time.Minute), 9*time.Minute)
	assert.True(t, state.Start.IsZero())
	assert.Zero(t, state.Accumulated)
}

func TestStepIncrementalMatchesBatch(t *testing.T) {
	seq := clicksAt(0, 5, 12, 60, 65, 71, 78)
	gap := 10 * time.Minute

	batch, _ := ScanContinuous(seq, gap, time.Hour)

	var incremental RunState
	for i := 0; i+1 < len(seq); i++ {
		incremental = incremental.Step(seq[i].Start, seq[i+1].Start, gap)
	}

	assert.Equal(t, batch, incremental)
}
