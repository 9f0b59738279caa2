package config

import (
	"testing"
	"time"

	"click-analyser/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSingleRunFromFlags(t *testing.T) {
	flags := PolicyFlags{Policy: "single-run", GapMinutes: 9, DurationMinutes: 300}

	policy, err := flags.Build()
	require.NoError(t, err)

	single, ok := policy.(detector.SingleRun)
	require.True(t, ok)
	assert.Equal(t, 9*time.Minute, single.GapThreshold)
	assert.Equal(t, 300*time.Minute, single.DurationThreshold)
}

func TestBuildSpanPeakFromFlags(t *testing.T) {
	flags := PolicyFlags{
		Policy:         "span-peak",
		TotalHours:     8,
		LongestMinutes: 60,
		Combine:        "or",
		Malformed:      "skip",
	}

	policy, err := flags.Build()
	require.NoError(t, err)

	span, ok := policy.(detector.SpanAndPeak)
	require.True(t, ok)
	assert.Equal(t, 8*time.Hour, span.TotalThreshold)
	assert.Equal(t, 60*time.Minute, span.LongestThreshold)
	assert.Equal(t, detector.CombineOr, span.Combine)
}

func TestBuildRejectsBadCombine(t *testing.T) {
	flags := PolicyFlags{Policy: "span-peak", Combine: "xor", Malformed: "skip"}

	_, err := flags.Build()
	assert.Error(t, err)
}

func TestBuildFallsBackToPreset(t *testing.T) {
	flags := PolicyFlags{Policy: "span-8h-or-60m"}

	policy, err := flags.Build()
	require.NoError(t, err)
	assert.Equal(t, "span-peak", policy.Name())
}

func TestBuildUnknownPolicy(t *testing.T) {
	flags := PolicyFlags{Policy: "nope"}

	_, err := flags.Build()
	assert.ErrorIs(t, err, detector.ErrUnknownPolicy)
}
