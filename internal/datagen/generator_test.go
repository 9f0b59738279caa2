package datagen

import (
	"path/filepath"
	"testing"
	"time"

	"click-analyser/internal/detector"
	"click-analyser/internal/event"
	"click-analyser/internal/ingest"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func newGenerator() *Generator {
	return NewGenerator(gofakeit.New(99))
}

func TestContinuousBotDayFlagsUnderContinuousPreset(t *testing.T) {
	clicks := newGenerator().ContinuousBotDay(day)

	policy, err := detector.Preset("continuous-9m-5h")
	require.NoError(t, err)

	result, err := detector.New(policy).Classify(clicks, 0)
	require.NoError(t, err)
	assert.True(t, result.IsBot, "steady sub-threshold gaps for hours must flag")
}

func TestSpanBotDayFlagsUnderSpanPreset(t *testing.T) {
	clicks := newGenerator().SpanBotDay(day)

	policy, err := detector.Preset("span-8h-and-20m")
	require.NoError(t, err)

	result, err := detector.New(policy).Classify(clicks, 0)
	require.NoError(t, err)
	assert.True(t, result.IsBot)
	assert.Greater(t, result.TotalHours, 8.0)
	assert.Greater(t, result.LongestMinutes, 20.0)
}

func TestMultiDayBotFlagsUnderDailyPreset(t *testing.T) {
	clicks := newGenerator().MultiDayBot(day, 3)

	policy, err := detector.Preset("daily-45m-5h-2d")
	require.NoError(t, err)

	result, err := detector.New(policy).Classify(clicks, 0)
	require.NoError(t, err)
	assert.True(t, result.IsBot)
	assert.GreaterOrEqual(t, result.QualifyingDays, 2)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	generator := newGenerator()
	clicks := generator.ContinuousBotDay(day)
	event.SortByStart(clicks)

	path := filepath.Join(t.TempDir(), "1.csv")
	require.NoError(t, WriteCSV(path, clicks))

	subjects, err := ingest.ReadFile(path, detector.MalformedSkip)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Len(t, subjects[0].Clicks, len(clicks))
	assert.Equal(t, 0, subjects[0].Skipped)
	assert.True(t, subjects[0].Clicks[0].Start.Equal(clicks[0].Start))
}
