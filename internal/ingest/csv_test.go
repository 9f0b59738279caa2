package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"click-analyser/internal/detector"
	"click-analyser/internal/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFileFilePerUser(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "42.csv",
		"clickStart,clickEnd\n"+
			"2024-03-01 08:00:00,2024-03-01 08:05:00\n"+
			"2024-03-01 08:10:00,2024-03-01 08:11:00\n")

	subjects, err := ReadFile(path, detector.MalformedSkip)
	require.NoError(t, err)
	require.Len(t, subjects, 1)

	assert.Equal(t, "42", subjects[0].User)
	assert.Len(t, subjects[0].Clicks, 2)
	assert.Equal(t, 0, subjects[0].Skipped)
	assert.True(t, subjects[0].Clicks[0].HasEnd())
}

func TestReadFileGroupsByUserColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clicks.csv",
		"userId,clickStart,clickEnd\n"+
			"7,2024-03-01 08:00:00,2024-03-01 08:05:00\n"+
			"9,2024-03-01 09:00:00,2024-03-01 09:02:00\n"+
			"7,2024-03-01 08:10:00,2024-03-01 08:12:00\n")

	subjects, err := ReadFile(path, detector.MalformedSkip)
	require.NoError(t, err)
	require.Len(t, subjects, 2)

	assert.Equal(t, "7", subjects[0].User)
	assert.Len(t, subjects[0].Clicks, 2)
	assert.Equal(t, "9", subjects[1].User)
	assert.Len(t, subjects[1].Clicks, 1)
}

func TestReadFileSkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	rows := "clickStart\n"
	for i := 0; i < 9; i++ {
		rows += fmt.Sprintf("2024-03-01 08:%02d:00\n", i)
	}
	rows += "not-a-timestamp\n"
	path := writeFile(t, dir, "11.csv", rows)

	subjects, err := ReadFile(path, detector.MalformedSkip)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Len(t, subjects[0].Clicks, 9)
	assert.Equal(t, 1, subjects[0].Skipped)
}

func TestReadFileAbortsOnMalformedRow(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "11.csv",
		"clickStart\n2024-03-01 08:00:00\nnot-a-timestamp\n")

	_, err := ReadFile(path, detector.MalformedAbort)
	require.Error(t, err)
	assert.ErrorIs(t, err, event.ErrMalformedTimestamp)
}

func TestReadFileRequiresClickStartColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.csv", "timestamp\n2024-03-01 08:00:00\n")

	_, err := ReadFile(path, detector.MalformedSkip)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "clickStart\n")
	writeFile(t, dir, "a.csv", "clickStart\n")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))

	files, err := DiscoverFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "a.csv"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.csv"), files[1])
}

func TestSplitByDay(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	subject := Subject{
		User: "42",
		Clicks: []event.Click{
			{Start: day1},
			{Start: day1.Add(time.Hour)},
			{Start: day2},
		},
		Skipped: 2,
	}

	split := SplitByDay(subject)
	require.Len(t, split, 2)

	assert.Equal(t, "2024-03-01", split[0].Day)
	assert.Len(t, split[0].Clicks, 2)
	assert.Equal(t, 2, split[0].Skipped, "skip count reported once, on the first day")
	assert.Equal(t, "2024-03-02", split[1].Day)
	assert.Len(t, split[1].Clicks, 1)
	assert.Equal(t, 0, split[1].Skipped)
}

func TestSplitByDayAllRowsMalformed(t *testing.T) {
	subject := Subject{User: "42", Skipped: 3}

	split := SplitByDay(subject)
	require.Len(t, split, 1)
	assert.Equal(t, 3, split[0].Skipped)
	assert.Empty(t, split[0].Clicks)
}
