package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"click-analyser/internal/detector"
	"click-analyser/internal/event"
)

var ErrMissingColumn = errors.New("missing column")

// Subject is one unit of classification: a user's clicks, optionally
// narrowed to a single calendar day. Skipped counts the rows dropped as
// malformed while reading.
type Subject struct {
	User    string
	Day     string
	Clicks  []event.Click
	Skipped int
}

// DiscoverFiles lists the CSV files in a folder, sorted by name so the
// batch processes them in a stable order.
func DiscoverFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", folder, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		files = append(files, filepath.Join(folder, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// ReadFile streams one CSV file into subjects. When the file carries a
// userId column the rows group per user; otherwise the whole file is
// one subject named after the file (exporters write one file per user).
//
// A row with an unparseable timestamp is dropped and counted under
// MalformedSkip; under MalformedAbort it fails the whole file, since
// rows for every user in it stream through the same reader.
func ReadFile(path string, mode detector.MalformedMode) ([]Subject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	startCol, endCol, userCol := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "clickStart":
			startCol = i
		case "clickEnd":
			endCol = i
		case "userId":
			userCol = i
		}
	}
	if startCol < 0 {
		return nil, fmt.Errorf("%w: %s has no clickStart", ErrMissingColumn, path)
	}

	fileUser := strings.TrimSuffix(filepath.Base(path), ".csv")
	subjects := make(map[string]*Subject)
	var order []string

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row of %s: %w", path, err)
		}

		user := fileUser
		if userCol >= 0 && userCol < len(row) {
			user = strings.TrimSpace(row[userCol])
		}

		subject, ok := subjects[user]
		if !ok {
			subject = &Subject{User: user}
			subjects[user] = subject
			order = append(order, user)
		}

		endStr := ""
		if endCol >= 0 && endCol < len(row) {
			endStr = row[endCol]
		}

		click, err := event.ParseClick(row[startCol], endStr)
		if err != nil {
			if mode == detector.MalformedAbort {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			subject.Skipped++
			continue
		}

		subject.Clicks = append(subject.Clicks, click)
	}

	out := make([]Subject, 0, len(order))
	for _, user := range order {
		out = append(out, *subjects[user])
	}
	return out, nil
}

// SplitByDay turns one subject into one subject per calendar day, for
// policies evaluated per (user, day). The whole subject's skipped count
// stays on the first day so it is reported exactly once.
func SplitByDay(subject Subject) []Subject {
	buckets := detector.BucketByDay(subject.Clicks)

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]Subject, 0, len(days))
	for i, day := range days {
		split := Subject{User: subject.User, Day: day, Clicks: buckets[day]}
		if i == 0 {
			split.Skipped = subject.Skipped
		}
		out = append(out, split)
	}
	if len(out) == 0 && subject.Skipped > 0 {
		out = append(out, Subject{User: subject.User, Skipped: subject.Skipped})
	}
	return out
}
