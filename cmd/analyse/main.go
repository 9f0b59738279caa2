package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"click-analyser/internal/config"
	"click-analyser/internal/detector"
	"click-analyser/internal/ingest"
	"click-analyser/internal/report"
)

func main() {
	flags := config.ParseBatchFlags()

	policy, err := flags.Build()
	if err != nil {
		log.Fatalf("Invalid policy: %v", err)
	}
	malformed, err := flags.MalformedMode()
	if err != nil {
		log.Fatalf("Invalid malformed mode: %v", err)
	}

	classifier := detector.New(policy)
	reporter := report.NewReporter(os.Stdout)

	files, err := sourceFiles(flags.SourcePath)
	if err != nil {
		log.Fatalf("Could not resolve source: %v", err)
	}

	for _, file := range files {
		subjects, err := ingest.ReadFile(file, malformed)
		if err != nil {
			// One unreadable file must not sink the rest of the batch.
			user := strings.TrimSuffix(filepath.Base(file), ".csv")
			reporter.ReportError(user, "", err)
			continue
		}

		if flags.PerDay {
			var split []ingest.Subject
			for _, subject := range subjects {
				split = append(split, ingest.SplitByDay(subject)...)
			}
			subjects = split
		}

		classifySubjects(classifier, reporter, subjects)
	}

	_, failed := reporter.Summary()
	if failed > 0 {
		os.Exit(1)
	}
}

// classifySubjects runs one file's subjects in parallel. Each subject
// owns its sequence, so the only contention is the reporter, which
// serializes its own writes.
func classifySubjects(classifier *detector.Classifier, reporter *report.Reporter, subjects []ingest.Subject) {
	var wg sync.WaitGroup
	for _, subject := range subjects {
		wg.Add(1)
		go func(subject ingest.Subject) {
			defer wg.Done()

			result, err := classifier.Classify(subject.Clicks, subject.Skipped)
			if err != nil {
				reporter.ReportError(subject.User, subject.Day, err)
				return
			}
			reporter.Report(subject.User, subject.Day, result)
		}(subject)
	}
	wg.Wait()
}

func sourceFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return ingest.DiscoverFiles(path)
	}
	return []string{path}, nil
}
