package report

import (
	"fmt"
	"io"
	"sync"

	"click-analyser/internal/detector"
)

// Reporter is the single sink batch classification results funnel
// through. Subjects classify independently, so writes are serialized
// here to keep output lines whole.
type Reporter struct {
	mu        sync.Mutex
	out       io.Writer
	processed int
	failed    int
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

func (r *Reporter) Report(user, day string, result detector.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed++

	verdict := "a human"
	if result.IsBot {
		verdict = "a robot"
	}

	line := fmt.Sprintf("User %s", user)
	if day != "" {
		line += fmt.Sprintf(" on %s", day)
	}
	line += fmt.Sprintf(" is %s%s\n", verdict, formatMetrics(result))
	fmt.Fprint(r.out, line)
}

func (r *Reporter) ReportError(user, day string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++

	if day != "" {
		fmt.Fprintf(r.out, "User %s on %s could not be classified: %v\n", user, day, err)
		return
	}
	fmt.Fprintf(r.out, "User %s could not be classified: %v\n", user, err)
}

// Summary prints the batch totals and returns them.
func (r *Reporter) Summary() (processed, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "Processed %d subjects, %d failed\n", r.processed, r.failed)
	return r.processed, r.failed
}

func formatMetrics(result detector.Result) string {
	metrics := ""
	if result.ContinuousMinutes > 0 {
		metrics += fmt.Sprintf(", continuous minutes: %.1f (run start %s)",
			result.ContinuousMinutes, result.RunStart.Format("2006-01-02 15:04:05"))
	}
	if result.QualifyingDays > 0 {
		metrics += fmt.Sprintf(", qualifying days: %d", result.QualifyingDays)
	}
	if result.TotalHours > 0 || result.LongestMinutes > 0 {
		metrics += fmt.Sprintf(", total hours: %.2f, longest minutes: %.2f",
			result.TotalHours, result.LongestMinutes)
	}
	if result.SkippedEvents > 0 {
		metrics += fmt.Sprintf(", skipped events: %d", result.SkippedEvents)
	}
	return metrics
}
