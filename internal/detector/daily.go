package detector

import (
	"time"

	"click-analyser/internal/event"
)

// BucketByDay partitions a sequence by the calendar day of each click's
// start. Iteration order of the buckets is not significant; only the
// count of qualifying days feeds the classification.
func BucketByDay(seq []event.Click) map[string][]event.Click {
	buckets := make(map[string][]event.Click)
	for _, click := range seq {
		day := click.Day()
		buckets[day] = append(buckets[day], click)
	}
	return buckets
}

// QualifyingDays counts the days whose clicks, scanned on their own,
// cross the continuous-duration threshold. A day with fewer than two
// clicks can never qualify.
func QualifyingDays(seq []event.Click, gapThreshold, durationThreshold time.Duration) int {
	qualifying := 0
	for _, clicks := range BucketByDay(seq) {
		event.SortByStart(clicks)
		if _, crossed := ScanContinuous(clicks, gapThreshold, durationThreshold); crossed {
			qualifying++
		}
	}
	return qualifying
}
