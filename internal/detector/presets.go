package detector

import (
	"fmt"
	"time"
)

// Presets are the threshold sets the click exporters were historically
// analysed with, selectable by name. They carry no special status; any
// deployment can configure its own thresholds instead.
var presets = map[string]Policy{
	"continuous-9m-5h": SingleRun{
		GapThreshold:      9 * time.Minute,
		DurationThreshold: 5 * time.Hour,
	},
	"daily-45m-5h-2d": MultiDay{
		GapThreshold:      45 * time.Minute,
		DurationThreshold: 5 * time.Hour,
		MinQualifyingDays: 2,
	},
	"span-8h-and-20m": SpanAndPeak{
		TotalThreshold:   8 * time.Hour,
		LongestThreshold: 20 * time.Minute,
		Combine:          CombineAnd,
		Malformed:        MalformedSkip,
	},
	"span-8h-or-60m": SpanAndPeak{
		TotalThreshold:   8 * time.Hour,
		LongestThreshold: 60 * time.Minute,
		Combine:          CombineOr,
		Malformed:        MalformedSkip,
	},
}

func Preset(name string) (Policy, error) {
	policy, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: no preset %q", ErrUnknownPolicy, name)
	}
	return policy, nil
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
