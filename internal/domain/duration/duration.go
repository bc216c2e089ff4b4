// Package duration converts between ISO-8601 video durations and seconds.
package duration

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// iso8601 matches durations of the form PT#H#M#S. Any of the three
// components may be absent.
var iso8601 = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISO8601 converts an ISO-8601 duration string (e.g. "PT1H30M15S") to
// seconds. Malformed input yields 0 rather than an error: the remote service
// reports durations this codec cannot read for live streams and upcoming
// premieres, and a zero-length entry keeps the rest of the aggregate usable.
func ParseISO8601(text string) int {
	matches := iso8601.FindStringSubmatch(text)
	if matches == nil {
		return 0
	}

	hours := atoiOrZero(matches[1])
	minutes := atoiOrZero(matches[2])
	seconds := atoiOrZero(matches[3])

	return hours*3600 + minutes*60 + seconds
}

// Format renders a seconds count as "H:MM:SS" when at least an hour long,
// otherwise "M:SS". Fractional seconds are truncated. Negative input is a
// contract violation; callers must not pass it.
func Format(seconds float64) string {
	total := int(math.Floor(seconds))
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
