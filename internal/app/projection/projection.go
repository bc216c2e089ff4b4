// Package projection derives watch-time metrics from a playlist aggregate.
// Every function is a pure, deterministic function of its inputs.
package projection

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/ytlength/internal/domain/video"
)

// Speed is a playback speed multiplier drawn from the player's fixed set.
type Speed float64

// Speeds enumerates the selectable playback speeds.
var Speeds = []Speed{0.5, 0.75, 1, 1.25, 1.5, 1.75, 2}

// Valid reports whether the speed is one of the selectable multipliers.
func (s Speed) Valid() bool {
	for _, candidate := range Speeds {
		if s == candidate {
			return true
		}
	}
	return false
}

// SpeedAdjusted scales a duration by the playback speed.
func SpeedAdjusted(totalSeconds int, speed Speed) float64 {
	return float64(totalSeconds) / float64(speed)
}

// ExcludedSubsetTotal sums the durations of all videos whose ID is not in
// excludedIDs. The exclusion set is transient caller state, never part of
// the aggregate.
func ExcludedSubsetTotal(videos []video.Entry, excludedIDs map[string]struct{}) int {
	var total int
	for _, v := range videos {
		if _, excluded := excludedIDs[v.ID]; !excluded {
			total += v.DurationSeconds
		}
	}
	return total
}

// DaysToComplete returns how many calendar days a viewer needs at the given
// daily budget. Budgets below one minute are clamped to one.
func DaysToComplete(adjustedSeconds float64, dailyMinutes int) int {
	if dailyMinutes < 1 {
		dailyMinutes = 1
	}
	totalMinutes := adjustedSeconds / 60
	return int(math.Ceil(totalMinutes / float64(dailyMinutes)))
}

// CompletionDate returns the calendar date daysNeeded days after from,
// in from's location.
func CompletionDate(from time.Time, daysNeeded int) time.Time {
	return from.AddDate(0, 0, daysNeeded)
}

// AverageVideosPerDay returns how many videos per day the viewer gets
// through, rounded up. Zero days (an already-complete playlist) yields zero.
func AverageVideosPerDay(videoCount, daysNeeded int) int {
	if daysNeeded <= 0 {
		return 0
	}
	return (videoCount + daysNeeded - 1) / daysNeeded
}

// Inputs carries one projection request. All fields are transient UI
// selections, recomputed per interaction.
type Inputs struct {
	TotalDurationSeconds int
	Speed                Speed
	DailyWatchMinutes    int
	VideoCount           int
}

// Report is the completion estimate derived from one set of Inputs.
type Report struct {
	AdjustedSeconds float64
	DaysNeeded      int
	CompletionDate  time.Time
	VideosPerDay    int
}

// Project derives a full completion estimate, anchored at from.
func Project(in Inputs, from time.Time) (Report, error) {
	if !in.Speed.Valid() {
		return Report{}, errors.Newf("unsupported playback speed: %v", float64(in.Speed))
	}

	adjusted := SpeedAdjusted(in.TotalDurationSeconds, in.Speed)
	days := DaysToComplete(adjusted, in.DailyWatchMinutes)

	return Report{
		AdjustedSeconds: adjusted,
		DaysNeeded:      days,
		CompletionDate:  CompletionDate(from, days),
		VideosPerDay:    AverageVideosPerDay(in.VideoCount, days),
	}, nil
}
