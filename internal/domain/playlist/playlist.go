// Package playlist provides the playlist aggregate domain entity.
package playlist

import "github.com/osa030/ytlength/internal/domain/video"

// Aggregate represents a playlist reduced to its duration summary.
// The total is always derived from Videos, never stored separately.
type Aggregate struct {
	Title  string        // Playlist title (or video title for a single-video aggregate)
	Videos []video.Entry // Entries in remote listing order
}

// New builds an Aggregate from remote entries.
func New(title string, videos []video.Entry) *Aggregate {
	return &Aggregate{
		Title:  title,
		Videos: videos,
	}
}

// TotalDurationSeconds returns the sum of all entry durations.
func (a *Aggregate) TotalDurationSeconds() int {
	var total int
	for _, v := range a.Videos {
		total += v.DurationSeconds
	}
	return total
}

// VideoIDs returns all video IDs in listing order.
func (a *Aggregate) VideoIDs() []string {
	ids := make([]string, len(a.Videos))
	for i, v := range a.Videos {
		ids[i] = v.ID
	}
	return ids
}
