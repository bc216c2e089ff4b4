// Package video provides the video entry domain entity.
package video

// Entry represents a single video as reported by the remote listing.
// Immutable once constructed from remote data.
type Entry struct {
	ID              string // YouTube video ID
	Title           string // Video title
	DurationSeconds int    // Length in seconds (0 when the remote duration was unreadable)
	ThumbnailURL    string // Medium thumbnail URL
}
