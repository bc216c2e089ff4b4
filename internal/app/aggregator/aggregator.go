// Package aggregator reduces a YouTube URL to a playlist duration aggregate.
package aggregator

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/ytlength/internal/domain/duration"
	"github.com/osa030/ytlength/internal/domain/playlist"
	"github.com/osa030/ytlength/internal/domain/video"
	"github.com/osa030/ytlength/internal/infra/youtube"
)

// maxPages bounds the continuation-token chain so a remote service that
// never stops returning tokens cannot keep the pipeline alive forever.
// 200 pages of 50 items is double YouTube's own playlist size limit.
const maxPages = 200

// API is the subset of the YouTube Data API the aggregator depends on.
type API interface {
	GetVideo(ctx context.Context, apiKey, videoID string) (*youtube.Video, error)
	ListVideos(ctx context.Context, apiKey string, videoIDs []string) ([]youtube.Video, error)
	GetPlaylist(ctx context.Context, apiKey, playlistID string) (*youtube.Playlist, error)
	ListPlaylistItems(ctx context.Context, apiKey, playlistID, pageToken string) (*youtube.ItemsPage, error)
}

// Service orchestrates the remote lookups behind one aggregation request.
// Each call builds its own accumulator; a Service is safe for concurrent use.
type Service struct {
	api API
}

// NewService creates a new aggregation service.
func NewService(api API) *Service {
	return &Service{api: api}
}

// Calculate resolves the URL to a playlist (or single video), collects every
// item's duration, and returns the aggregate. No step is retried; the first
// failure aborts the pipeline with one of the package error kinds.
func (s *Service) Calculate(ctx context.Context, rawURL, apiKey string) (*playlist.Aggregate, error) {
	if apiKey == "" {
		return nil, errors.Mark(errors.New("YouTube API key is not configured"), ErrInvalidInput)
	}
	if !youtube.IsValidURL(rawURL) {
		return nil, errors.Mark(errors.Newf("invalid YouTube URL: %s", rawURL), ErrInvalidInput)
	}

	playlistID := youtube.ExtractPlaylistID(rawURL)

	// A plain video URL may still lead to a playlist: the remote snippet can
	// name the playlist the video belongs to. A video without one becomes a
	// one-element aggregate.
	if playlistID == "" {
		if videoID := youtube.ExtractVideoID(rawURL); videoID != "" {
			v, err := s.api.GetVideo(ctx, apiKey, videoID)
			switch {
			case err == nil && v.PlaylistID != "":
				playlistID = v.PlaylistID
			case err == nil:
				return s.singleVideo(ctx, apiKey, videoID)
			case errors.Is(err, youtube.ErrNotFound):
				// fall through to the no-identifier failure below
			default:
				return nil, s.classify(err)
			}
		}
	}

	if playlistID == "" {
		return nil, errors.Mark(errors.New("could not find a valid playlist ID"), ErrNotFound)
	}

	info, err := s.api.GetPlaylist(ctx, apiKey, playlistID)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return nil, errors.Mark(errors.Newf("playlist %s not found or is private", playlistID), ErrNotFound)
		}
		return nil, s.classify(err)
	}

	videoIDs, err := s.collectVideoIDs(ctx, apiKey, playlistID)
	if err != nil {
		return nil, err
	}

	// An exhausted listing with no items is a legitimate zero aggregate,
	// distinct from the playlist itself being missing.
	if len(videoIDs) == 0 {
		return playlist.New(info.Title, []video.Entry{}), nil
	}

	remote, err := s.api.ListVideos(ctx, apiKey, videoIDs)
	if err != nil {
		return nil, s.classify(err)
	}
	if len(remote) == 0 {
		return nil, errors.Mark(errors.New("failed to fetch video durations"), ErrNotFound)
	}

	entries := make([]video.Entry, 0, len(remote))
	for _, v := range remote {
		entries = append(entries, toEntry(v))
	}

	agg := playlist.New(info.Title, entries)
	zlog.Debug().Msgf("aggregated playlist: id=%s videos=%d total_sec=%d",
		playlistID, len(agg.Videos), agg.TotalDurationSeconds())
	return agg, nil
}

// collectVideoIDs pages through the playlist's item listing until the remote
// service stops returning continuation tokens.
func (s *Service) collectVideoIDs(ctx context.Context, apiKey, playlistID string) ([]string, error) {
	var videoIDs []string
	pageToken := ""

	for page := 0; ; page++ {
		if page >= maxPages {
			return nil, errors.Mark(
				errors.Newf("playlist listing did not terminate after %d pages", maxPages), ErrRemoteAPI)
		}

		p, err := s.api.ListPlaylistItems(ctx, apiKey, playlistID, pageToken)
		if err != nil {
			return nil, s.classify(err)
		}

		videoIDs = append(videoIDs, p.VideoIDs...)
		if p.NextPageToken == "" {
			return videoIDs, nil
		}
		pageToken = p.NextPageToken
	}
}

// singleVideo short-circuits the pipeline into a one-element aggregate.
func (s *Service) singleVideo(ctx context.Context, apiKey, videoID string) (*playlist.Aggregate, error) {
	remote, err := s.api.ListVideos(ctx, apiKey, []string{videoID})
	if err != nil {
		return nil, s.classify(err)
	}
	if len(remote) == 0 {
		return nil, errors.Mark(errors.Newf("video %s not found", videoID), ErrNotFound)
	}

	entry := toEntry(remote[0])
	return playlist.New(entry.Title, []video.Entry{entry}), nil
}

// classify maps client errors onto the package error kinds, keeping the
// original message intact.
func (s *Service) classify(err error) error {
	switch {
	case errors.Is(err, youtube.ErrNotFound):
		return errors.Mark(err, ErrNotFound)
	case errors.Is(err, youtube.ErrMalformedResponse):
		return errors.Mark(err, ErrMalformedResponse)
	default:
		return errors.Mark(err, ErrRemoteAPI)
	}
}

func toEntry(v youtube.Video) video.Entry {
	return video.Entry{
		ID:              v.ID,
		Title:           v.Title,
		DurationSeconds: duration.ParseISO8601(v.Duration),
		ThumbnailURL:    v.ThumbnailURL,
	}
}
