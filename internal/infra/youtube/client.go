// Package youtube provides a client for the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// pageSize is the maximum number of playlist items per listing request.
const pageSize = 50

var (
	// ErrNotFound indicates a lookup that yielded no remote record.
	ErrNotFound = errors.New("resource not found")
	// ErrMalformedResponse indicates a response missing an expected items array.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is an explicit error envelope returned by the remote service.
// The message is passed through verbatim.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client is a YouTube Data API v3 client. The API key is supplied per call
// because the key belongs to the request, not the process.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config represents YouTube client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Video represents a video record from the videos endpoint.
type Video struct {
	ID           string
	Title        string
	Duration     string // ISO-8601, empty unless content details were requested
	ThumbnailURL string
	PlaylistID   string // Playlist the video belongs to, if the snippet reports one
}

// Playlist represents a playlist record from the playlists endpoint.
type Playlist struct {
	ID    string
	Title string
}

// ItemsPage represents one page of a playlist item listing.
type ItemsPage struct {
	VideoIDs      []string
	NextPageToken string
}

// New creates a new YouTube Data API client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/youtube/v3"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type errorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type videoResource struct {
	ID      string `json:"id"`
	Snippet struct {
		Title      string `json:"title"`
		PlaylistID string `json:"playlistId"`
		Thumbnails struct {
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
}

// Items is a pointer so an absent array can be told apart from an empty one:
// the former is a malformed response, the latter a legitimate empty result.
type videoListResponse struct {
	Items *[]videoResource `json:"items"`
}

type playlistListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         *[]struct {
		Snippet struct {
			ResourceID struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

// GetVideo retrieves a video's snippet metadata, including the playlist the
// remote service associates with it, if any.
func (c *Client) GetVideo(ctx context.Context, apiKey, videoID string) (*Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", videoID)

	var response videoListResponse
	if err := c.get(ctx, "videos", apiKey, params, &response); err != nil {
		return nil, err
	}
	if response.Items == nil || len(*response.Items) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "video %s", videoID)
	}

	return convertVideo((*response.Items)[0]), nil
}

// ListVideos retrieves snippet and content details for all given video IDs
// in a single batched request, preserving the order returned by the remote
// service.
func (c *Client) ListVideos(ctx context.Context, apiKey string, videoIDs []string) ([]Video, error) {
	params := url.Values{}
	params.Set("part", "contentDetails,snippet")
	params.Set("id", strings.Join(videoIDs, ","))

	var response videoListResponse
	if err := c.get(ctx, "videos", apiKey, params, &response); err != nil {
		return nil, err
	}
	if response.Items == nil {
		return nil, errors.Wrap(ErrMalformedResponse, "videos listing has no items array")
	}

	videos := make([]Video, 0, len(*response.Items))
	for _, item := range *response.Items {
		videos = append(videos, *convertVideo(item))
	}
	return videos, nil
}

// GetPlaylist retrieves playlist metadata by ID. A listing with no items
// covers deleted and private playlists and yields ErrNotFound.
func (c *Client) GetPlaylist(ctx context.Context, apiKey, playlistID string) (*Playlist, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", playlistID)

	var response playlistListResponse
	if err := c.get(ctx, "playlists", apiKey, params, &response); err != nil {
		return nil, err
	}
	if len(response.Items) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "playlist %s", playlistID)
	}

	return &Playlist{
		ID:    response.Items[0].ID,
		Title: response.Items[0].Snippet.Title,
	}, nil
}

// ListPlaylistItems retrieves one page of a playlist's item listing. Pass the
// previous page's NextPageToken to continue; an empty token in the returned
// page ends the listing. Items with no resolvable video ID are skipped.
func (c *Client) ListPlaylistItems(ctx context.Context, apiKey, playlistID, pageToken string) (*ItemsPage, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("maxResults", strconv.Itoa(pageSize))
	params.Set("playlistId", playlistID)
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var response playlistItemsResponse
	if err := c.get(ctx, "playlistItems", apiKey, params, &response); err != nil {
		return nil, err
	}
	if response.Items == nil {
		return nil, errors.Wrap(ErrMalformedResponse, "playlist item listing has no items array")
	}

	page := &ItemsPage{
		VideoIDs:      make([]string, 0, len(*response.Items)),
		NextPageToken: response.NextPageToken,
	}
	for _, item := range *response.Items {
		if id := item.Snippet.ResourceID.VideoID; id != "" {
			page.VideoIDs = append(page.VideoIDs, id)
		}
	}

	zlog.Debug().Msgf("fetched playlist item page: playlist=%s items=%d next_token=%q",
		playlistID, len(page.VideoIDs), page.NextPageToken)

	return page, nil
}

// get performs a keyed GET against the given endpoint, surfaces the remote
// error envelope if present, and unmarshals a successful body into out.
func (c *Client) get(ctx context.Context, endpoint, apiKey string, params url.Values, out any) error {
	params.Set("key", apiKey)
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	// Check for the remote error envelope before decoding
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		message := envelope.Error.Message
		if message == "" {
			message = "YouTube API Error"
		}
		return &APIError{Message: message}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(ErrMalformedResponse, "failed to parse %s response: %v", endpoint, err)
	}

	return nil
}

func convertVideo(item videoResource) *Video {
	return &Video{
		ID:           item.ID,
		Title:        item.Snippet.Title,
		Duration:     item.ContentDetails.Duration,
		ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
		PlaylistID:   item.Snippet.PlaylistID,
	}
}
