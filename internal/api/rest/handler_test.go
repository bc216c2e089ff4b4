package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/ytlength/internal/app/aggregator"
	"github.com/osa030/ytlength/internal/domain/playlist"
	"github.com/osa030/ytlength/internal/domain/video"
)

type fakeCalculator struct {
	gotURL string
	gotKey string
	agg    *playlist.Aggregate
	err    error
}

func (f *fakeCalculator) Calculate(_ context.Context, rawURL, apiKey string) (*playlist.Aggregate, error) {
	f.gotURL = rawURL
	f.gotKey = apiKey
	return f.agg, f.err
}

type fakeStore struct {
	key string
	err error
}

func (s *fakeStore) Load() (string, error) { return s.key, s.err }
func (s *fakeStore) Save(string) error     { return nil }
func (s *fakeStore) Clear() error          { return nil }

func doRequest(t *testing.T, h *Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.Register(e)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCalculateDuration(t *testing.T) {
	calc := &fakeCalculator{
		agg: playlist.New("Go Course", []video.Entry{
			{ID: "vid-1", Title: "Intro", DurationSeconds: 90, ThumbnailURL: "thumb.jpg"},
			{ID: "vid-2", Title: "Basics", DurationSeconds: 3600},
		}),
	}
	h := NewHandler(calc, nil, "server-key")

	rec := doRequest(t, h, http.MethodPost, "/api/v1/playlist/duration",
		`{"url": "https://www.youtube.com/playlist?list=PL1", "apiKey": "client-key"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://www.youtube.com/playlist?list=PL1", calc.gotURL)
	assert.Equal(t, "client-key", calc.gotKey)

	var resp durationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Go Course", resp.Title)
	assert.Equal(t, 2, resp.VideoCount)
	assert.Equal(t, 3690, resp.TotalDurationSeconds)
	assert.Equal(t, "1:01:30", resp.TotalDuration)
	require.Len(t, resp.Videos, 2)
	assert.Equal(t, "1:30", resp.Videos[0].Duration)
	assert.Equal(t, "1:00:00", resp.Videos[1].Duration)
}

func TestCalculateDuration_KeyResolutionOrder(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		store     *fakeStore
		expectKey string
	}{
		{
			name:      "request key wins",
			body:      `{"url": "https://youtu.be/abc", "apiKey": "client-key"}`,
			store:     &fakeStore{key: "stored-key"},
			expectKey: "client-key",
		},
		{
			name:      "stored key beats fallback",
			body:      `{"url": "https://youtu.be/abc"}`,
			store:     &fakeStore{key: "stored-key"},
			expectKey: "stored-key",
		},
		{
			name:      "fallback when store is empty",
			body:      `{"url": "https://youtu.be/abc"}`,
			store:     &fakeStore{err: errors.New("no stored API key")},
			expectKey: "server-key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := &fakeCalculator{agg: playlist.New("X", nil)}
			h := NewHandler(calc, tt.store, "server-key")

			rec := doRequest(t, h, http.MethodPost, "/api/v1/playlist/duration", tt.body)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.expectKey, calc.gotKey)
		})
	}
}

func TestCalculateDuration_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "invalid input",
			err:        errors.Mark(errors.New("invalid YouTube URL"), aggregator.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not found",
			err:        errors.Mark(errors.New("playlist PL1 not found or is private"), aggregator.ErrNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "remote api error",
			err:        errors.Mark(errors.New("quotaExceeded"), aggregator.ErrRemoteAPI),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "malformed response",
			err:        errors.Mark(errors.New("no items array"), aggregator.ErrMalformedResponse),
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeCalculator{err: tt.err}, nil, "server-key")

			rec := doRequest(t, h, http.MethodPost, "/api/v1/playlist/duration",
				`{"url": "https://www.youtube.com/playlist?list=PL1"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCalculateDuration_MissingURL(t *testing.T) {
	h := NewHandler(&fakeCalculator{}, nil, "")

	rec := doRequest(t, h, http.MethodPost, "/api/v1/playlist/duration", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectCompletion(t *testing.T) {
	h := NewHandler(&fakeCalculator{}, nil, "")

	rec := doRequest(t, h, http.MethodPost, "/api/v1/playlist/projection",
		`{"totalDurationSeconds": 7200, "playbackSpeed": 2, "dailyWatchMinutes": 30, "videoCount": 10}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp projectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 3600, resp.AdjustedDurationSeconds, 1e-9)
	assert.Equal(t, "1:00:00", resp.AdjustedDuration)
	assert.Equal(t, 2, resp.DaysNeeded)
	assert.Equal(t, 5, resp.VideosPerDay)
	assert.Equal(t, time.Now().AddDate(0, 0, 2).Format("2006-01-02"), resp.CompletionDate)
}

func TestProjectCompletion_RejectsUnsupportedSpeed(t *testing.T) {
	h := NewHandler(&fakeCalculator{}, nil, "")

	rec := doRequest(t, h, http.MethodPost, "/api/v1/playlist/projection",
		`{"totalDurationSeconds": 3600, "playbackSpeed": 3, "dailyWatchMinutes": 30}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	h := NewHandler(&fakeCalculator{}, nil, "")

	rec := doRequest(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
