// Package rest exposes the aggregation and projection operations as a JSON API.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/ytlength/internal/app/aggregator"
	"github.com/osa030/ytlength/internal/app/projection"
	"github.com/osa030/ytlength/internal/domain/duration"
	"github.com/osa030/ytlength/internal/domain/playlist"
	"github.com/osa030/ytlength/internal/infra/credential"
)

// Calculator reduces a URL and an API key to a playlist aggregate.
type Calculator interface {
	Calculate(ctx context.Context, rawURL, apiKey string) (*playlist.Aggregate, error)
}

// Handler serves the playlist duration API.
type Handler struct {
	calc        Calculator
	store       credential.Store
	fallbackKey string
}

// NewHandler creates a new API handler. store may be nil when no credential
// persistence is configured; fallbackKey is the server-side key used when a
// request carries none.
func NewHandler(calc Calculator, store credential.Store, fallbackKey string) *Handler {
	return &Handler{
		calc:        calc,
		store:       store,
		fallbackKey: fallbackKey,
	}
}

// Register attaches all routes to the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.health)
	e.POST("/api/v1/playlist/duration", h.calculateDuration)
	e.POST("/api/v1/playlist/projection", h.projectCompletion)
}

type durationRequest struct {
	URL    string `json:"url"`
	APIKey string `json:"apiKey,omitempty"`
}

type videoEntry struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"durationSeconds"`
	Duration        string `json:"duration"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
}

type durationResponse struct {
	Title                string       `json:"title"`
	VideoCount           int          `json:"videoCount"`
	TotalDurationSeconds int          `json:"totalDurationSeconds"`
	TotalDuration        string       `json:"totalDuration"`
	Videos               []videoEntry `json:"videos"`
}

func (h *Handler) calculateDuration(c echo.Context) error {
	var req durationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not parse request body")
	}
	if req.URL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url is required")
	}

	agg, err := h.calc.Calculate(c.Request().Context(), req.URL, h.resolveKey(req.APIKey))
	if err != nil {
		zlog.Warn().Msgf("aggregation failed: url=%s err=%v", req.URL, err)
		return echo.NewHTTPError(httpStatus(err), err.Error())
	}

	return c.JSON(http.StatusOK, toDurationResponse(agg))
}

type projectionRequest struct {
	TotalDurationSeconds int     `json:"totalDurationSeconds"`
	PlaybackSpeed        float64 `json:"playbackSpeed"`
	DailyWatchMinutes    int     `json:"dailyWatchMinutes"`
	VideoCount           int     `json:"videoCount"`
}

type projectionResponse struct {
	AdjustedDurationSeconds float64 `json:"adjustedDurationSeconds"`
	AdjustedDuration        string  `json:"adjustedDuration"`
	DaysNeeded              int     `json:"daysNeeded"`
	CompletionDate          string  `json:"completionDate"`
	VideosPerDay            int     `json:"videosPerDay"`
}

func (h *Handler) projectCompletion(c echo.Context) error {
	var req projectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not parse request body")
	}
	if req.TotalDurationSeconds < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "totalDurationSeconds must not be negative")
	}

	report, err := projection.Project(projection.Inputs{
		TotalDurationSeconds: req.TotalDurationSeconds,
		Speed:                projection.Speed(req.PlaybackSpeed),
		DailyWatchMinutes:    req.DailyWatchMinutes,
		VideoCount:           req.VideoCount,
	}, time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, projectionResponse{
		AdjustedDurationSeconds: report.AdjustedSeconds,
		AdjustedDuration:        duration.Format(report.AdjustedSeconds),
		DaysNeeded:              report.DaysNeeded,
		CompletionDate:          report.CompletionDate.Format("2006-01-02"),
		VideosPerDay:            report.VideosPerDay,
	})
}

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// resolveKey picks the API key for one request: the request's own key wins,
// then the stored credential, then the server-side fallback.
func (h *Handler) resolveKey(requestKey string) string {
	if requestKey != "" {
		return requestKey
	}
	if h.store != nil {
		if key, err := h.store.Load(); err == nil {
			return key
		}
	}
	return h.fallbackKey
}

// httpStatus maps aggregation error kinds to response codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, aggregator.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, aggregator.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, aggregator.ErrRemoteAPI),
		errors.Is(err, aggregator.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func toDurationResponse(agg *playlist.Aggregate) durationResponse {
	videos := make([]videoEntry, len(agg.Videos))
	for i, v := range agg.Videos {
		videos[i] = videoEntry{
			ID:              v.ID,
			Title:           v.Title,
			DurationSeconds: v.DurationSeconds,
			Duration:        duration.Format(float64(v.DurationSeconds)),
			ThumbnailURL:    v.ThumbnailURL,
		}
	}

	total := agg.TotalDurationSeconds()
	return durationResponse{
		Title:                agg.Title,
		VideoCount:           len(agg.Videos),
		TotalDurationSeconds: total,
		TotalDuration:        duration.Format(float64(total)),
		Videos:               videos,
	}
}
