// Package main provides the command-line client.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"

	"github.com/osa030/ytlength/internal/app/aggregator"
	"github.com/osa030/ytlength/internal/app/projection"
	"github.com/osa030/ytlength/internal/domain/duration"
	"github.com/osa030/ytlength/internal/domain/playlist"
	"github.com/osa030/ytlength/internal/infra/credential"
	"github.com/osa030/ytlength/internal/infra/youtube"
)

var (
	app       = kingpin.New("ytlencli", "YouTube playlist length calculator")
	storeType = app.Flag("store", "Credential store backend (file or keyring)").Default("file").Enum("file", "keyring")
	storePath = app.Flag("store-path", "Key file path for the file store").String()

	// calculate command
	calculateCmd     = app.Command("calculate", "Calculate the total duration of a playlist or video")
	calculateURL     = calculateCmd.Arg("url", "YouTube playlist or video URL").Required().String()
	calculateKey     = calculateCmd.Flag("api-key", "YouTube API key (overrides the stored key)").String()
	calculateSpeed   = calculateCmd.Flag("speed", "Playback speed multiplier").Default("1").Float64()
	calculateDaily   = calculateCmd.Flag("daily-minutes", "Daily watch-time budget in minutes").Default("60").Int()
	calculateExclude = calculateCmd.Flag("exclude", "Video ID to leave out (repeatable)").Strings()
	calculateJSON    = calculateCmd.Flag("json", "Print the aggregate as JSON").Bool()

	// key command
	keyCmd      = app.Command("key", "Manage the stored API key")
	keySetCmd   = keyCmd.Command("set", "Store an API key")
	keySetValue = keySetCmd.Arg("value", "The API key").Required().String()
	keyShowCmd  = keyCmd.Command("show", "Print the stored API key")
	keyClearCmd = keyCmd.Command("clear", "Remove the stored API key")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	store, err := newStore()
	if err != nil {
		fatal(err)
	}

	switch command {
	case calculateCmd.FullCommand():
		calculate(store)
	case keySetCmd.FullCommand():
		if err := store.Save(*keySetValue); err != nil {
			fatal(err)
		}
		fmt.Println("API key stored.")
	case keyShowCmd.FullCommand():
		key, err := store.Load()
		if err != nil {
			fatal(err)
		}
		fmt.Println(key)
	case keyClearCmd.FullCommand():
		if err := store.Clear(); err != nil {
			fatal(err)
		}
		fmt.Println("API key cleared.")
	}
}

func newStore() (credential.Store, error) {
	cfg := credential.Config{Type: *storeType}
	if *storePath != "" {
		cfg.Settings = map[string]any{"path": *storePath}
	}
	return credential.NewStoreFromConfig(cfg)
}

func calculate(store credential.Store) {
	apiKey := resolveKey(store)

	client := youtube.New(youtube.Config{Timeout: 10 * time.Second})
	svc := aggregator.NewService(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	agg, err := svc.Calculate(ctx, *calculateURL, apiKey)
	if err != nil {
		fatal(err)
	}

	if *calculateJSON {
		printJSON(agg)
		return
	}
	printReport(agg)
}

// resolveKey prefers the explicit flag, then the environment, then the store.
func resolveKey(store credential.Store) string {
	if *calculateKey != "" {
		return *calculateKey
	}
	if key := os.Getenv("YOUTUBE_API_KEY"); key != "" {
		return key
	}
	key, err := store.Load()
	if err != nil && !errors.Is(err, credential.ErrNotFound) {
		fatal(err)
	}
	return key
}

func printReport(agg *playlist.Aggregate) {
	total := agg.TotalDurationSeconds()

	fmt.Printf("Playlist: %s\n", agg.Title)
	fmt.Printf("Videos:   %d\n", len(agg.Videos))
	fmt.Printf("Total:    %s\n", duration.Format(float64(total)))

	if len(*calculateExclude) > 0 {
		excluded := make(map[string]struct{}, len(*calculateExclude))
		for _, id := range *calculateExclude {
			excluded[id] = struct{}{}
		}
		subtotal := projection.ExcludedSubsetTotal(agg.Videos, excluded)
		fmt.Printf("Selected: %s (%d excluded)\n",
			duration.Format(float64(subtotal)), len(*calculateExclude))
		total = subtotal
	}

	report, err := projection.Project(projection.Inputs{
		TotalDurationSeconds: total,
		Speed:                projection.Speed(*calculateSpeed),
		DailyWatchMinutes:    *calculateDaily,
		VideoCount:           len(agg.Videos),
	}, time.Now())
	if err != nil {
		fatal(err)
	}

	fmt.Println()
	fmt.Printf("At %gx speed:       %s\n", *calculateSpeed, duration.Format(report.AdjustedSeconds))
	fmt.Printf("Daily budget:      %d minutes\n", *calculateDaily)
	fmt.Printf("Days needed:       %d\n", report.DaysNeeded)
	fmt.Printf("Completion date:   %s\n", report.CompletionDate.Format("2006-01-02"))
	fmt.Printf("Videos per day:    ~%d\n", report.VideosPerDay)
}

func printJSON(agg *playlist.Aggregate) {
	type videoJSON struct {
		ID              string `json:"id"`
		Title           string `json:"title"`
		DurationSeconds int    `json:"durationSeconds"`
		ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
	}

	out := struct {
		Title                string      `json:"title"`
		TotalDurationSeconds int         `json:"totalDurationSeconds"`
		Videos               []videoJSON `json:"videos"`
	}{
		Title:                agg.Title,
		TotalDurationSeconds: agg.TotalDurationSeconds(),
		Videos:               make([]videoJSON, len(agg.Videos)),
	}
	for i, v := range agg.Videos {
		out.Videos[i] = videoJSON{
			ID:              v.ID,
			Title:           v.Title,
			DurationSeconds: v.DurationSeconds,
			ThumbnailURL:    v.ThumbnailURL,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(data))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
