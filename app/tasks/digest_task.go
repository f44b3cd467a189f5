package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/lysyi3m/feed-digest/app/feed"
	"github.com/lysyi3m/feed-digest/app/report"
)

// DigestOptions selects what a DigestTask reports on.
type DigestOptions struct {
	FeedURL    string
	Days       int
	Category   string
	SourceName string
	Version    string
	Location   *time.Location
}

var _ TaskInterface = (*DigestTask)(nil)

type DigestTask struct {
	Task
	Options  DigestOptions
	fetcher  *feed.Fetcher
	filterer *feed.Filterer
	now      func() time.Time

	// Digest is set once Execute succeeds.
	Digest *report.Digest
}

func NewDigestTask(options DigestOptions, fetcher *feed.Fetcher, filterer *feed.Filterer) *DigestTask {
	return &DigestTask{
		Task:     NewTask(TaskTypeBuildDigest, options.FeedURL),
		Options:  options,
		fetcher:  fetcher,
		filterer: filterer,
		now:      time.Now,
	}
}

// Execute fetches the feed once and filters it. Errors are one of the
// feed error types.
func (t *DigestTask) Execute(ctx context.Context) error {
	t.Start()

	select {
	case <-ctx.Done():
		return &feed.FetchError{URL: t.FeedURL, Err: ctx.Err()}
	default:
	}

	data, err := t.fetcher.Run(ctx, t.Options.FeedURL)
	if err != nil {
		return err
	}

	now := t.now()
	result, err := t.filterer.Run(data, t.Options.Days, t.Options.Category, now)
	if err != nil {
		return feed.Classify(err)
	}

	feedLink := t.Options.FeedURL
	if result.Feed != nil && result.Feed.Link != "" {
		feedLink = result.Feed.Link
	}

	t.Digest = &report.Digest{
		Result:      result,
		Days:        t.Options.Days,
		Category:    t.Options.Category,
		SourceName:  t.Options.SourceName,
		FeedURL:     t.Options.FeedURL,
		FeedLink:    feedLink,
		Version:     t.Options.Version,
		GeneratedAt: now,
		Location:    t.Options.Location,
	}

	slog.Info("Task completed",
		"type", t.Type,
		"id", t.ID,
		"feed", t.FeedURL,
		"duration", t.GetDuration(),
		"total", result.TotalEntries,
		"recent", result.RecentEntries,
		"matching", len(result.MatchingEntries))

	return nil
}
