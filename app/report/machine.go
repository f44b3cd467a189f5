package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/lysyi3m/feed-digest/app/cfg"
	"github.com/lysyi3m/feed-digest/app/feed"
)

type JSONPresenter struct{}

func NewJSONPresenter() *JSONPresenter {
	return &JSONPresenter{}
}

// Document is the JSON shape of a digest, shared with the HTTP API.
type Document struct {
	GeneratedAt     time.Time    `json:"generated_at"`
	Source          string       `json:"source"`
	FeedURL         string       `json:"feed_url"`
	Category        string       `json:"category"`
	Days            int          `json:"days"`
	Cutoff          time.Time    `json:"cutoff"`
	TotalEntries    int          `json:"total_entries"`
	RecentEntries   int          `json:"recent_entries"`
	MatchingCount   int          `json:"matching_count"`
	MatchingEntries []feed.Entry `json:"matching_entries"`
}

func NewDocument(digest Digest) Document {
	entries := make([]feed.Entry, 0, len(digest.Result.MatchingEntries))
	for _, entry := range digest.Result.MatchingEntries {
		entry.PublishedAt = digest.localize(entry.PublishedAt)
		entries = append(entries, entry)
	}

	return Document{
		GeneratedAt:     digest.GeneratedAt,
		Source:          digest.SourceName,
		FeedURL:         digest.FeedURL,
		Category:        digest.Category,
		Days:            digest.Days,
		Cutoff:          digest.localize(digest.Result.Cutoff),
		TotalEntries:    digest.Result.TotalEntries,
		RecentEntries:   digest.Result.RecentEntries,
		MatchingCount:   len(entries),
		MatchingEntries: entries,
	}
}

func (p *JSONPresenter) Render(w io.Writer, digest Digest) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(NewDocument(digest)); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

type RSSPresenter struct {
	generator *feed.Generator
}

func NewRSSPresenter() *RSSPresenter {
	return &RSSPresenter{generator: feed.NewGenerator()}
}

func (p *RSSPresenter) Render(w io.Writer, digest Digest) error {
	rss, err := p.generator.Run(Channel(digest), digest.Result.MatchingEntries)
	if err != nil {
		return fmt.Errorf("failed to generate RSS: %w", err)
	}

	_, err = io.WriteString(w, rss)
	return err
}

// Channel describes the digest as an RSS channel.
func Channel(digest Digest) feed.Channel {
	return feed.Channel{
		Title:       fmt.Sprintf("%s: %s", digest.SourceName, digest.Category),
		Link:        digest.FeedLink,
		Description: fmt.Sprintf("%s-related updates from %s (last %d days)", digest.Category, digest.SourceName, digest.Days),
		Version:     digest.Version,
		BuiltAt:     digest.GeneratedAt,
	}
}

// New returns the presenter for one of the cfg.Format* values.
func New(format string, styled bool) (Presenter, error) {
	switch format {
	case cfg.FormatText, "":
		return NewTextPresenter(styled), nil
	case cfg.FormatJSON:
		return NewJSONPresenter(), nil
	case cfg.FormatRSS:
		return NewRSSPresenter(), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
