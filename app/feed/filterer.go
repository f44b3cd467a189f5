package feed

import (
	"fmt"
	"slices"
	"time"
)

const day = 24 * time.Hour

type Filterer struct {
	parser *Parser
}

func NewFilterer(parser *Parser) *Filterer {
	return &Filterer{parser: parser}
}

// Run parses data and keeps the entries published strictly after
// now-lookbackDays that carry category, newest first. Entries with equal
// timestamps keep their document order. The feed's own metadata is attached
// to the result.
func (f *Filterer) Run(data []byte, lookbackDays int, category string, now time.Time) (*Result, error) {
	metadata, nodes, err := f.parser.Run(data)
	if err != nil {
		return nil, err
	}

	result, err := f.Apply(nodes, lookbackDays, category, now)
	if err != nil {
		return nil, err
	}
	result.Feed = metadata

	return result, nil
}

// Apply is Run on already parsed nodes.
func (f *Filterer) Apply(nodes []Node, lookbackDays int, category string, now time.Time) (*Result, error) {
	cutoff := Cutoff(now, lookbackDays)

	result := &Result{
		MatchingEntries: make([]Entry, 0),
		Cutoff:          cutoff,
	}

	for i, node := range nodes {
		result.TotalEntries++

		publishedAt, err := parsePublished(node.Published)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("entry %d", i+1), Err: err}
		}

		if !publishedAt.After(cutoff) {
			continue
		}
		result.RecentEntries++

		if !slices.Contains(node.Categories, category) {
			continue
		}

		if node.Title == "" {
			return nil, &ParseError{Reason: fmt.Sprintf("entry %d", i+1), Err: fmt.Errorf("title is missing")}
		}

		link := alternateHref(node.Links)
		if link == "" {
			link = NoLink
		}

		result.MatchingEntries = append(result.MatchingEntries, Entry{
			Title:       node.Title,
			Link:        link,
			PublishedAt: publishedAt,
			Categories:  slices.Clone(node.Categories),
		})
	}

	slices.SortStableFunc(result.MatchingEntries, func(a, b Entry) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})

	return result, nil
}

// Cutoff is now minus whole 24-hour days.
func Cutoff(now time.Time, lookbackDays int) time.Time {
	return now.Add(-time.Duration(lookbackDays) * day)
}
