package feed

import (
	"time"
)

// Schema of the feeds this package understands

const (
	AtomNamespace    = "http://www.w3.org/2005/Atom"
	BloggerNamespace = "http://www.blogger.com/atom/ns#"

	// AlternateRel is the link relation whose href becomes Entry.Link.
	AlternateRel = "alternate"

	// NoLink is used for entries without an alternate link.
	NoLink = "No link available"
)

// Feed processing types

type Metadata struct {
	Title     string
	Link      string
	UpdatedAt *time.Time
}

// Node is a raw entry as found in the document. Fields are validated lazily
// by the Filterer, only for the entries that reach the step needing them.
type Node struct {
	Title      string
	Published  string
	Categories []string
	Links      []Link
}

type Link struct {
	Href string
	Rel  string
}

type Entry struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
	Categories  []string  `json:"categories"`
}

type Result struct {
	TotalEntries    int       `json:"total_entries"`
	RecentEntries   int       `json:"recent_entries"`
	MatchingEntries []Entry   `json:"matching_entries"`
	Cutoff          time.Time `json:"cutoff"`

	// Feed is set by Filterer.Run.
	Feed *Metadata `json:"-"`
}
