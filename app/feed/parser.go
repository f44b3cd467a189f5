package feed

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed/atom"
)

type Parser struct {
	atomParser *atom.Parser
}

func NewParser() *Parser {
	return &Parser{
		atomParser: &atom.Parser{},
	}
}

// Run turns raw content into feed metadata and entry nodes in document order.
// Content that is not well-formed, or whose root is not an Atom feed element,
// fails with a *ParseError.
func (p *Parser) Run(data []byte) (*Metadata, []Node, error) {
	doc, err := scanDocument(data)
	if err != nil {
		return nil, nil, err
	}

	feed, err := p.atomParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, &ParseError{Reason: "failed to parse feed", Err: err}
	}

	entries := make([]*atom.Entry, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		if entry != nil {
			entries = append(entries, entry)
		}
	}
	if len(entries) != len(doc.entryLinks) {
		return nil, nil, &ParseError{Reason: fmt.Sprintf("found %d entry elements, %d of them in the Atom namespace",
			len(entries), len(doc.entryLinks))}
	}

	metadata := &Metadata{
		Title:     strings.TrimSpace(feed.Title),
		Link:      alternateHref(doc.feedLinks),
		UpdatedAt: feed.UpdatedParsed,
	}

	nodes := make([]Node, 0, len(entries))
	for i, entry := range entries {
		nodes = append(nodes, p.normalizeEntry(entry, doc.entryLinks[i]))
	}

	return metadata, nodes, nil
}

// normalizeEntry takes links from the document scan, since the atom parser
// reports a missing rel as "alternate". Categories without a term are skipped.
func (p *Parser) normalizeEntry(entry *atom.Entry, links []Link) Node {
	node := Node{
		Title:     strings.TrimSpace(entry.Title),
		Published: strings.TrimSpace(entry.Published),
		Links:     links,
	}

	node.Categories = make([]string, 0, len(entry.Categories))
	for _, category := range entry.Categories {
		if category != nil && category.Term != "" {
			node.Categories = append(node.Categories, category.Term)
		}
	}

	return node
}

// alternateHref returns the href of the first alternate link, or "".
func alternateHref(links []Link) string {
	for _, link := range links {
		if link.Rel == AlternateRel {
			return link.Href
		}
	}
	return ""
}

// parsePublished keeps the offset written in the document. Values that are not
// RFC 3339 go through dateparse, with zone-less values read as UTC.
func parsePublished(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("published timestamp is missing")
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid published timestamp %q: %w", value, err)
	}

	return t, nil
}
