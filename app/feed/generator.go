package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"time"
)

// Channel describes the RSS document written by Generator.
type Channel struct {
	Title       string
	Link        string
	Description string
	Version     string
	BuiltAt     time.Time
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run writes entries, in the given order, as an RSS 2.0 document.
func (g *Generator) Run(channel Channel, entries []Entry) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	g.writeElement(&buf, "description", cmp.Or(channel.Description, fmt.Sprintf("Filtered entries of %s", channel.Title)), 4)

	lastBuildDate := channel.BuiltAt
	if len(entries) > 0 {
		lastBuildDate = entries[0].PublishedAt
	}
	if !lastBuildDate.IsZero() {
		g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	}
	g.writeElement(&buf, "generator", fmt.Sprintf("feed-digest/%s", cmp.Or(channel.Version, "dev")), 4)

	for _, entry := range entries {
		g.writeItem(&buf, entry)
	}

	buf.WriteString("  </channel>\n</rss>\n")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, entry Entry) {
	buf.WriteString("    <item>\n")

	g.writeElement(buf, "title", entry.Title, 6)

	if g.isURL(entry.Link) {
		g.writeElement(buf, "link", entry.Link, 6)
		buf.WriteString("      <guid isPermaLink=\"true\">")
		xml.EscapeText(buf, []byte(entry.Link))
		buf.WriteString("</guid>\n")
	}

	g.writeElement(buf, "pubDate", entry.PublishedAt.Format(time.RFC1123Z), 6)

	for _, category := range entry.Categories {
		g.writeElement(buf, "category", category, 6)
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return (len(s) > 7 && s[:7] == "http://") || (len(s) > 8 && s[:8] == "https://")
}
