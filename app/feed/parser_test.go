package feed

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:blogger="http://www.blogger.com/atom/ns#">
  <id>tag:blogger.com,1999:blog-1</id>
  <updated>2024-06-14T09:00:00.000-07:00</updated>
  <title type="text">Google Workspace Updates</title>
  <link rel="alternate" type="text/html" href="https://workspaceupdates.googleblog.com/"/>
  <link rel="self" type="application/atom+xml" href="https://feeds.feedburner.com/GoogleAppsUpdates"/>
  <entry>
    <id>tag:blogger.com,1999:blog-1.post-1</id>
    <published>2024-06-13T10:30:00.000-07:00</published>
    <updated>2024-06-13T10:31:00.000-07:00</updated>
    <category scheme="http://www.blogger.com/atom/ns#" term="Gemini"/>
    <category scheme="http://www.blogger.com/atom/ns#" term="Google Docs"/>
    <title type="text">  Gemini in Docs  </title>
    <link rel="replies" type="text/html" href="https://example.com/post-1#comments"/>
    <link rel="alternate" type="text/html" href="https://example.com/post-1"/>
  </entry>
  <entry>
    <published>2024-06-12T08:00:00Z</published>
    <title>Second</title>
  </entry>
</feed>`

	parser := NewParser()
	metadata, nodes, err := parser.Run([]byte(atomData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metadata.Title != "Google Workspace Updates" {
		t.Errorf("Expected title 'Google Workspace Updates', got: %s", metadata.Title)
	}
	if metadata.Link != "https://workspaceupdates.googleblog.com/" {
		t.Errorf("Expected alternate feed link, got: %s", metadata.Link)
	}
	if metadata.UpdatedAt == nil {
		t.Error("Expected feed updated time to be parsed")
	}

	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got: %d", len(nodes))
	}

	first := nodes[0]
	if first.Title != "Gemini in Docs" {
		t.Errorf("Expected trimmed title 'Gemini in Docs', got: '%s'", first.Title)
	}
	if first.Published != "2024-06-13T10:30:00.000-07:00" {
		t.Errorf("Expected raw published value, got: %s", first.Published)
	}
	if len(first.Categories) != 2 || first.Categories[0] != "Gemini" || first.Categories[1] != "Google Docs" {
		t.Errorf("Expected categories [Gemini Google Docs], got: %v", first.Categories)
	}
	if len(first.Links) != 2 {
		t.Fatalf("Expected 2 links, got: %d", len(first.Links))
	}
	if alternateHref(first.Links) != "https://example.com/post-1" {
		t.Errorf("Expected alternate href, got: %s", alternateHref(first.Links))
	}

	second := nodes[1]
	if len(second.Categories) != 0 {
		t.Errorf("Expected no categories, got: %v", second.Categories)
	}
	if len(second.Links) != 0 {
		t.Errorf("Expected no links, got: %v", second.Links)
	}
}

func TestParseInvalidFeed(t *testing.T) {
	parser := NewParser()
	_, _, err := parser.Run([]byte("invalid xml"))

	if err == nil {
		t.Fatal("Expected error for invalid XML")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("Expected *ParseError, got %T", err)
	}
}

func TestParseRejectsMismatchedTags(t *testing.T) {
	parser := NewParser()
	_, _, err := parser.Run([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"><entry><title>t</entry></feed>`))

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
}

func TestParseRejectsOtherRoots(t *testing.T) {
	parser := NewParser()

	docs := []string{
		`<rss version="2.0"><channel><title>x</title></channel></rss>`,
		`<feed><title>no namespace</title></feed>`,
		`<entry xmlns="http://www.w3.org/2005/Atom"><title>bare entry</title></entry>`,
	}

	for i, doc := range docs {
		_, _, err := parser.Run([]byte(doc))
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("Document %d: expected *ParseError, got %v", i, err)
		}
	}
}

func TestParsePublished(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Time
		wantErr bool
	}{
		{value: "2024-06-13T10:30:00.000-07:00", want: time.Date(2024, 6, 13, 17, 30, 0, 0, time.UTC)},
		{value: "2024-06-13T10:30:00Z", want: time.Date(2024, 6, 13, 10, 30, 0, 0, time.UTC)},
		{value: "2024-06-13 10:30:00", want: time.Date(2024, 6, 13, 10, 30, 0, 0, time.UTC)},
		{value: "", wantErr: true},
		{value: "not a date", wantErr: true},
		{value: "2024-13-45T99:99:99Z", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parsePublished(tt.value)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parsePublished(%q): expected error", tt.value)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePublished(%q): unexpected error: %v", tt.value, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parsePublished(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestParseRejectsMalformedDocuments(t *testing.T) {
	entry := `<entry><title>Gemini</title><published>2024-06-14T10:00:00Z</published><category term="Gemini"/></entry>`
	open := `<feed xmlns="http://www.w3.org/2005/Atom">`

	tests := []struct {
		name string
		doc  string
	}{
		{"second root element", open + entry + `</feed><feed xmlns="http://www.w3.org/2005/Atom"/>`},
		{"text after root", open + entry + `</feed>trailing`},
		{"text before root", `leading` + open + entry + `</feed>`},
		{"unbound element prefix", open + `<x:note>hi</x:note>` + entry + `</feed>`},
		{"unbound attribute prefix", open + `<entry x:flag="1"><title>t</title></entry></feed>`},
		{"unclosed root", open + entry},
		{"stray end tag", open + entry + `</entry></feed>`},
		{"empty prefix binding", `<feed xmlns="http://www.w3.org/2005/Atom" xmlns:x="">` + entry + `</feed>`},
	}

	parser := NewParser()
	for _, tt := range tests {
		_, _, err := parser.Run([]byte(tt.doc))
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("%s: expected *ParseError, got %v", tt.name, err)
		}
	}
}

func TestParseAcceptsWellFormedExtras(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<!-- generated -->
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:blogger="http://www.blogger.com/atom/ns#">
  <blogger:note xml:lang="en">extension</blogger:note>
  <entry>
    <title>Gemini</title>
    <published>2024-06-14T10:00:00Z</published>
    <a:link xmlns:a="http://www.w3.org/2005/Atom" rel="alternate" href="https://example.com/prefixed"/>
  </entry>
</feed>
<?done?>
`

	_, nodes, err := NewParser().Run([]byte(doc))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("Expected 1 node, got: %d", len(nodes))
	}
	if alternateHref(nodes[0].Links) != "https://example.com/prefixed" {
		t.Errorf("Expected prefixed Atom link, got: %v", nodes[0].Links)
	}
}

func TestParseKeepsLinkRelAsWritten(t *testing.T) {
	doc := `<feed xmlns="http://www.w3.org/2005/Atom">
  <link href="https://example.com/feed-no-rel"/>
  <entry>
    <title>t</title>
    <published>2024-06-14T10:00:00Z</published>
    <link href="https://example.com/no-rel"/>
    <link rel="" href="https://example.com/empty-rel"/>
    <link rel="alternate" href=" https://example.com/post "/>
  </entry>
</feed>`

	metadata, nodes, err := NewParser().Run([]byte(doc))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metadata.Link != "" {
		t.Errorf("Expected no feed alternate link, got: %s", metadata.Link)
	}

	want := []Link{
		{Href: "https://example.com/no-rel"},
		{Href: "https://example.com/empty-rel"},
		{Href: "https://example.com/post", Rel: "alternate"},
	}
	if !reflect.DeepEqual(nodes[0].Links, want) {
		t.Errorf("Expected links %v, got: %v", want, nodes[0].Links)
	}
}

func TestParseSkipsCategoriesWithoutTerm(t *testing.T) {
	doc := `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>t</title>
    <published>2024-06-14T10:00:00Z</published>
    <category term="Gemini"/>
    <category scheme="http://www.blogger.com/atom/ns#"/>
    <category term=""/>
    <category term="Gemini"/>
  </entry>
</feed>`

	_, nodes, err := NewParser().Run([]byte(doc))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !reflect.DeepEqual(nodes[0].Categories, []string{"Gemini", "Gemini"}) {
		t.Errorf("Expected [Gemini Gemini], got: %q", nodes[0].Categories)
	}
}
