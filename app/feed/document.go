package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"

	"golang.org/x/net/html/charset"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

var (
	atomFeedName  = xml.Name{Space: AtomNamespace, Local: "feed"}
	atomEntryName = xml.Name{Space: AtomNamespace, Local: "entry"}
	atomLinkName  = xml.Name{Space: AtomNamespace, Local: "link"}
)

// document is what the strict pass records while checking the markup.
type document struct {
	feedLinks  []Link
	entryLinks [][]Link // one slice per Atom entry, rel as written
}

type openElement struct {
	raw   xml.Name // prefix and local name as written
	name  xml.Name // namespace resolved
	scope map[string]string
}

// scanDocument walks raw tokens so that nothing is repaired on the way: end
// tags must match, there is exactly one root element, no text outside it, and
// every prefix is bound. The root must be an Atom feed.
func scanDocument(data []byte) (*document, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = true
	decoder.CharsetReader = charset.NewReaderLabel

	doc := &document{}
	var stack []openElement
	rootSeen := false

	for {
		tok, err := decoder.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed(err)
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && rootSeen {
				return nil, malformed(fmt.Errorf("junk after document element: <%s>", qualified(tok.Name)))
			}

			parent := map[string]string{}
			if len(stack) > 0 {
				parent = stack[len(stack)-1].scope
			}
			elem, err := openStart(tok, parent)
			if err != nil {
				return nil, malformed(err)
			}
			stack = append(stack, elem)

			switch len(stack) {
			case 1:
				rootSeen = true
				if elem.name != atomFeedName {
					return nil, &ParseError{Reason: fmt.Sprintf("unexpected root element {%s}%s, want {%s}feed",
						elem.name.Space, elem.name.Local, AtomNamespace)}
				}
			case 2:
				switch elem.name {
				case atomEntryName:
					doc.entryLinks = append(doc.entryLinks, []Link{})
				case atomLinkName:
					doc.feedLinks = append(doc.feedLinks, linkOf(tok))
				}
			case 3:
				if elem.name == atomLinkName && stack[1].name == atomEntryName {
					last := len(doc.entryLinks) - 1
					doc.entryLinks[last] = append(doc.entryLinks[last], linkOf(tok))
				}
			}

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, malformed(fmt.Errorf("unexpected end element </%s>", qualified(tok.Name)))
			}
			if top := stack[len(stack)-1]; top.raw != tok.Name {
				return nil, malformed(fmt.Errorf("element <%s> closed by </%s>", qualified(top.raw), qualified(tok.Name)))
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 && strings.Trim(string(tok), " \t\r\n") != "" {
				return nil, malformed(errors.New("text outside the root element"))
			}
		}
	}

	if len(stack) > 0 {
		return nil, malformed(fmt.Errorf("unexpected EOF, <%s> is not closed", qualified(stack[len(stack)-1].raw)))
	}
	if !rootSeen {
		return nil, &ParseError{Reason: "content has no root element"}
	}

	return doc, nil
}

func malformed(err error) error {
	return &ParseError{Reason: "content is not well-formed XML", Err: err}
}

// openStart applies the namespace declarations of start on top of parent and
// resolves the element and attribute names.
func openStart(start xml.StartElement, parent map[string]string) (openElement, error) {
	scope := parent
	copied := false
	for _, attr := range start.Attr {
		prefix, declares := declaredPrefix(attr.Name)
		if !declares {
			continue
		}
		if prefix != "" && attr.Value == "" {
			return openElement{}, fmt.Errorf("prefix %q bound to an empty namespace", prefix)
		}
		if !copied {
			scope = maps.Clone(parent)
			copied = true
		}
		scope[prefix] = attr.Value
	}

	name, err := resolve(start.Name, scope, true)
	if err != nil {
		return openElement{}, err
	}

	for _, attr := range start.Attr {
		if _, declares := declaredPrefix(attr.Name); declares {
			continue
		}
		if _, err := resolve(attr.Name, scope, false); err != nil {
			return openElement{}, err
		}
	}

	return openElement{raw: start.Name, name: name, scope: scope}, nil
}

// declaredPrefix reports whether name is an xmlns declaration and for which
// prefix ("" for the default namespace).
func declaredPrefix(name xml.Name) (string, bool) {
	switch {
	case name.Space == "" && name.Local == "xmlns":
		return "", true
	case name.Space == "xmlns":
		return name.Local, true
	}
	return "", false
}

// resolve maps a prefix to its namespace. Unprefixed attributes have no
// namespace; unprefixed elements take the default one.
func resolve(name xml.Name, scope map[string]string, element bool) (xml.Name, error) {
	switch name.Space {
	case "":
		if element {
			return xml.Name{Space: scope[""], Local: name.Local}, nil
		}
		return name, nil
	case "xml":
		return xml.Name{Space: xmlNamespace, Local: name.Local}, nil
	}

	uri, ok := scope[name.Space]
	if !ok {
		return name, fmt.Errorf("unbound prefix %q in <%s>", name.Space, qualified(name))
	}
	return xml.Name{Space: uri, Local: name.Local}, nil
}

func linkOf(start xml.StartElement) Link {
	var link Link
	for _, attr := range start.Attr {
		if attr.Name.Space != "" {
			continue
		}
		switch attr.Name.Local {
		case "href":
			link.Href = strings.TrimSpace(attr.Value)
		case "rel":
			link.Rel = attr.Value
		}
	}
	return link
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}
