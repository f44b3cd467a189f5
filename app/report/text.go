package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	timestampLayout = "2006-01-02 15:04:05 -0700"
	ruleWidth       = 80
)

var (
	headerColor = lipgloss.Color("#0969DA")
	titleColor  = lipgloss.Color("#39D353")
	linkColor   = lipgloss.Color("#58A6FF")
	dateColor   = lipgloss.Color("#A371F7")
	dimColor    = lipgloss.Color("#6E7681")
	warnColor   = lipgloss.Color("#D29922")
)

type TextPresenter struct {
	styled bool
}

// NewTextPresenter returns the plain report layout. With styled set, labels
// and values are coloured for a terminal; the text itself is unchanged.
func NewTextPresenter(styled bool) *TextPresenter {
	return &TextPresenter{styled: styled}
}

type textStyles struct {
	header lipgloss.Style
	title  lipgloss.Style
	link   lipgloss.Style
	date   lipgloss.Style
	dim    lipgloss.Style
	warn   lipgloss.Style
}

func newTextStyles(r *lipgloss.Renderer) textStyles {
	return textStyles{
		header: r.NewStyle().Foreground(headerColor).Bold(true),
		title:  r.NewStyle().Foreground(titleColor).Bold(true),
		link:   r.NewStyle().Foreground(linkColor).Underline(true),
		date:   r.NewStyle().Foreground(dateColor).Italic(true),
		dim:    r.NewStyle().Foreground(dimColor),
		warn:   r.NewStyle().Foreground(warnColor),
	}
}

func (p *TextPresenter) Render(w io.Writer, digest Digest) error {
	styles := newTextStyles(lipgloss.NewRenderer(w))
	paint := func(style lipgloss.Style, s string) string {
		if !p.styled {
			return s
		}
		return style.Render(s)
	}

	result := digest.Result
	var sb strings.Builder

	if result.TotalEntries == 0 {
		sb.WriteString(paint(styles.warn, "No entries found in the feed. The feed might be empty or the XML structure might have changed."))
		sb.WriteString("\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString(paint(styles.header, "Feed Statistics:"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Total entries in feed: %d\n", result.TotalEntries)
	fmt.Fprintf(&sb, "Entries from last %d days: %d\n", digest.Days, result.RecentEntries)
	fmt.Fprintf(&sb, "%s-related entries: %d\n\n", digest.Category, len(result.MatchingEntries))

	sb.WriteString(paint(styles.header, fmt.Sprintf("%s-related updates from %s (last %d days):",
		digest.Category, digest.SourceName, digest.Days)))
	sb.WriteString("\n\n")

	if len(result.MatchingEntries) == 0 {
		var message string
		if result.RecentEntries == 0 {
			message = fmt.Sprintf("No entries found from the last %d days.", digest.Days)
		} else {
			message = fmt.Sprintf("No %s-related entries found in the last %d days.", digest.Category, digest.Days)
		}
		sb.WriteString(paint(styles.warn, message))
		sb.WriteString("\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	rule := strings.Repeat("-", ruleWidth)
	for _, entry := range result.MatchingEntries {
		fmt.Fprintf(&sb, "Title: %s\n", paint(styles.title, entry.Title))
		fmt.Fprintf(&sb, "Link: %s\n", paint(styles.link, entry.Link))
		fmt.Fprintf(&sb, "Published: %s\n", paint(styles.date, digest.localize(entry.PublishedAt).Format(timestampLayout)))
		fmt.Fprintf(&sb, "Categories: %s\n", strings.Join(entry.Categories, ", "))
		sb.WriteString(paint(styles.dim, rule))
		sb.WriteString("\n\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
