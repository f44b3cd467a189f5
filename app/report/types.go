package report

import (
	"io"
	"time"

	"github.com/lysyi3m/feed-digest/app/feed"
)

// Digest is a filter result together with what is needed to describe it.
type Digest struct {
	Result      *feed.Result
	Days        int
	Category    string
	SourceName  string
	FeedURL     string
	FeedLink    string
	Version     string
	GeneratedAt time.Time

	// Location, when set, is used for printed timestamps instead of the
	// offset written in the feed.
	Location *time.Location
}

type Presenter interface {
	Render(w io.Writer, digest Digest) error
}

var (
	_ Presenter = (*TextPresenter)(nil)
	_ Presenter = (*JSONPresenter)(nil)
	_ Presenter = (*RSSPresenter)(nil)
)

func (d Digest) localize(t time.Time) time.Time {
	if d.Location != nil {
		return t.In(d.Location)
	}
	return t
}
