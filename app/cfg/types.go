package cfg

type Cfg struct {
	// Digest configuration
	Days       int
	FeedURL    string
	Category   string
	SourceName string
	Timeout    int // seconds

	// Output configuration
	Format  string
	NoColor bool
	Listen  string

	// Application metadata
	Profile   string
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatRSS  = "rss"
)
