package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

const (
	DefaultFeedURL    = "https://feeds.feedburner.com/GoogleAppsUpdates"
	DefaultCategory   = "Gemini"
	DefaultSourceName = "Google Workspace"
	DefaultDays       = 7
)

type rawCfg struct {
	// Digest configuration
	Days       int    `short:"d" long:"days" env:"LOOKBACK_DAYS" default:"7" description:"Number of days to look back"`
	FeedURL    string `long:"feed-url" env:"FEED_URL" default:"https://feeds.feedburner.com/GoogleAppsUpdates" description:"Atom feed to read"`
	Category   string `long:"category" env:"CATEGORY" default:"Gemini" description:"Category term entries must carry (case-sensitive)"`
	SourceName string `long:"source-name" env:"SOURCE_NAME" default:"Google Workspace" description:"Name of the feed used in the report heading"`
	Timeout    int    `long:"timeout" env:"FETCH_TIMEOUT" default:"30" description:"Fetch timeout in seconds"`

	// Output configuration
	Format  string `long:"format" env:"FORMAT" default:"text" choice:"text" choice:"json" choice:"rss" description:"Report format"`
	NoColor bool   `long:"no-color" env:"NO_COLOR" description:"Disable styled terminal output"`
	Listen  string `long:"listen" env:"LISTEN" description:"Serve digests over HTTP on this address (e.g., :8080) instead of printing one"`

	// Application metadata
	Profile   string `long:"profile" env:"PROFILE" description:"YAML profile with url, category, source_name, days and timeout"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"feed-digest/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// profile is the YAML file accepted by --profile. Values apply only to options
// not given on the command line or in the environment.
type profile struct {
	URL        string `yaml:"url"`
	Category   string `yaml:"category"`
	SourceName string `yaml:"source_name"`
	Days       *int   `yaml:"days"`
	Timeout    int    `yaml:"timeout"`
	UserAgent  string `yaml:"user_agent"`
}

var globalCfg *Cfg

// Load reads an optional .env file, then the command line and environment.
// It returns nil, nil when help was requested.
func Load() (*Cfg, error) {
	_ = godotenv.Load()

	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.Profile != "" {
		if err := applyProfile(parser, &raw, raw.Profile); err != nil {
			return nil, err
		}
	}

	cfg := &Cfg{
		Days:       raw.Days,
		FeedURL:    strings.TrimSpace(raw.FeedURL),
		Category:   raw.Category,
		SourceName: raw.SourceName,
		Timeout:    raw.Timeout,
		Format:     raw.Format,
		NoColor:    raw.NoColor,
		Listen:     raw.Listen,
		Profile:    raw.Profile,
		UserAgent:  raw.UserAgent,
		Timezone:   raw.Timezone,
		Debug:      raw.Debug,
		Version:    GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// FetchTimeout returns the timeout as time.Duration
func (c *Cfg) FetchTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

func applyProfile(parser *flags.Parser, raw *rawCfg, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}

	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	if p.URL != "" && !isExplicit(parser, "feed-url") {
		raw.FeedURL = p.URL
	}
	if p.Category != "" && !isExplicit(parser, "category") {
		raw.Category = p.Category
	}
	if p.SourceName != "" && !isExplicit(parser, "source-name") {
		raw.SourceName = p.SourceName
	}
	if p.Days != nil && !isExplicit(parser, "days") {
		raw.Days = *p.Days
	}
	if p.Timeout != 0 && !isExplicit(parser, "timeout") {
		raw.Timeout = p.Timeout
	}
	if p.UserAgent != "" && !isExplicit(parser, "user-agent") {
		raw.UserAgent = p.UserAgent
	}

	return nil
}

// isExplicit reports whether an option came from the command line or from its
// environment variable rather than from its default tag.
func isExplicit(parser *flags.Parser, longName string) bool {
	option := parser.FindOptionByLongName(longName)
	if option == nil {
		return false
	}
	if option.IsSet() && !option.IsSetDefault() {
		return true
	}
	if key := option.EnvKeyWithNamespace(); key != "" {
		if _, ok := os.LookupEnv(key); ok {
			return true
		}
	}
	return false
}

func validate(cfg *Cfg) error {
	if cfg.Days < 0 {
		return errors.New("days must be non-negative")
	}
	if cfg.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if cfg.Category == "" {
		return errors.New("category is required")
	}
	if !strings.HasPrefix(cfg.FeedURL, "http://") && !strings.HasPrefix(cfg.FeedURL, "https://") {
		return fmt.Errorf("feed URL must start with http:// or https://: %q", cfg.FeedURL)
	}

	switch cfg.Format {
	case FormatText, FormatJSON, FormatRSS:
	default:
		return fmt.Errorf("unknown format %q", cfg.Format)
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
