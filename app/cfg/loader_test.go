package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"LOOKBACK_DAYS", "FEED_URL", "CATEGORY", "SOURCE_NAME", "FETCH_TIMEOUT",
		"FORMAT", "NO_COLOR", "LISTEN", "PROFILE", "USER_AGENT", "DEBUG"} {
		if value, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
}

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Days != DefaultDays {
		t.Errorf("Expected days %d, got %d", DefaultDays, cfg.Days)
	}
	if cfg.FeedURL != DefaultFeedURL {
		t.Errorf("Expected feed URL '%s', got '%s'", DefaultFeedURL, cfg.FeedURL)
	}
	if cfg.Category != DefaultCategory {
		t.Errorf("Expected category '%s', got '%s'", DefaultCategory, cfg.Category)
	}
	if cfg.SourceName != DefaultSourceName {
		t.Errorf("Expected source name '%s', got '%s'", DefaultSourceName, cfg.SourceName)
	}
	if cfg.Format != FormatText {
		t.Errorf("Expected format '%s', got '%s'", FormatText, cfg.Format)
	}
	if cfg.FetchTimeout() != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", cfg.FetchTimeout())
	}
	if cfg.Listen != "" {
		t.Errorf("Expected no listen address, got '%s'", cfg.Listen)
	}
	if Get() != cfg {
		t.Error("Get should return the last loaded configuration")
	}
}

func TestLoadDaysFlag(t *testing.T) {
	clearEnv(t)

	for _, args := range [][]string{{"-d", "3"}, {"--days", "3"}, {"--days=3"}} {
		cfg, err := LoadArgs(args)
		if err != nil {
			t.Fatalf("%v: expected no error, got: %v", args, err)
		}
		if cfg.Days != 3 {
			t.Errorf("%v: expected days 3, got %d", args, cfg.Days)
		}
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOOKBACK_DAYS", "14")
	t.Setenv("CATEGORY", "Google Meet")
	t.Setenv("FORMAT", "json")

	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Days != 14 {
		t.Errorf("Expected days 14, got %d", cfg.Days)
	}
	if cfg.Category != "Google Meet" {
		t.Errorf("Expected category 'Google Meet', got '%s'", cfg.Category)
	}
	if cfg.Format != FormatJSON {
		t.Errorf("Expected format 'json', got '%s'", cfg.Format)
	}
}

func TestLoadProfile(t *testing.T) {
	clearEnv(t)
	path := writeProfile(t, `
url: "https://example.com/feeds/posts/default"
category: "Docs"
source_name: "Example Blog"
days: 0
timeout: 5
`)

	cfg, err := LoadArgs([]string{"--profile", path})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.FeedURL != "https://example.com/feeds/posts/default" {
		t.Errorf("Expected profile URL, got '%s'", cfg.FeedURL)
	}
	if cfg.Category != "Docs" {
		t.Errorf("Expected category 'Docs', got '%s'", cfg.Category)
	}
	if cfg.SourceName != "Example Blog" {
		t.Errorf("Expected source name 'Example Blog', got '%s'", cfg.SourceName)
	}
	if cfg.Days != 0 {
		t.Errorf("Expected days 0 from profile, got %d", cfg.Days)
	}
	if cfg.FetchTimeout() != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", cfg.FetchTimeout())
	}
}

func TestLoadProfilePrecedence(t *testing.T) {
	clearEnv(t)
	path := writeProfile(t, `
category: "Docs"
days: 30
source_name: "Example Blog"
`)
	t.Setenv("SOURCE_NAME", "From Env")

	cfg, err := LoadArgs([]string{"--profile", path, "--days", "2"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Days != 2 {
		t.Errorf("Expected command line days 2, got %d", cfg.Days)
	}
	if cfg.SourceName != "From Env" {
		t.Errorf("Expected environment source name, got '%s'", cfg.SourceName)
	}
	if cfg.Category != "Docs" {
		t.Errorf("Expected profile category 'Docs', got '%s'", cfg.Category)
	}
}

func TestLoadProfileErrors(t *testing.T) {
	clearEnv(t)

	if _, err := LoadArgs([]string{"--profile", filepath.Join(t.TempDir(), "missing.yml")}); err == nil {
		t.Error("Expected error for missing profile")
	}

	path := writeProfile(t, "days: [not, a, number]\n")
	if _, err := LoadArgs([]string{"--profile", path}); err == nil {
		t.Error("Expected error for malformed profile")
	}
}

func TestLoadValidation(t *testing.T) {
	clearEnv(t)

	invalid := [][]string{
		{"--days", "-1"},
		{"--timeout", "0"},
		{"--category", ""},
		{"--feed-url", "ftp://example.com/feed"},
		{"--format", "yaml"},
		{"--days", "seven"},
	}

	for _, args := range invalid {
		if _, err := LoadArgs(args); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestLoadHelp(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadArgs([]string{"--help"})
	if err != nil {
		t.Fatalf("Expected no error for help, got: %v", err)
	}
	if cfg != nil {
		t.Error("Expected nil configuration when help is requested")
	}
}
