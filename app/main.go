package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/term"

	"github.com/lysyi3m/feed-digest/app/api"
	"github.com/lysyi3m/feed-digest/app/cfg"
	"github.com/lysyi3m/feed-digest/app/feed"
	"github.com/lysyi3m/feed-digest/app/report"
	"github.com/lysyi3m/feed-digest/app/tasks"
)

func main() {
	config, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if config == nil {
		return
	}

	setupLogger(config)

	httpClient := &http.Client{}
	fetcher := feed.NewFetcher(httpClient, config.UserAgent, config.FetchTimeout())
	filterer := feed.NewFilterer(feed.NewParser())
	options := digestOptions(config)

	if config.Listen != "" {
		if err := serve(config, api.NewHandler(options, fetcher, filterer)); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(context.Background(), os.Stdout, config, tasks.NewDigestTask(options, fetcher, filterer)); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}

func setupLogger(config *cfg.Cfg) {
	level := slog.LevelWarn
	if config.Listen != "" {
		level = slog.LevelInfo
	}
	if config.Debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func digestOptions(config *cfg.Cfg) tasks.DigestOptions {
	options := tasks.DigestOptions{
		FeedURL:    config.FeedURL,
		Days:       config.Days,
		Category:   config.Category,
		SourceName: config.SourceName,
		Version:    config.Version,
	}
	if config.Timezone != "" {
		options.Location = time.Local
	}
	return options
}

// run builds one digest and writes it to w in the configured format.
func run(ctx context.Context, w io.Writer, config *cfg.Cfg, task *tasks.DigestTask) error {
	presenter, err := report.New(config.Format, styled(w, config))
	if err != nil {
		return &feed.UnexpectedError{Err: err}
	}

	if err := task.Execute(ctx); err != nil {
		return err
	}

	if err := presenter.Render(w, *task.Digest); err != nil {
		return &feed.UnexpectedError{Err: fmt.Errorf("failed to write report: %w", err)}
	}

	return nil
}

// styled reports whether text output goes to a terminal that accepts colour.
func styled(w io.Writer, config *cfg.Cfg) bool {
	if config.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func errorMessage(err error) string {
	var parseErr *feed.ParseError
	var fetchErr *feed.FetchError

	switch err = feed.Classify(err); {
	case errors.As(err, &fetchErr):
		return fmt.Sprintf("Error fetching the feed: %v", err)
	case errors.As(err, &parseErr):
		return fmt.Sprintf("Error parsing the XML content: %v", err)
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}

func serve(config *cfg.Cfg, handler *api.Handler) error {
	gin.SetMode(gin.ReleaseMode)
	if config.Debug {
		gin.SetMode(gin.DebugMode)
	}

	httpServer := &http.Server{
		Addr:         config.Listen,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: config.FetchTimeout() + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server",
			"address", config.Listen,
			"version", config.Version,
			"feed", config.FeedURL,
			"category", config.Category,
			"days", config.Days)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case serveErr = <-serverErrChan:
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	slog.Info("HTTP server stopped")

	return serveErr
}
