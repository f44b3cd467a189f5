package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/feed-digest/app/feed"
	"github.com/lysyi3m/feed-digest/app/report"
	"github.com/lysyi3m/feed-digest/app/tasks"
)

func NewHandler(defaults tasks.DigestOptions, fetcher *feed.Fetcher, filterer *feed.Filterer) *Handler {
	return &Handler{
		defaults:  defaults,
		fetcher:   fetcher,
		filterer:  filterer,
		generator: feed.NewGenerator(),
	}
}

func (h *Handler) GetReport(c *gin.Context) {
	digest, ok := h.buildDigest(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, report.NewDocument(*digest))
}

func (h *Handler) GetFeed(c *gin.Context) {
	digest, ok := h.buildDigest(c)
	if !ok {
		return
	}

	rss, err := h.generator.Run(report.Channel(*digest), digest.Result.MatchingEntries)
	if err != nil {
		h.writeError(c, &feed.UnexpectedError{Err: fmt.Errorf("failed to generate RSS: %w", err)})
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(digest.Result.MatchingEntries)))
	c.Header("X-Feed-Category", digest.Category)

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   h.defaults.Version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	})
}

// buildDigest runs one digest task for the request. It writes the error
// response itself and reports whether the caller should continue.
func (h *Handler) buildDigest(c *gin.Context) (*report.Digest, bool) {
	options, err := h.options(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return nil, false
	}

	task := tasks.NewDigestTask(options, h.fetcher, h.filterer)
	if err := task.Execute(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return nil, false
	}

	return task.Digest, true
}

// options applies the days and category query parameters to the defaults.
func (h *Handler) options(c *gin.Context) (tasks.DigestOptions, error) {
	options := h.defaults

	if raw, ok := c.GetQuery("days"); ok {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			return options, fmt.Errorf("days must be a non-negative integer, got %q", raw)
		}
		options.Days = days
	}

	if category, ok := c.GetQuery("category"); ok {
		if category == "" {
			return options, errors.New("category must not be empty")
		}
		options.Category = category
	}

	return options, nil
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var parseErr *feed.ParseError
	var fetchErr *feed.FetchError

	switch err = feed.Classify(err); {
	case errors.As(err, &fetchErr):
		slog.Error("Feed fetch failed", "url", fetchErr.URL, "status", fetchErr.StatusCode, "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "fetch_error", Message: err.Error()})
	case errors.As(err, &parseErr):
		slog.Error("Feed parse failed", "error", err)
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "parse_error", Message: err.Error()})
	default:
		slog.Error("Unexpected error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "unexpected_error", Message: err.Error()})
	}
}
