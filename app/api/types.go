package api

import (
	"github.com/lysyi3m/feed-digest/app/feed"
	"github.com/lysyi3m/feed-digest/app/tasks"
)

type Handler struct {
	defaults  tasks.DigestOptions
	fetcher   *feed.Fetcher
	filterer  *feed.Filterer
	generator *feed.Generator
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
