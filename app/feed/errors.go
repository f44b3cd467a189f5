package feed

import (
	"errors"
	"fmt"
)

// ParseError reports content that is not a well-formed Atom entry collection
// or an entry that violates the schema (missing title, bad timestamp).
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FetchError is produced by the Fetcher only.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP error fetching %s: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return e.Err.Error()
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// Classify returns err unchanged when it already belongs to the taxonomy and
// wraps it into an UnexpectedError otherwise.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var parseErr *ParseError
	var fetchErr *FetchError
	var unexpectedErr *UnexpectedError
	if errors.As(err, &parseErr) || errors.As(err, &fetchErr) || errors.As(err, &unexpectedErr) {
		return err
	}

	return &UnexpectedError{Err: err}
}
