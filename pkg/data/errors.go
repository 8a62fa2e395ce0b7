package data

import (
	"errors"
	"fmt"
)

var (
	ErrNoPagesFound       = errors.New("no pages found")
	ErrPageFetchFailed    = errors.New("page fetch failed")
	ErrAllPagesFailed     = errors.New("all pages failed")
	ErrArchiveWriteFailed = errors.New("archive write failed")
)

// PageError records why a single page was dropped from a chapter.
type PageError struct {
	Index int
	Label string
	URL   string
	Err   error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d (%s): %v", e.Index+1, e.URL, e.Err)
}

func (e *PageError) Unwrap() []error {
	return []error{ErrPageFetchFailed, e.Err}
}
