package config

import (
	"fmt"
	"time"

	"github.com/klauspost/compress/flate"
)

// UserAgent is sent with every request. Some comic hosts refuse clients
// that do not look like a browser.
const UserAgent = "Mozilla/5.0 (X11; CrOS x86_64 14324.56.0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/100.0.4692.70 Safari/537.36"

// Options holds everything a run can be tuned with. There is no config
// file; values come from Default and command-line flags.
type Options struct {
	OutputDir             string
	Overwrite             bool
	Single                bool
	Verbose               bool
	MaxConcurrentChapters int
	MaxConcurrentPages    int // 0 means one worker per page
	Quality               int
	CompressionLevel      int
	Timeout               time.Duration
	UserAgent             string
}

// Default returns the options used when no flags are given.
func Default() Options {
	return Options{
		OutputDir:             ".",
		MaxConcurrentChapters: 5,
		MaxConcurrentPages:    0,
		Quality:               50,
		CompressionLevel:      flate.BestCompression,
		Timeout:               30 * time.Second,
		UserAgent:             UserAgent,
	}
}

// Validate reports the first option that is out of range.
func (o Options) Validate() error {
	if o.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if o.MaxConcurrentChapters < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", o.MaxConcurrentChapters)
	}
	if o.MaxConcurrentPages < 0 {
		return fmt.Errorf("page workers cannot be negative, got %d", o.MaxConcurrentPages)
	}
	if o.Quality < 1 || o.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", o.Quality)
	}
	if o.CompressionLevel < flate.HuffmanOnly || o.CompressionLevel > flate.BestCompression {
		return fmt.Errorf("compression level must be between %d and %d, got %d",
			flate.HuffmanOnly, flate.BestCompression, o.CompressionLevel)
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.Timeout)
	}
	if o.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	return nil
}
