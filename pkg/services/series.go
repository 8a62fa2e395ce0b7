package services

import (
	"context"
	"fmt"

	"github.com/kerbaras/comicripper/pkg/data"
	"github.com/kerbaras/comicripper/pkg/sources"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrentChapters keeps the number of chapters in flight low
// enough that most hosts do not start refusing connections.
const DefaultMaxConcurrentChapters = 5

// ChapterFetcher turns a resolved chapter into an archive.
type ChapterFetcher interface {
	FetchChapter(ctx context.Context, chapter *data.Chapter) (*data.ChapterResult, error)
}

// ChapterReport is the outcome of one chapter location.
type ChapterReport struct {
	Location string
	Result   *data.ChapterResult // nil when the chapter could not be resolved
	Err      error
}

// Failed reports whether the chapter ended in an error.
func (r ChapterReport) Failed() bool {
	return r.Err != nil
}

// AnyFailed reports whether at least one chapter failed.
func AnyFailed(reports []ChapterReport) bool {
	for _, r := range reports {
		if r.Failed() {
			return true
		}
	}
	return false
}

// SeriesDriver resolves chapter locations and fetches them with a bounded
// number of chapters in flight.
type SeriesDriver struct {
	source        sources.Source
	fetcher       ChapterFetcher
	maxConcurrent int
	progress      *ProgressReporter
	log           zerolog.Logger
}

// NewSeriesDriver creates a SeriesDriver. A maxConcurrent below one falls
// back to DefaultMaxConcurrentChapters; progress may be nil.
func NewSeriesDriver(source sources.Source, fetcher ChapterFetcher, maxConcurrent int, progress *ProgressReporter, log zerolog.Logger) *SeriesDriver {
	if maxConcurrent < 1 {
		maxConcurrent = DefaultMaxConcurrentChapters
	}
	return &SeriesDriver{
		source:        source,
		fetcher:       fetcher,
		maxConcurrent: maxConcurrent,
		progress:      progress,
		log:           log,
	}
}

// FetchSeries processes every location and returns one report per location,
// in input order. A failing chapter never cancels the others.
func (d *SeriesDriver) FetchSeries(ctx context.Context, locations []string) []ChapterReport {
	reports := make([]ChapterReport, len(locations))

	var g errgroup.Group
	g.SetLimit(d.maxConcurrent)

	for i, location := range locations {
		g.Go(func() error {
			reports[i] = d.FetchOne(ctx, location)
			return nil
		})
	}

	// Tasks never return errors
	_ = g.Wait()
	return reports
}

// FetchOne resolves a single chapter location and fetches it.
func (d *SeriesDriver) FetchOne(ctx context.Context, location string) ChapterReport {
	report := ChapterReport{Location: location}

	d.progress.Send(Progress{ChapterURL: location, Title: location, Status: "resolving"})

	chapter, err := d.source.ResolveChapter(ctx, location)
	if err != nil {
		report.Err = fmt.Errorf("failed to resolve chapter %s: %w", location, err)
		d.log.Error().Err(err).Str("url", location).Msg("Failed to resolve chapter")
		d.progress.Send(Progress{ChapterURL: location, Title: location, Status: "error", Error: report.Err})
		return report
	}

	report.Result, report.Err = d.fetcher.FetchChapter(ctx, chapter)
	d.log.Debug().Str("url", location).Msg("Chapter finished")
	return report
}
