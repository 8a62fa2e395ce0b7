package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/kerbaras/comicripper/pkg/config"
	"github.com/kerbaras/comicripper/pkg/data"
	"github.com/kerbaras/comicripper/pkg/integrations"
	"github.com/kerbaras/comicripper/pkg/sources"
	"github.com/rs/zerolog"
)

// Fetcher downloads the pages of a chapter concurrently and assembles them
// into a CBZ archive.
type Fetcher struct {
	client     sources.Getter
	transcoder integrations.Transcoder
	archiver   integrations.Archiver
	outputDir  string
	overwrite  bool
	pageLimit  int
	progress   *ProgressReporter
	log        zerolog.Logger

	claimsMu sync.Mutex
	claims   map[string]string // archive path -> chapter URL
}

// NewFetcher creates a Fetcher. progress may be nil.
func NewFetcher(client sources.Getter, opts config.Options, progress *ProgressReporter, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:     client,
		transcoder: integrations.NewImageProcessor(opts.Quality),
		archiver:   integrations.NewCBZWriter(opts.CompressionLevel),
		outputDir:  opts.OutputDir,
		overwrite:  opts.Overwrite,
		pageLimit:  opts.MaxConcurrentPages,
		progress:   progress,
		log:        log,
		claims:     make(map[string]string),
	}
}

// ArchivePath returns where the archive for chapter is written.
func (f *Fetcher) ArchivePath(chapter *data.Chapter) string {
	return filepath.Join(f.outputDir, chapter.Title+".cbz")
}

// FetchChapter downloads every page of chapter and writes them, ordered by
// page index, into one archive. Pages that fail are dropped and counted in
// the result; the chapter fails when no page could be fetched or when ctx is
// done before the archive is written. On failure the returned result is
// still populated with the failure details.
func (f *Fetcher) FetchChapter(ctx context.Context, chapter *data.Chapter) (*data.ChapterResult, error) {
	if chapter == nil {
		return nil, fmt.Errorf("chapter cannot be nil")
	}
	if chapter.Title == "" {
		return nil, fmt.Errorf("chapter %s has no title", chapter.URL)
	}

	log := f.log.With().Str("chapter", chapter.Title).Logger()
	result := &data.ChapterResult{
		Title:       chapter.Title,
		ArchivePath: f.claimArchive(chapter),
	}

	if len(chapter.Pages) == 0 {
		result.Status = data.StatusError
		err := fmt.Errorf("%s: %w", chapter.Title, data.ErrNoPagesFound)
		f.finish(chapter, result, err)
		return result, err
	}

	if !f.overwrite {
		if _, err := os.Stat(result.ArchivePath); err == nil {
			log.Info().Str("path", result.ArchivePath).Msg("Archive exists, skipping")
			result.Status = data.StatusSkipped
			f.finish(chapter, result, nil)
			return result, nil
		}
	}

	log.Info().Int("pages", len(chapter.Pages)).Msg("Processing chapter")
	f.progress.Send(Progress{
		ChapterURL: chapter.URL,
		Title:      chapter.Title,
		TotalPages: len(chapter.Pages),
		Status:     "downloading",
	})

	pages, pageErrors := f.fetchPages(ctx, chapter)
	result.Failed = len(pageErrors)
	result.PageErrors = pageErrors

	if len(pages) == 0 {
		result.Status = data.StatusError
		err := fmt.Errorf("%s: %w: %w", chapter.Title, data.ErrAllPagesFailed, errors.Join(pageErrors...))
		f.finish(chapter, result, err)
		return result, err
	}

	// A chapter cut short by cancellation is never archived
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.Status = data.StatusError
		err := fmt.Errorf("%s: interrupted after %d of %d pages: %w",
			chapter.Title, len(pages), len(chapter.Pages), ctxErr)
		f.finish(chapter, result, err)
		return result, err
	}

	f.progress.Send(Progress{
		ChapterURL:  chapter.URL,
		Title:       chapter.Title,
		CurrentPage: len(chapter.Pages),
		TotalPages:  len(chapter.Pages),
		Failed:      result.Failed,
		Status:      "archiving",
	})
	log.Debug().Str("path", result.ArchivePath).Msg("Zipping pages")

	if err := f.archiver.Write(result.ArchivePath, pages); err != nil {
		result.Status = data.StatusError
		err = fmt.Errorf("%s: %w: %w", chapter.Title, data.ErrArchiveWriteFailed, err)
		f.finish(chapter, result, err)
		return result, err
	}

	result.Pages = len(pages)
	result.Status = data.StatusComplete
	if result.Failed > 0 {
		result.Status = data.StatusPartial
	}
	f.finish(chapter, result, nil)
	return result, nil
}

// claimArchive reserves an archive path for chapter for the lifetime of the
// Fetcher. When another chapter already holds the path, a numbered name is
// used so neither archive replaces the other.
func (f *Fetcher) claimArchive(chapter *data.Chapter) string {
	f.claimsMu.Lock()
	defer f.claimsMu.Unlock()

	base := f.ArchivePath(chapter)
	path := base
	for n := 2; ; n++ {
		owner, taken := f.claims[path]
		if !taken || owner == chapter.URL {
			break
		}
		path = filepath.Join(f.outputDir, fmt.Sprintf("%s (%d).cbz", chapter.Title, n))
	}

	if path != base {
		f.log.Warn().
			Str("chapter", chapter.Title).
			Str("url", chapter.URL).
			Str("conflicts_with", f.claims[base]).
			Str("path", path).
			Msg("Archive name already used by another chapter")
	}
	f.claims[path] = chapter.URL
	return path
}

// fetchPages runs one task per page and returns the fetched pages sorted by
// index. Tasks finish in any order; a failed page never stops its siblings.
func (f *Fetcher) fetchPages(ctx context.Context, chapter *data.Chapter) ([]data.FetchedPage, []error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		pages    = make([]data.FetchedPage, 0, len(chapter.Pages))
		failures []*data.PageError
		finished int
	)

	var semaphore chan struct{}
	if f.pageLimit > 0 {
		semaphore = make(chan struct{}, f.pageLimit)
	}

	total := len(chapter.Pages)
	for _, desc := range chapter.Pages {
		wg.Add(1)
		go func(desc data.PageDescriptor) {
			defer wg.Done()
			if semaphore != nil {
				semaphore <- struct{}{}
				defer func() { <-semaphore }()
			}

			page, err := f.fetchPage(ctx, desc)

			mu.Lock()
			defer mu.Unlock()
			finished++
			if err != nil {
				failures = append(failures, err)
				f.log.Warn().
					Err(err.Err).
					Str("chapter", chapter.Title).
					Int("page", desc.Index+1).
					Str("label", desc.Label).
					Str("url", desc.URL).
					Msg("Failed to fetch page")
			} else {
				pages = append(pages, page)
				f.log.Debug().Msgf("Downloaded page [%d/%d] of %s", desc.Index+1, total, chapter.Title)
			}

			f.progress.Send(Progress{
				ChapterURL:  chapter.URL,
				Title:       chapter.Title,
				CurrentPage: finished,
				TotalPages:  total,
				Failed:      len(failures),
				Status:      "downloading",
			})
		}(desc)
	}
	wg.Wait()

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Index < pages[j].Index
	})
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Index < failures[j].Index
	})

	var errs []error
	for _, failure := range failures {
		errs = append(errs, failure)
	}
	return pages, errs
}

// fetchPage downloads and re-encodes a single page
func (f *Fetcher) fetchPage(ctx context.Context, desc data.PageDescriptor) (data.FetchedPage, *data.PageError) {
	fail := func(err error) (data.FetchedPage, *data.PageError) {
		return data.FetchedPage{}, &data.PageError{
			Index: desc.Index,
			Label: desc.Label,
			URL:   desc.URL,
			Err:   err,
		}
	}

	raw, err := f.client.Get(ctx, desc.URL)
	if err != nil {
		return fail(err)
	}

	encoded, err := f.transcoder.Transcode(raw)
	if err != nil {
		return fail(err)
	}

	return data.FetchedPage{Index: desc.Index, Data: encoded}, nil
}

// finish logs the chapter outcome and publishes the final progress update
func (f *Fetcher) finish(chapter *data.Chapter, result *data.ChapterResult, err error) {
	log := f.log.With().Str("chapter", chapter.Title).Logger()
	switch {
	case err != nil:
		log.Error().Err(err).Int("failed", result.Failed).Msg("Chapter failed")
	case result.Status == data.StatusSkipped:
	default:
		log.Info().
			Str("path", result.ArchivePath).
			Int("pages", result.Pages).
			Int("failed", result.Failed).
			Msg("Chapter archived")
	}

	f.progress.Send(Progress{
		ChapterURL:  chapter.URL,
		Title:       chapter.Title,
		CurrentPage: len(chapter.Pages),
		TotalPages:  len(chapter.Pages),
		Failed:      result.Failed,
		Status:      string(result.Status),
		Error:       err,
	})
}
