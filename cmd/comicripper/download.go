package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/kerbaras/comicripper/pkg/app"
	"github.com/kerbaras/comicripper/pkg/data"
	"github.com/kerbaras/comicripper/pkg/services"
	"github.com/kerbaras/comicripper/pkg/sources"
	"github.com/kerbaras/comicripper/pkg/utils"
	"github.com/spf13/cobra"
)

func runDownload(cmd *cobra.Command, args []string) error {
	target := args[0]
	if err := opts.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var logOut io.Writer = cmd.ErrOrStderr()
	var reporter *services.ProgressReporter
	if flagTUI {
		// The TUI owns the terminal
		logOut = io.Discard
		reporter = services.NewProgressReporter(256)
	}
	logger := newLogger(logOut, opts.Verbose)

	client := utils.NewClient(opts.UserAgent, opts.Timeout)
	source := sources.NewReadComics(client)
	fetcher := services.NewFetcher(client, opts, reporter, logger)
	driver := services.NewSeriesDriver(source, fetcher, opts.MaxConcurrentChapters, reporter, logger)

	locations := []string{target}
	if !opts.Single {
		found, err := source.ResolveSeries(ctx, target)
		if err != nil {
			return fmt.Errorf("failed to list chapters: %w", err)
		}
		if len(found) == 0 {
			return fmt.Errorf("no chapters found at %s (use --single for a chapter page)", target)
		}
		locations = found
		fmt.Fprintf(cmd.OutOrStdout(), "📚 Found %d chapters\n", len(locations))
	}

	var reports []services.ChapterReport
	work := func() {
		reports = driver.FetchSeries(ctx, locations)
	}

	if flagTUI {
		if err := app.NewApp(reporter).Run(cancel, work); err != nil && !errors.Is(err, app.ErrInterrupted) {
			return fmt.Errorf("progress display failed: %w", err)
		}
	} else {
		work()
	}

	printReports(cmd.OutOrStdout(), reports)

	if services.AnyFailed(reports) {
		failed := 0
		for _, r := range reports {
			if r.Failed() {
				failed++
			}
		}
		return fmt.Errorf("%d of %d chapters failed", failed, len(reports))
	}
	return nil
}

func printReports(w io.Writer, reports []services.ChapterReport) {
	fmt.Fprintln(w)
	for _, r := range reports {
		fmt.Fprintln(w, formatReport(r))
	}
}

// formatReport renders the one-line summary for a chapter.
func formatReport(r services.ChapterReport) string {
	if r.Err != nil {
		name := r.Location
		if r.Result != nil && r.Result.Title != "" {
			name = r.Result.Title
		}
		return fmt.Sprintf("❌ %s: %v", name, r.Err)
	}

	res := r.Result
	switch res.Status {
	case data.StatusSkipped:
		return fmt.Sprintf("⏭️  %s exists, skipping", res.ArchivePath)
	case data.StatusPartial:
		return fmt.Sprintf("⚠️  %s: %d pages, %d failed -> %s", res.Title, res.Pages, res.Failed, res.ArchivePath)
	default:
		return fmt.Sprintf("✅ %s: %d pages -> %s", res.Title, res.Pages, res.ArchivePath)
	}
}
