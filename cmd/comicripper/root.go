package cmd

import (
	"io"
	"os"
	"time"

	"github.com/kerbaras/comicripper/pkg/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	opts    = config.Default()
	flagTUI bool
)

var rootCmd = &cobra.Command{
	Use:   "comicripper <url>",
	Short: "Download comic chapters as CBZ archives",
	Long: `Download every chapter listed on a series page, or a single chapter with
--single, and store each one as a CBZ archive named after the chapter title.

Examples:
  comicripper https://readcomicsonline.ru/comic/saga-2012
  comicripper https://readcomicsonline.ru/comic/saga-2012/1 --single
  comicripper https://readcomicsonline.ru/comic/saga-2012 -o -d ~/Comics --tui`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runDownload,
}

func init() {
	bindFlags(rootCmd.Flags(), &opts)
	rootCmd.Flags().BoolVar(&flagTUI, "tui", false, "Show live progress in a terminal UI")
}

func bindFlags(flags *pflag.FlagSet, o *config.Options) {
	flags.BoolVarP(&o.Overwrite, "overwrite", "o", o.Overwrite, "Overwrite existing archives")
	flags.BoolVarP(&o.Single, "single", "s", o.Single, "Treat the URL as a single chapter")
	flags.BoolVarP(&o.Verbose, "verbose", "v", o.Verbose, "Log every page")
	flags.StringVarP(&o.OutputDir, "output", "d", o.OutputDir, "Directory to write archives to")
	flags.IntVarP(&o.MaxConcurrentChapters, "workers", "w", o.MaxConcurrentChapters, "Chapters to download at once")
	flags.IntVar(&o.MaxConcurrentPages, "page-workers", o.MaxConcurrentPages, "Pages to download at once per chapter (0 = all)")
	flags.IntVarP(&o.Quality, "quality", "q", o.Quality, "JPEG quality for re-encoded pages (1-100)")
	flags.IntVar(&o.CompressionLevel, "compression", o.CompressionLevel, "Deflate level for archive entries")
	flags.DurationVar(&o.Timeout, "timeout", o.Timeout, "Timeout for each HTTP request")
}

func newLogger(out io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
