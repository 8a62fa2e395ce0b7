package integrations

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kerbaras/comicripper/pkg/data"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// CBZWriter writes comic book archives: plain zip files whose entries are
// the page images in reading order.
type CBZWriter struct {
	level int
}

// NewCBZWriter creates a writer that deflates entries at the given level.
func NewCBZWriter(level int) *CBZWriter {
	return &CBZWriter{level: level}
}

// Write stores pages in the order given. The archive is assembled in a
// hidden ".part" file next to path and renamed into place once complete, so
// path never holds a truncated archive and nothing is left behind on error.
func (w *CBZWriter) Write(path string, pages []data.FetchedPage) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.part")
	if err != nil {
		return fmt.Errorf("failed to create working file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := w.writeEntries(tmp, pages); err != nil {
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set archive permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close working file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move archive into place: %w", err)
	}
	return nil
}

func (w *CBZWriter) writeEntries(out io.Writer, pages []data.FetchedPage) error {
	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, w.level)
	})

	modified := time.Now()
	for _, page := range pages {
		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:     page.EntryName(),
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", page.EntryName(), err)
		}
		if _, err := entry.Write(page.Data); err != nil {
			return fmt.Errorf("failed to write %s: %w", page.EntryName(), err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
