package sources

import (
	"context"

	"github.com/kerbaras/comicripper/pkg/data"
)

// Source turns reader pages into chapters and chapter locations.
type Source interface {
	ResolveChapter(ctx context.Context, url string) (*data.Chapter, error)
	ResolveSeries(ctx context.Context, url string) ([]string, error)
}

// Getter fetches raw bytes from a location.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}
