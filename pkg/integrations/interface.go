package integrations

import "github.com/kerbaras/comicripper/pkg/data"

// Transcoder normalizes a raw page image into the bytes stored in the archive.
type Transcoder interface {
	Transcode(raw []byte) ([]byte, error)
}

// Archiver writes ordered pages into a single archive file.
type Archiver interface {
	Write(path string, pages []data.FetchedPage) error
}
