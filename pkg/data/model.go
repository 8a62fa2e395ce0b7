package data

import "fmt"

// ChapterStatus is the outcome of a single chapter run.
type ChapterStatus string

const (
	StatusSkipped  ChapterStatus = "skipped"
	StatusComplete ChapterStatus = "complete"
	StatusPartial  ChapterStatus = "partial"
	StatusError    ChapterStatus = "error"
)

// Chapter is one comic chapter as discovered from its reader page.
type Chapter struct {
	URL   string
	Title string // Used for the archive name
	Pages []PageDescriptor
}

// PageDescriptor points at one remote page image. Index is the 0-based
// position in the chapter and decides the archive order.
type PageDescriptor struct {
	Index int
	Label string
	URL   string
}

// FetchedPage is a page after download and re-encoding.
type FetchedPage struct {
	Index int
	Data  []byte
}

// EntryName returns the archive entry name for the page. Entries are
// numbered from 1, matching how readers label pages.
func (p FetchedPage) EntryName() string {
	return EntryName(p.Index)
}

// EntryName returns the zero-padded archive entry name for a page index.
func EntryName(index int) string {
	return fmt.Sprintf("%04d.jpg", index+1)
}

// ChapterResult summarizes what happened to a chapter.
type ChapterResult struct {
	Title       string
	ArchivePath string
	Status      ChapterStatus
	Pages       int // Pages written to the archive
	Failed      int // Pages dropped because their fetch failed
	PageErrors  []error
}
