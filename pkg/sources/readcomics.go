package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kerbaras/comicripper/pkg/data"
)

const (
	pageImageSelector   = "div#all img"
	chapterLinkSelector = "ul.chapters > li > h5 > a[href]"
)

// ReadComics discovers chapters on readcomicsonline-style sites, where every
// page image of a chapter is embedded in a single reader page.
type ReadComics struct {
	client Getter
}

func NewReadComics(client Getter) *ReadComics {
	return &ReadComics{client: client}
}

// ResolveChapter fetches a chapter reader page and lists its page images in
// document order.
func (r *ReadComics) ResolveChapter(ctx context.Context, chapterURL string) (*data.Chapter, error) {
	doc, err := r.fetchDocument(ctx, chapterURL)
	if err != nil {
		return nil, err
	}
	return ParseChapter(doc, chapterURL), nil
}

// ResolveSeries fetches a series index page and returns the absolute URL of
// every chapter it links to.
func (r *ReadComics) ResolveSeries(ctx context.Context, seriesURL string) ([]string, error) {
	doc, err := r.fetchDocument(ctx, seriesURL)
	if err != nil {
		return nil, err
	}
	return ParseSeries(doc, seriesURL), nil
}

func (r *ReadComics) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := r.client.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// ParseChapter extracts the title and page images from a chapter document.
// Images without a usable source are skipped and do not take an index.
func ParseChapter(doc *goquery.Document, chapterURL string) *data.Chapter {
	base, _ := url.Parse(chapterURL)
	chapter := &data.Chapter{
		URL:   chapterURL,
		Title: CleanTitle(doc.Find("title").First().Text()),
	}
	if chapter.Title == "" {
		chapter.Title = titleFromURL(base)
	}

	doc.Find(pageImageSelector).Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("data-src", ""))
		if src == "" {
			src = strings.TrimSpace(s.AttrOr("src", ""))
		}
		if src = resolveURL(src, base); src == "" {
			return
		}

		index := len(chapter.Pages)
		label := strings.TrimSpace(s.AttrOr("alt", ""))
		if label == "" {
			label = fmt.Sprintf("Page %d", index+1)
		}
		chapter.Pages = append(chapter.Pages, data.PageDescriptor{
			Index: index,
			Label: label,
			URL:   src,
		})
	})

	return chapter
}

// titleFromURL names a chapter after the last segment of its URL path, or
// after its host when the path has nothing usable.
func titleFromURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	if title := CleanTitle(path.Base(strings.TrimSuffix(u.Path, "/"))); title != "" {
		return title
	}
	return CleanTitle(u.Hostname())
}

// ParseSeries extracts chapter links from a series index document.
func ParseSeries(doc *goquery.Document, seriesURL string) []string {
	base, _ := url.Parse(seriesURL)
	seen := make(map[string]bool)
	var chapters []string

	doc.Find(chapterLinkSelector).Each(func(_ int, s *goquery.Selection) {
		link := resolveURL(s.AttrOr("href", ""), base)
		if link == "" || seen[link] {
			return
		}
		seen[link] = true
		chapters = append(chapters, link)
	})

	return chapters
}

// resolveURL resolves href against base, dropping links that cannot point at
// a downloadable resource.
func resolveURL(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "data:") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return parsed.String()
	}

	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}
