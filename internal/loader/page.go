package loader

import (
	"fmt"
	"io"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/Bitlatte/labsite/internal/config"
	"github.com/Bitlatte/labsite/internal/fetch"
	"github.com/Bitlatte/labsite/internal/model"
	"github.com/Bitlatte/labsite/internal/sitemeta"
	"github.com/Bitlatte/labsite/internal/view"
)

// Page is one host page being assembled. Loaders fetch without holding the
// page, and touch the document only through Do.
type Page struct {
	BasePath string
	Fetcher  fetch.Fetcher
	Renderer *view.Renderer
	Config   config.Config
	Meta     *sitemeta.Cache

	mu  sync.Mutex
	doc *goquery.Document
}

// NewPage parses the host page read from r. urlPath is the path the page is
// served at; page-relative data is fetched next to it.
func NewPage(r io.Reader, urlPath string, f fetch.Fetcher, cfg config.Config) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", urlPath, err)
	}

	return &Page{
		BasePath: model.BasePath(urlPath),
		Fetcher:  f,
		Renderer: view.New(cfg),
		Config:   cfg,
		Meta:     sitemeta.NewCache(f),
		doc:      doc,
	}, nil
}

// Do runs fn with exclusive access to the document.
func (p *Page) Do(fn func(doc *goquery.Document)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.doc)
}

// Count returns how many elements match selector.
func (p *Page) Count(selector string) int {
	var n int
	p.Do(func(doc *goquery.Document) {
		n = doc.Find(selector).Length()
	})
	return n
}

// HTML serializes the document.
func (p *Page) HTML() (string, error) {
	var (
		out string
		err error
	)
	p.Do(func(doc *goquery.Document) {
		out, err = doc.Html()
	})
	if err != nil {
		return "", fmt.Errorf("failed to serialize page %s: %w", p.BasePath, err)
	}
	return out, nil
}
