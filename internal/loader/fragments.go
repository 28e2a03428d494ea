package loader

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Bitlatte/labsite/internal/fetch"
	"github.com/Bitlatte/labsite/internal/sitemeta"
)

// Shared fragment paths.
const (
	HeaderPath = "/header.html"
	FooterPath = "/footer.html"
)

var metaSelectors = strings.Join([]string{
	sitemeta.SelectorName,
	sitemeta.SelectorFull,
	sitemeta.SelectorFooter,
	sitemeta.SelectorCopyright,
}, ", ")

// Header injects the shared header, then applies site metadata to it.
type Header struct{}

// Name implements Loader.
func (Header) Name() string { return "header" }

// Load implements Loader.
func (Header) Load(ctx context.Context, p *Page) error {
	return loadFragment(ctx, p, "[data-header]", HeaderPath)
}

// Footer injects the shared footer, then applies site metadata to it.
type Footer struct{}

// Name implements Loader.
func (Footer) Name() string { return "footer" }

// Load implements Loader.
func (Footer) Load(ctx context.Context, p *Page) error {
	return loadFragment(ctx, p, "[data-footer]", FooterPath)
}

func loadFragment(ctx context.Context, p *Page, selector, sitePath string) error {
	if p.Count(selector) == 0 {
		return ErrNoTargets
	}

	html, err := fetch.Text(ctx, p.Fetcher, sitePath)
	if err != nil {
		return err
	}

	p.Do(func(doc *goquery.Document) {
		doc.Find(selector).SetHtml(html)
	})

	applySiteMeta(ctx, p)
	return nil
}

// SiteMeta applies site metadata to placeholders already on the page.
type SiteMeta struct{}

// Name implements Loader.
func (SiteMeta) Name() string { return "site-meta" }

// Load implements Loader.
func (SiteMeta) Load(ctx context.Context, p *Page) error {
	if p.Count(metaSelectors) == 0 {
		return ErrNoTargets
	}
	applySiteMeta(ctx, p)
	return nil
}

// applySiteMeta is a no-op when the metadata could not be loaded; the cache
// has already logged why.
func applySiteMeta(ctx context.Context, p *Page) {
	meta := p.Meta.Get(ctx)
	if meta == nil {
		return
	}
	p.Do(func(doc *goquery.Document) {
		sitemeta.Apply(doc.Selection, meta)
	})
}
