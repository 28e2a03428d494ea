package loader

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/Bitlatte/labsite/internal/fetch"
	"github.com/Bitlatte/labsite/internal/logger"
	"github.com/Bitlatte/labsite/internal/model"
	"github.com/Bitlatte/labsite/internal/publications"
)

// Page-relative data files.
const (
	FirstAuthorFile = "publications_first_author.json"
	CoAuthorFile    = "publications_co_author.json"
	ResearchFile    = "research.json"
)

const (
	selectorPublications = "[data-publications-list]"
	selectorResearch     = "[data-research-list]"
)

// Publications fills publication lists from the two authorship lists next to
// the page.
type Publications struct{}

// Name implements Loader.
func (Publications) Name() string { return "publications" }

// Load implements Loader.
func (Publications) Load(ctx context.Context, p *Page) error {
	if p.Count(selectorPublications) == 0 {
		return ErrNoTargets
	}

	var (
		wg       sync.WaitGroup
		first    []model.Publication
		co       []model.Publication
		firstErr error
		coErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		first, firstErr = fetchPublications(ctx, p, FirstAuthorFile, model.FirstAuthor)
	}()
	go func() {
		defer wg.Done()
		co, coErr = fetchPublications(ctx, p, CoAuthorFile, model.CoAuthor)
	}()
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if coErr != nil {
		return coErr
	}

	markup, err := p.Renderer.Publications(publications.Group(first, co))
	if err != nil {
		return err
	}

	p.Do(func(doc *goquery.Document) {
		doc.Find(selectorPublications).SetHtml(markup)
	})
	return nil
}

func fetchPublications(ctx context.Context, p *Page, name string, kind model.Authorship) ([]model.Publication, error) {
	data, err := p.Fetcher.Fetch(ctx, fetch.Join(p.BasePath, name))
	if err != nil {
		return nil, err
	}
	return publications.Decode(data, kind)
}

// Research fills research lists from research.json next to the page. A
// payload that is not a list renders as an empty list.
type Research struct{}

// Name implements Loader.
func (Research) Name() string { return "research" }

// Load implements Loader.
func (Research) Load(ctx context.Context, p *Page) error {
	if p.Count(selectorResearch) == 0 {
		return ErrNoTargets
	}

	path := fetch.Join(p.BasePath, ResearchFile)
	data, err := p.Fetcher.Fetch(ctx, path)
	if err != nil {
		return err
	}

	var items model.List[model.ResearchItem]
	if err := json.Unmarshal(data, &items); err != nil {
		logger.FromContext(ctx).Warn("research data is not a list", "path", path, "error", err)
		items = nil
	}

	markup, err := p.Renderer.Research(items)
	if err != nil {
		return err
	}

	p.Do(func(doc *goquery.Document) {
		doc.Find(selectorResearch).SetHtml(markup)
	})
	return nil
}
