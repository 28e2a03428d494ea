// Package sitemeta loads site.json once per page and writes its values into
// the site name, footer and copyright placeholders.
package sitemeta

import (
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/Bitlatte/labsite/internal/fetch"
	"github.com/Bitlatte/labsite/internal/logger"
	"github.com/Bitlatte/labsite/internal/model"
)

// Path is where site metadata is published.
const Path = "/site.json"

// Placeholder selectors.
const (
	SelectorName      = "[data-site-name]"
	SelectorFull      = "[data-site-full]"
	SelectorFooter    = "[data-footer-text]"
	SelectorCopyright = "[data-copyright]"
)

// Cache fetches site metadata at most once. Concurrent callers wait for the
// same fetch. A failed fetch is logged once and cached as absent.
type Cache struct {
	fetcher fetch.Fetcher

	once sync.Once
	meta *model.SiteMeta
}

// NewCache creates a cache backed by f.
func NewCache(f fetch.Fetcher) *Cache {
	return &Cache{fetcher: f}
}

// Get returns the metadata, or nil if it could not be loaded.
func (c *Cache) Get(ctx context.Context) *model.SiteMeta {
	c.once.Do(func() {
		var meta model.SiteMeta
		if err := fetch.JSON(ctx, c.fetcher, Path, &meta); err != nil {
			logger.FromContext(ctx).Error("failed to load site metadata", "path", Path, "error", err)
			return
		}
		c.meta = &meta
	})
	return c.meta
}

// Apply writes meta into every matching placeholder under sel. Blank values
// leave their placeholders alone, and the footer text needs both names.
func Apply(sel *goquery.Selection, meta *model.SiteMeta) {
	if meta == nil {
		return
	}

	if name := strings.TrimSpace(meta.YourName); name != "" {
		sel.Find(SelectorName).SetText(name)
	}
	if full := strings.TrimSpace(meta.LabName); full != "" {
		sel.Find(SelectorFull).SetText(full)
	}
	if text := meta.FooterText(); text != "" {
		sel.Find(SelectorFooter).SetText(text)
	}
	if copyright := strings.TrimSpace(meta.Copyright); copyright != "" {
		sel.Find(SelectorCopyright).SetText(copyright)
	}
}
