package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Bitlatte/labsite/internal/loader"
	"github.com/Bitlatte/labsite/internal/logger"
	"github.com/Bitlatte/labsite/internal/model"
)

// Collection is everything found in the content directory.
type Collection struct {
	Pages []*model.Page
	// Assets are the non-page files, copied next to the pages they serve.
	Assets []string
}

// IsPage reports whether a content file is a host page.
func IsPage(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm", ".md", ".markdown":
		return true
	}
	return false
}

// sharedFragments are the site-wide HTML fragments the loaders fetch.
var sharedFragments = []string{loader.HeaderPath, loader.FooterPath, loader.HeroHTMLPath}

// IsFragment reports whether a content path is an HTML fragment that loaders
// splice into pages. Fragments are published as they are, never as pages.
func IsFragment(p string) bool {
	if path.Base(p) == loader.AboutHTMLFile {
		return true
	}
	return slices.Contains(sharedFragments, "/"+strings.TrimPrefix(p, "/"))
}

// Collect walks fsys and reads every host page; fragments and other files are
// collected as assets. HTML pages are kept as written; Markdown pages have
// their frontmatter parsed and their body converted. Pages are sorted by
// permalink.
func Collect(fsys fs.FS, md goldmark.Markdown, log *logger.Logger) (*Collection, error) {
	c := &Collection{}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %q during walk: %w", p, err)
		}
		if d.IsDir() {
			return nil
		}
		if !IsPage(d.Name()) || IsFragment(p) {
			c.Assets = append(c.Assets, p)
			return nil
		}

		page, err := readPage(fsys, p, md, log)
		if err != nil {
			return err
		}
		c.Pages = append(c.Pages, page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error during content collection walk: %w", err)
	}

	sort.Slice(c.Pages, func(i, j int) bool {
		return c.Pages[i].Permalink < c.Pages[j].Permalink
	})

	return c, nil
}

func readPage(fsys fs.FS, p string, md goldmark.Markdown, log *logger.Logger) (*model.Page, error) {
	raw, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", p, err)
	}

	page := &model.Page{
		SourcePath:  p,
		Permalink:   Permalink(p),
		Frontmatter: map[string]interface{}{},
	}

	ext := strings.ToLower(path.Ext(p))
	if ext == ".md" || ext == ".markdown" {
		page.Markdown = true

		var fm map[string]interface{}
		body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
		if err != nil {
			log.Warn("could not parse frontmatter, treating as plain markdown", "path", p, "error", err)
			body = raw
			fm = nil
		}
		if fm != nil {
			page.Frontmatter = fm
		}

		var buf bytes.Buffer
		if err := md.Convert(body, &buf); err != nil {
			return nil, fmt.Errorf("failed to convert markdown to HTML for file %q: %w", p, err)
		}
		page.ContentHTML = template.HTML(buf.String()) // #nosec G203
	} else {
		page.ContentHTML = template.HTML(raw) // #nosec G203
	}

	page.Title = stringParam(page.Frontmatter, "title")
	if page.Title == "" {
		page.Title = TitleFromPath(p)
	}
	page.Layout = stringParam(page.Frontmatter, "layout")

	return page, nil
}

func stringParam(fm map[string]interface{}, key string) string {
	if v, ok := fm[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// Permalink maps a content path to the URL it is published at:
// "research.md" and "research/index.html" are both "/research/", and the
// root index is "/".
func Permalink(p string) string {
	p = strings.TrimSuffix(p, path.Ext(p))
	if path.Base(p) == "index" {
		p = path.Dir(p)
	}
	if p == "." || p == "" {
		return "/"
	}
	return "/" + strings.Trim(p, "/") + "/"
}

// OutputPath is where a page with permalink is written, relative to the
// output directory.
func OutputPath(permalink string) string {
	return path.Join(strings.TrimPrefix(permalink, "/"), "index.html")
}

// TitleFromPath derives a title from a content file name: "lab-news_2024.md"
// becomes "Lab News 2024". Index pages take their directory's name.
func TitleFromPath(p string) string {
	name := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if name == "index" {
		name = path.Base(path.Dir(p))
		if name == "." || name == "/" {
			return "Home"
		}
	}
	name = strings.ReplaceAll(strings.ReplaceAll(name, "-", " "), "_", " ")
	return cases.Title(language.English).String(name)
}
