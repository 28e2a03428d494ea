// Package site builds the output directory: static assets are copied, host
// pages are collected and rendered through the layouts, and every page is
// then assembled against the published tree.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Bitlatte/labsite/internal/config"
	"github.com/Bitlatte/labsite/internal/fetch"
	"github.com/Bitlatte/labsite/internal/loader"
	"github.com/Bitlatte/labsite/internal/logger"
	"github.com/Bitlatte/labsite/internal/model"
	"github.com/Bitlatte/labsite/internal/view"
)

// BaseLayout is the layout Markdown pages are rendered with unless their
// frontmatter names another.
const BaseLayout = "base.html"

// ErrNoBaseLayout is returned when Markdown pages exist but the layouts
// directory has no base.html.
var ErrNoBaseLayout = errors.New("base.html not found in layouts directory")

// Builder builds a site from a configuration.
type Builder struct {
	cfg     config.Config
	loaders []loader.Loader
}

// NewBuilder creates a builder running every loader.
func NewBuilder(cfg config.Config) *Builder {
	return &Builder{cfg: cfg, loaders: loader.Defaults()}
}

// Build regenerates the output directory and returns one loader report per
// page.
func (b *Builder) Build(ctx context.Context) ([]loader.Report, error) {
	log := logger.FromContext(ctx)
	cfg := b.cfg

	if _, err := os.Stat(cfg.ContentDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("content directory %q not found: %w", cfg.ContentDir, err)
	}

	log.Info("cleaning output directory", "dir", cfg.OutputDir)
	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("failed to remove output directory %q: %w", cfg.OutputDir, err)
	}
	if err := os.MkdirAll(cfg.OutputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", cfg.OutputDir, err)
	}

	if _, err := os.Stat(cfg.StaticDir); err == nil {
		log.Info("copying static assets", "from", cfg.StaticDir, "to", cfg.OutputDir)
		if err := CopyDir(cfg.StaticDir, cfg.OutputDir); err != nil {
			return nil, fmt.Errorf("failed to copy static assets: %w", err)
		}
	} else {
		log.Debug("static directory not found, skipping copy", "dir", cfg.StaticDir)
	}

	collection, err := Collect(os.DirFS(cfg.ContentDir), view.NewMarkdown(), log)
	if err != nil {
		return nil, err
	}
	log.Info("collected content", "pages", len(collection.Pages), "assets", len(collection.Assets))

	for _, asset := range collection.Assets {
		src := filepath.Join(cfg.ContentDir, filepath.FromSlash(asset))
		dst := filepath.Join(cfg.OutputDir, filepath.FromSlash(asset))
		if err := CopyFile(src, dst); err != nil {
			return nil, fmt.Errorf("failed to copy content asset: %w", err)
		}
	}

	layouts, err := b.layouts(collection.Pages)
	if err != nil {
		return nil, err
	}

	siteData := &model.Site{Title: cfg.SiteTitle, BaseURL: cfg.BaseURL, Pages: collection.Pages}
	for _, page := range collection.Pages {
		out, err := RenderPage(layouts, siteData, page)
		if err != nil {
			return nil, err
		}
		if err := writeFile(filepath.Join(cfg.OutputDir, filepath.FromSlash(OutputPath(page.Permalink))), out); err != nil {
			return nil, err
		}
	}

	// Pages are assembled only after everything is published, since loaders
	// read data that other pages' directories provide.
	fetcher := fetch.NewFSFetcher(os.DirFS(cfg.OutputDir))
	reports := make([]loader.Report, 0, len(collection.Pages))
	for _, page := range collection.Pages {
		report, err := b.assemble(ctx, fetcher, page)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}

	log.Info("build completed", "pages", len(reports), "output", cfg.OutputDir)
	return reports, nil
}

func (b *Builder) assemble(ctx context.Context, f fetch.Fetcher, page *model.Page) (loader.Report, error) {
	outPath := filepath.Join(b.cfg.OutputDir, filepath.FromSlash(OutputPath(page.Permalink)))

	raw, err := os.ReadFile(outPath)
	if err != nil {
		return loader.Report{}, fmt.Errorf("failed to read rendered page %q: %w", outPath, err)
	}

	p, err := loader.NewPage(bytes.NewReader(raw), page.Permalink, f, b.cfg)
	if err != nil {
		return loader.Report{}, err
	}

	report := loader.Assemble(ctx, p, b.loaders)

	html, err := p.HTML()
	if err != nil {
		return report, err
	}
	return report, writeFile(outPath, []byte(html))
}

// layouts parses the layouts directory when any page needs it: base.html
// and partials first, then every other layout.
func (b *Builder) layouts(pages []*model.Page) (*template.Template, error) {
	needed := false
	for _, p := range pages {
		if p.Markdown {
			needed = true
			break
		}
	}
	if !needed {
		return nil, nil
	}

	layoutsDir := b.cfg.LayoutsDir
	base := filepath.Join(layoutsDir, BaseLayout)
	if _, err := os.Stat(base); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoBaseLayout, layoutsDir)
	}

	var partials, others []string
	err := filepath.WalkDir(layoutsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") || p == base {
			return nil
		}
		if strings.HasPrefix(filepath.Dir(p), filepath.Join(layoutsDir, "partials")) {
			partials = append(partials, p)
		} else {
			others = append(others, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find layout files in %q: %w", layoutsDir, err)
	}

	tmpl, err := template.ParseFiles(append([]string{base}, partials...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base.html and partials: %w", err)
	}
	if len(others) > 0 {
		if tmpl, err = tmpl.ParseFiles(others...); err != nil {
			return nil, fmt.Errorf("failed to parse page layout files: %w", err)
		}
	}
	return tmpl, nil
}

// RenderPage produces the host document for page. HTML pages are already
// complete; Markdown pages go through their layout.
func RenderPage(layouts *template.Template, site *model.Site, page *model.Page) ([]byte, error) {
	if !page.Markdown {
		return []byte(page.ContentHTML), nil
	}
	if layouts == nil {
		return nil, ErrNoBaseLayout
	}

	name := BaseLayout
	if page.Layout != "" && layouts.Lookup(page.Layout) != nil {
		name = page.Layout
	}

	var buf bytes.Buffer
	data := model.PageData{Site: site, Page: page, Content: page.ContentHTML, Params: page.Frontmatter}
	if err := layouts.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %q for page %q: %w", name, page.SourcePath, err)
	}
	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

// CopyDir recursively copies the contents of src into dst.
func CopyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		dstPath := filepath.Join(dst, relPath)

		if d.IsDir() {
			if err := os.MkdirAll(dstPath, os.ModePerm); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, err)
			}
			return nil
		}
		return CopyFile(path, dstPath)
	})
}

// CopyFile copies srcFile to dstFile, creating parent directories and
// keeping the source permissions.
func CopyFile(srcFile, dstFile string) error {
	srcF, err := os.Open(srcFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcFile, err)
	}
	defer srcF.Close()

	if err := os.MkdirAll(filepath.Dir(dstFile), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", filepath.Dir(dstFile), err)
	}

	dstF, err := os.Create(dstFile)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dstFile, err)
	}
	defer dstF.Close()

	if _, err := io.Copy(dstF, srcF); err != nil {
		return fmt.Errorf("failed to copy data from %s to %s: %w", srcFile, dstFile, err)
	}

	if info, err := srcF.Stat(); err == nil {
		if err := os.Chmod(dstFile, info.Mode()); err != nil {
			return fmt.Errorf("failed to set permissions on %s: %w", dstFile, err)
		}
	}
	return nil
}
