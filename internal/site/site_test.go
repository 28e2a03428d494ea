package site

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"

	"github.com/Bitlatte/labsite/internal/config"
	"github.com/Bitlatte/labsite/internal/loader"
	"github.com/Bitlatte/labsite/internal/logger"
	"github.com/Bitlatte/labsite/internal/view"
)

func TestPermalink(t *testing.T) {
	tests := map[string]string{
		"index.html":           "/",
		"research.md":          "/research/",
		"research/index.html":  "/research/",
		"people/alumni.html":   "/people/alumni/",
		"pubs/2024/index.md":   "/pubs/2024/",
		"about/team-notes.htm": "/about/team-notes/",
	}

	for in, want := range tests {
		if got := Permalink(in); got != want {
			t.Errorf("Permalink(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("/"); got != "index.html" {
		t.Errorf("OutputPath(/) = %q", got)
	}
	if got := OutputPath("/research/"); got != "research/index.html" {
		t.Errorf("OutputPath(/research/) = %q", got)
	}
}

func TestTitleFromPath(t *testing.T) {
	tests := map[string]string{
		"lab-news_2024.md":    "Lab News 2024",
		"research/index.html": "Research",
		"index.md":            "Home",
	}

	for in, want := range tests {
		if got := TitleFromPath(in); got != want {
			t.Errorf("TitleFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCollect(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html":             {Data: []byte(`<html><body>home</body></html>`)},
		"research.md":            {Data: []byte("---\ntitle: Our Research\nlayout: wide.html\n---\n# Topics\n")},
		"notes.md":               {Data: []byte("Plain *notes*.\n")},
		"research/research.json": {Data: []byte(`[]`)},
	}

	c, err := Collect(fsys, view.NewMarkdown(), logger.Discard())
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}

	if len(c.Pages) != 3 {
		t.Fatalf("collected %d pages, want 3", len(c.Pages))
	}
	if len(c.Assets) != 1 || c.Assets[0] != "research/research.json" {
		t.Errorf("assets = %v", c.Assets)
	}

	byLink := map[string]int{}
	for i, p := range c.Pages {
		byLink[p.Permalink] = i
	}

	research := c.Pages[byLink["/research/"]]
	if research.Title != "Our Research" || research.Layout != "wide.html" || !research.Markdown {
		t.Errorf("research page = %+v", research)
	}
	if !strings.Contains(string(research.ContentHTML), `<h1 id="topics">Topics</h1>`) {
		t.Errorf("research content = %q", research.ContentHTML)
	}

	notes := c.Pages[byLink["/notes/"]]
	if notes.Title != "Notes" {
		t.Errorf("notes title = %q, want Notes", notes.Title)
	}

	home := c.Pages[byLink["/"]]
	if home.Markdown || string(home.ContentHTML) != `<html><body>home</body></html>` {
		t.Errorf("home page = %+v", home)
	}
}

func TestIsFragment(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"header.html", true},
		{"footer.html", true},
		{"hero/hero.html", true},
		{"about/about.html", true},
		{"about.html", true},
		{"about/index.html", false},
		{"research/header.html", false},
		{"hero.html", false},
		{"index.html", false},
	}

	for _, tt := range tests {
		if got := IsFragment(tt.path); got != tt.want {
			t.Errorf("IsFragment(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBuilder_BuildPublishesFragments(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"content/index.html":       `<html><body><div data-header></div></body></html>`,
		"content/header.html":      `<nav>Lab nav</nav>`,
		"content/about/index.html": `<html><body><section data-about></section></body></html>`,
		"content/about/about.html": `<h2 data-about-title></h2><div data-about-body></div>`,
		"content/about/about.json": `{"title":"About the lab","paragraphs":["Founded in 2010."]}`,
	})

	cfg := testConfig(root)
	reports, err := NewBuilder(cfg).Build(context.Background())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	var pages []string
	for _, r := range reports {
		pages = append(pages, r.Page)
		for _, res := range r.Results {
			if res.Status == loader.StatusFailed {
				t.Errorf("%s on %s failed: %v", res.Loader, r.Page, res.Err)
			}
		}
	}
	if got := strings.Join(pages, ","); got != "/,/about/" {
		t.Errorf("assembled pages = %s, want /,/about/", got)
	}

	for _, rel := range []string{"header.html", "about/about.html", "about/about.json"} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("fragment %s not published: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "about", "about")); !os.IsNotExist(err) {
		t.Errorf("about fragment was published as a page: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(cfg.OutputDir, "about", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "About the lab") {
		t.Errorf("about page not assembled:\n%s", raw)
	}
	home, err := os.ReadFile(filepath.Join(cfg.OutputDir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(home), "Lab nav") {
		t.Errorf("header not injected:\n%s", home)
	}
}

func testConfig(root string) config.Config {
	cfg := config.Default()
	cfg.ContentDir = filepath.Join(root, "content")
	cfg.LayoutsDir = filepath.Join(root, "layouts")
	cfg.StaticDir = filepath.Join(root, "static")
	cfg.OutputDir = filepath.Join(root, "public")
	return cfg
}

func TestBuilder_Build(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"static/site.json":    `{"yourName":"VLab","labName":"Vision Lab","copyright":"© VLab"}`,
		"static/footer.html":  `<p data-footer-text></p><p data-copyright></p>`,
		"static/css/site.css": `body{}`,

		"layouts/base.html": `<!DOCTYPE html><html><head><title>{{ .Page.Title }} | {{ .Site.Title }}</title></head>` +
			`<body>{{ .Content }}<footer data-footer></footer></body></html>`,

		"content/index.html":             `<html><body><h1 data-site-name>Lab</h1><div data-research-list></div></body></html>`,
		"content/research.md":            "---\ntitle: Research\n---\n<div data-research-list></div>\n",
		"content/research/research.json": `[{"title":"Vision","desc":"Seeing","image":"v.png"}]`,
		"content/research.json":          `[{"title":"Home card","desc":"Front page"}]`,
	})

	cfg := testConfig(root)
	reports, err := NewBuilder(cfg).Build(context.Background())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	for _, r := range reports {
		for _, res := range r.Results {
			if res.Status == loader.StatusFailed {
				t.Errorf("%s on %s failed: %v", res.Loader, r.Page, res.Err)
			}
		}
	}

	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "css", "site.css")); err != nil {
		t.Errorf("static asset not copied: %v", err)
	}

	read := func(rel string) *goquery.Document {
		t.Helper()
		f, err := os.Open(filepath.Join(cfg.OutputDir, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("failed to open %s: %v", rel, err)
		}
		defer f.Close()
		doc, err := goquery.NewDocumentFromReader(f)
		if err != nil {
			t.Fatalf("failed to parse %s: %v", rel, err)
		}
		return doc
	}

	home := read("index.html")
	if got := home.Find("h1[data-site-name]").Text(); got != "VLab" {
		t.Errorf("home site name = %q, want VLab", got)
	}
	if got := home.Find(".card h3").Text(); got != "Home card" {
		t.Errorf("home research = %q", got)
	}

	research := read("research/index.html")
	if got := research.Find("title").Text(); got != "Research | Lab Website" {
		t.Errorf("research title = %q", got)
	}
	if src, _ := research.Find("img.research-thumb").Attr("src"); src != "/images/research/v.png" {
		t.Errorf("research image = %q", src)
	}
	if got := research.Find("[data-footer-text]").Text(); got != "VLab · Vision Lab" {
		t.Errorf("footer text = %q", got)
	}
}

func TestBuilder_MissingBaseLayout(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"content/notes.md": "# Notes\n",
	})

	_, err := NewBuilder(testConfig(root)).Build(context.Background())
	if !errors.Is(err, ErrNoBaseLayout) {
		t.Errorf("error = %v, want ErrNoBaseLayout", err)
	}
}

func TestBuilder_MissingContent(t *testing.T) {
	_, err := NewBuilder(testConfig(t.TempDir())).Build(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}
