// Package view renders the markup spliced into host pages. Every renderer is
// a pure function of its input; templates live in templates/ and are embedded
// at build time.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/Bitlatte/labsite/internal/config"
	"github.com/Bitlatte/labsite/internal/model"
)

//go:embed templates/*.html.tmpl
var templateFiles embed.FS

//go:embed scripts/carousel.js
var carouselJS string

var templates = template.Must(template.New("").ParseFS(templateFiles, "templates/*.html.tmpl"))

// Renderer turns site data into markup using the configured asset roots and
// placeholder palette.
type Renderer struct {
	assets       config.AssetsConfig
	placeholders []string
	singleColumn []string
	md           goldmark.Markdown
}

// New creates a Renderer from the configuration.
func New(cfg config.Config) *Renderer {
	return &Renderer{
		assets:       cfg.Assets,
		placeholders: cfg.Placeholders,
		singleColumn: cfg.People.SingleColumn,
		md:           newInlineMarkdown(),
	}
}

// NewMarkdown returns the Markdown converter used for Markdown host pages. Raw HTML is passed through so pages can carry
// placeholder elements.
func NewMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithUnsafe(),
		),
	)
}

// newInlineMarkdown parses every block as a paragraph, so prose that starts
// like a list item or a heading stays text. Inline markup and raw HTML still
// render.
func newInlineMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithParser(parser.NewParser(
			parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
			parser.WithInlineParsers(parser.DefaultInlineParsers()...),
			parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
		)),
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithUnsafe(),
		),
	)
}

// ImagePath resolves an image reference: values containing a slash are used
// as given, bare file names are placed under root, and blanks stay blank.
func ImagePath(raw, root string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "/") {
		return raw
	}
	return strings.TrimSuffix(root, "/") + "/" + raw
}

// HeroImagePath places a slide under root after dropping leading slashes.
func HeroImagePath(raw, root string) string {
	raw = strings.TrimLeft(strings.TrimSpace(raw), "/")
	if raw == "" {
		return ""
	}
	return strings.TrimSuffix(root, "/") + "/" + raw
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("error executing template %q: %w", name, err)
	}
	return buf.String(), nil
}

type personCard struct {
	Name        string
	Photo       string
	Title       string
	Affiliation string
	Email       string
	Interests   string
	Website     string
}

type peopleSection struct {
	Role      string
	GridClass string
	People    []personCard
}

func (r *Renderer) personCards(people []model.Person) []personCard {
	cards := make([]personCard, 0, len(people))
	for _, p := range people {
		if !p.HasDisplayName() {
			continue
		}
		cards = append(cards, personCard{
			Name:        strings.TrimSpace(p.Name),
			Photo:       ImagePath(p.Photo, r.assets.People),
			Title:       strings.TrimSpace(p.Title),
			Affiliation: strings.TrimSpace(p.Affiliation),
			Email:       strings.TrimSpace(p.Email),
			Interests:   strings.TrimSpace(p.Interests),
			Website:     strings.TrimSpace(p.Website),
		})
	}
	return cards
}

// PeopleGrid renders one card per named person.
func (r *Renderer) PeopleGrid(people []model.Person) (string, error) {
	return execute("people-grid", r.personCards(people))
}

// PeopleGroups renders a titled section per role. Roles without named
// members are left out.
func (r *Renderer) PeopleGroups(groups []model.RoleGroup) (string, error) {
	sections := make([]peopleSection, 0, len(groups))
	for _, g := range groups {
		cards := r.personCards(g.People)
		if len(cards) == 0 {
			continue
		}
		gridClass := "people-grid"
		if slices.Contains(r.singleColumn, g.Role) {
			gridClass = "people-grid single"
		}
		sections = append(sections, peopleSection{
			Role:      g.Role,
			GridClass: gridClass,
			People:    cards,
		})
	}
	return execute("people-groups", sections)
}

type publicationRow struct {
	Title       string
	Authors     string
	Venue       string
	Thumb       string
	Placeholder template.HTMLAttr
	Last        bool
}

type yearBlock struct {
	Year  int
	Items []publicationRow
}

// Placeholder returns the palette image for the n-th rendered publication.
func (r *Renderer) Placeholder(n int) string {
	if len(r.placeholders) == 0 {
		return ""
	}
	return r.placeholders[n%len(r.placeholders)]
}

// Publications renders one block per year. Entries without a thumbnail get a
// palette image picked by their position across all blocks.
func (r *Renderer) Publications(groups []model.YearGroup) (string, error) {
	blocks := make([]yearBlock, 0, len(groups))
	running := 0
	for _, g := range groups {
		rows := make([]publicationRow, 0, len(g.Items))
		for idx, item := range g.Items {
			row := publicationRow{
				Title:   item.Title,
				Authors: item.Authors,
				Venue:   strings.TrimSpace(item.Venue),
				Last:    idx == len(g.Items)-1,
			}
			if thumb := ImagePath(item.Thumb, r.assets.Publications); thumb != "" {
				row.Thumb = thumb
			} else {
				// palette entries are configuration, not page data
				row.Placeholder = template.HTMLAttr(`src="` + html.EscapeString(r.Placeholder(running+idx)) + `"`) // #nosec G203
			}
			rows = append(rows, row)
		}
		blocks = append(blocks, yearBlock{Year: g.Year, Items: rows})
		running += len(g.Items)
	}
	return execute("publications", blocks)
}

type researchCard struct {
	Title string
	Desc  string
	Tag   string
	Image string
}

// Research renders one card per item.
func (r *Renderer) Research(items []model.ResearchItem) (string, error) {
	cards := make([]researchCard, 0, len(items))
	for _, item := range items {
		cards = append(cards, researchCard{
			Title: item.Title,
			Desc:  item.Desc,
			Tag:   strings.TrimSpace(item.Tag),
			Image: ImagePath(item.Image, r.assets.Research),
		})
	}
	return execute("research", cards)
}
