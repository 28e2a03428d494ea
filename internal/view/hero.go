package view

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/Bitlatte/labsite/internal/model"
)

type heroButton struct {
	Class string
	Href  string
	Label string
}

type heroSlide struct {
	Src    string
	Alt    string
	Active bool
}

// HeroButtons renders the call-to-action links. The "ghost" variant gets the
// ghost style; anything else, including no variant, is a primary button.
func (r *Renderer) HeroButtons(buttons []model.HeroButton) (string, error) {
	links := make([]heroButton, 0, len(buttons))
	for _, b := range buttons {
		class := "btn"
		if strings.EqualFold(strings.TrimSpace(b.Variant), "ghost") {
			class = "btn ghost"
		}
		href := b.Href
		if href == "" {
			href = "#"
		}
		links = append(links, heroButton{Class: class, Href: href, Label: b.Label})
	}
	return execute("hero-buttons", links)
}

// HeroMeta renders the label/value pairs.
func (r *Renderer) HeroMeta(items []model.HeroMeta) (string, error) {
	return execute("hero-meta", items)
}

// HeroSlides renders the slider track with slide active marked.
func (r *Renderer) HeroSlides(slides []model.HeroSlide, active int) (string, error) {
	out := make([]heroSlide, 0, len(slides))
	for i, s := range slides {
		alt := s.Alt
		if alt == "" {
			alt = "Hero slide"
		}
		out = append(out, heroSlide{
			Src:    HeroImagePath(s.Src, r.assets.Hero),
			Alt:    alt,
			Active: i == active,
		})
	}
	return execute("hero-slides", out)
}

// HeroDots renders one indicator per slide with active marked.
func (r *Renderer) HeroDots(count, active int) (string, error) {
	dots := make([]bool, count)
	if active >= 0 && active < count {
		dots[active] = true
	}
	return execute("hero-dots", dots)
}

// AboutBody renders each paragraph inside a p.body element. Inline Markdown
// is honored; block syntax is not.
func (r *Renderer) AboutBody(paragraphs []string) (string, error) {
	blocks := make([]template.HTML, 0, len(paragraphs))
	for i, text := range paragraphs {
		block, err := r.inlineMarkdown(text)
		if err != nil {
			return "", fmt.Errorf("paragraph %d: %w", i, err)
		}
		blocks = append(blocks, block)
	}
	return execute("about-body", blocks)
}

// inlineMarkdown converts text and unwraps the paragraph goldmark puts around
// a single block of inline content.
func (r *Renderer) inlineMarkdown(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}

	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}

	return template.HTML(out), nil // #nosec G203
}

// CarouselScript renders the script that drives the people pager and the hero
// slider from the navigation data assembled into the page.
func (r *Renderer) CarouselScript() (string, error) {
	return execute("carousel-script", template.JS(carouselJS)) // #nosec G203
}
