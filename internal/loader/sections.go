package loader

import (
	"context"
	"strconv"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/Bitlatte/labsite/internal/carousel"
	"github.com/Bitlatte/labsite/internal/fetch"
	"github.com/Bitlatte/labsite/internal/model"
)

// Hero fragment paths.
const (
	HeroHTMLPath = "/hero/hero.html"
	HeroJSONPath = "/hero/hero.json"
)

// Page-relative about files.
const (
	AboutHTMLFile = "about.html"
	AboutJSONFile = "about.json"
)

// fetchShell fetches an HTML shell and its JSON content in parallel.
func fetchShell(ctx context.Context, f fetch.Fetcher, htmlPath, jsonPath string, v any) (string, error) {
	var (
		wg      sync.WaitGroup
		html    string
		htmlErr error
		jsonErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		html, htmlErr = fetch.Text(ctx, f, htmlPath)
	}()
	go func() {
		defer wg.Done()
		jsonErr = fetch.JSON(ctx, f, jsonPath, v)
	}()
	wg.Wait()

	if htmlErr != nil {
		return "", htmlErr
	}
	if jsonErr != nil {
		return "", jsonErr
	}
	return html, nil
}

// Hero fills the first hero placeholder with the hero shell and its content,
// renders the slider at its first slide and publishes every slide's frame for
// the carousel script.
type Hero struct{}

// Name implements Loader.
func (Hero) Name() string { return "hero" }

// Load implements Loader.
func (Hero) Load(ctx context.Context, p *Page) error {
	if p.Count("[data-hero]") == 0 {
		return ErrNoTargets
	}

	var data model.HeroData
	shell, err := fetchShell(ctx, p.Fetcher, HeroHTMLPath, HeroJSONPath, &data)
	if err != nil {
		return err
	}

	slider := carousel.NewSlider(len(data.Slides))

	buttons, err := p.Renderer.HeroButtons(data.Buttons)
	if err != nil {
		return err
	}
	meta, err := p.Renderer.HeroMeta(data.Meta)
	if err != nil {
		return err
	}
	slides, err := p.Renderer.HeroSlides(data.Slides, slider.Index())
	if err != nil {
		return err
	}
	dots, err := p.Renderer.HeroDots(slider.Count(), slider.Index())
	if err != nil {
		return err
	}

	script, err := p.Renderer.CarouselScript()
	if err != nil {
		return err
	}

	interval := strconv.FormatInt(p.Config.Hero.Interval.Milliseconds(), 10)
	frames := slider.Frames()

	p.Do(func(doc *goquery.Document) {
		target := doc.Find("[data-hero]").First()
		target.SetHtml(shell)

		target.Find("[data-hero-eyebrow]").First().SetText(data.Eyebrow)
		target.Find("[data-hero-title]").First().SetText(data.Title)
		target.Find("[data-hero-lead]").First().SetText(data.Lead)
		target.Find("[data-hero-buttons]").First().SetHtml(buttons)
		target.Find("[data-hero-meta]").First().SetHtml(meta)

		track := target.Find("[data-hero-slides]").First()
		dotsWrap := target.Find("[data-hero-dots]").First()
		if track.Length() == 0 || dotsWrap.Length() == 0 {
			return
		}
		track.SetHtml(slides)
		dotsWrap.SetHtml(dots)
		if slider.Count() == 0 {
			return
		}
		track.SetAttr("style", "transform: "+slider.Transform())
		track.SetAttr("data-hero-interval", interval)
		track.Find(".hero-slide").Each(func(i int, slide *goquery.Selection) {
			if i < len(frames) {
				slide.SetAttr("data-hero-transform", frames[i].Transform)
				slide.SetAttr("data-hero-next", strconv.Itoa(frames[i].Next))
			}
		})
		appendCarouselScript(doc, script)
	})
	return nil
}

// About fills the first about placeholder with the about shell and content
// next to the page.
type About struct{}

// Name implements Loader.
func (About) Name() string { return "about" }

// Load implements Loader.
func (About) Load(ctx context.Context, p *Page) error {
	if p.Count("[data-about]") == 0 {
		return ErrNoTargets
	}

	var data model.AboutData
	shell, err := fetchShell(ctx, p.Fetcher,
		fetch.Join(p.BasePath, AboutHTMLFile),
		fetch.Join(p.BasePath, AboutJSONFile),
		&data,
	)
	if err != nil {
		return err
	}

	body, err := p.Renderer.AboutBody(data.Paragraphs)
	if err != nil {
		return err
	}

	p.Do(func(doc *goquery.Document) {
		target := doc.Find("[data-about]").First()
		target.SetHtml(shell)
		target.Find("[data-about-title]").First().SetText(data.Title)
		target.Find("[data-about-body]").First().SetHtml(body)
	})
	return nil
}
