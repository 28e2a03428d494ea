package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Bitlatte/labsite/internal/carousel"
	"github.com/Bitlatte/labsite/internal/people"
)

// PeoplePath is where the lab directory is published.
const PeoplePath = "/people/people.json"

const (
	selectorPeople         = "[data-people-list]"
	selectorPeopleCarousel = "[data-people-carousel]"
	selectorPeoplePrev     = "[data-people-prev]"
	selectorPeopleNext     = "[data-people-next]"
)

// People fills people lists, either as one grid limited by data-limit or
// grouped by role when data-grouped is present, then sets up the people
// carousel.
type People struct{}

// Name implements Loader.
func (People) Name() string { return "people" }

// Load implements Loader.
func (People) Load(ctx context.Context, p *Page) error {
	if p.Count(selectorPeople) == 0 {
		return ErrNoTargets
	}

	data, err := p.Fetcher.Fetch(ctx, PeoplePath)
	if err != nil {
		return err
	}

	dir, err := people.Normalize(data, p.Config.Roles)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", PeoplePath, err)
	}
	named := dir.Named()

	grouped, err := p.Renderer.PeopleGroups(dir.Groups)
	if err != nil {
		return err
	}

	type target struct {
		grouped bool
		limit   int
	}
	var targets []target
	p.Do(func(doc *goquery.Document) {
		doc.Find(selectorPeople).Each(func(_ int, s *goquery.Selection) {
			_, isGrouped := s.Attr("data-grouped")
			targets = append(targets, target{
				grouped: isGrouped,
				limit:   parseLimit(s.AttrOr("data-limit", ""), len(named)),
			})
		})
	})

	markup := make([]string, len(targets))
	for i, t := range targets {
		if t.grouped {
			markup[i] = grouped
			continue
		}
		if markup[i], err = p.Renderer.PeopleGrid(named[:t.limit]); err != nil {
			return err
		}
	}

	script, err := p.Renderer.CarouselScript()
	if err != nil {
		return err
	}

	p.Do(func(doc *goquery.Document) {
		doc.Find(selectorPeople).Each(func(i int, s *goquery.Selection) {
			if i < len(markup) {
				s.SetHtml(markup[i])
			}
		})
		if initPeopleCarousel(doc, p.Config.People.PageSize) {
			appendCarouselScript(doc, script)
		}
	})

	return nil
}

// parseLimit reads data-limit the way the browser's Number() reads it. Blank,
// zero and non-numeric values keep every card, a positive value keeps that
// many and a negative value drops that many from the end. Fractions are
// truncated toward zero.
func parseLimit(raw string, total int) int {
	f := parseNumber(raw)
	if math.IsNaN(f) || f == 0 {
		return total
	}
	n := math.Trunc(f)
	if n < 0 {
		return int(max(0, float64(total)+n))
	}
	return int(min(n, float64(total)))
}

// parseNumber accepts decimal and exponent notation, 0x/0o/0b integers and
// Infinity. Blank is 0; anything else is NaN.
func parseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if strings.ContainsAny(s, "_iInN") {
		return math.NaN()
	}

	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

// initPeopleCarousel renders the first page of the people track and records
// the page of every card and the prev/next table for the carousel script.
// Nothing happens unless the track and both buttons exist.
func initPeopleCarousel(doc *goquery.Document, defaultPageSize int) bool {
	track := doc.Find(selectorPeopleCarousel).First()
	if track.Length() == 0 {
		return false
	}
	if doc.Find(selectorPeoplePrev).Length() == 0 || doc.Find(selectorPeopleNext).Length() == 0 {
		return false
	}

	pageSize := defaultPageSize
	if n, err := strconv.Atoi(strings.TrimSpace(track.AttrOr("data-people-page", ""))); err == nil && n > 0 {
		pageSize = n
	}

	cards := track.Find(".person-card")
	pager := carousel.NewPager(cards.Length(), pageSize)

	steps, err := json.Marshal(pager.Steps())
	if err != nil {
		return false
	}
	track.SetAttr("data-people-steps", string(steps))

	cards.Each(func(i int, card *goquery.Selection) {
		card.SetAttr("data-people-page-index", strconv.Itoa(pager.PageOf(i)))
		if !pager.Visible(i) {
			card.SetAttr("style", "display:none")
		}
	})
	return true
}
