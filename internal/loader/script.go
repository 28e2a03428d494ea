package loader

import (
	"github.com/PuerkitoBio/goquery"
)

const selectorCarouselScript = "script[data-labsite-carousel]"

// appendCarouselScript adds the carousel script to the end of the body once,
// however many loaders ask for it.
func appendCarouselScript(doc *goquery.Document, script string) {
	if doc.Find(selectorCarouselScript).Length() > 0 {
		return
	}
	doc.Find("body").First().AppendHtml(script)
}
