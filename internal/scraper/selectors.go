package scraper

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

type selector struct {
	css   string
	match goquery.Matcher
}

// selectorList is a ranked list of CSS selectors, compiled once.
type selectorList []selector

func selectors(css ...string) selectorList {
	out := make(selectorList, 0, len(css))
	for _, c := range css {
		out = append(out, selector{css: c, match: cascadia.MustCompile(c)})
	}
	return out
}

// firstText checks the first element of each selector in rank order and
// returns the first text accepted.
func (l selectorList) firstText(root *goquery.Selection, accept func(string) bool) string {
	for _, sel := range l {
		text := selectionText(root.FindMatcher(sel.match).First())
		if text != "" && accept(text) {
			return text
		}
	}
	return ""
}

// allTexts returns the text of every element matched, selector by selector.
func (l selectorList) allTexts(root *goquery.Selection) []string {
	var out []string
	for _, sel := range l {
		root.FindMatcher(sel.match).Each(func(_ int, s *goquery.Selection) {
			if text := selectionText(s); text != "" {
				out = append(out, text)
			}
		})
	}
	return out
}

var (
	titleLength   = lengthBetween(3, 200)
	companyLength = lengthBetween(2, 100)
	nonEmpty      = lengthBetween(0, 0)
)
