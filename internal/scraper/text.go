package scraper

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/baxromumarov/resume-screener/internal/httpx"
)

var skippedTextParents = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
}

// nodeText returns the visible text under n: every text node trimmed and
// joined with single spaces.
func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			if t := strings.TrimSpace(node.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			if _, skip := skippedTextParents[node.Data]; skip {
				return
			}
		case html.CommentNode:
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapseSpaces(strings.Join(parts, " "))
}

func selectionText(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	return nodeText(s.Get(0))
}

// HTMLToText parses an HTML fragment and returns its visible text. Markup
// that arrives entity-escaped, as JSON-LD descriptions often do, is unescaped
// and then parsed.
func HTMLToText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		fragment = html.UnescapeString(fragment)
		if !strings.Contains(fragment, "<") {
			return collapseSpaces(fragment)
		}
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return collapseSpaces(fragment)
	}
	return nodeText(doc)
}

// textNodes walks the document in order and calls fn for every visible text node.
func textNodes(root *html.Node, fn func(*html.Node) bool) {
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if _, skip := skippedTextParents[n.Data]; skip {
				return true
			}
		}
		if n.Type == html.TextNode {
			return fn(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(root)
}

func pageTitle(doc *goquery.Document) string {
	return strings.TrimSpace(collapseSpaces(doc.Find("title").First().Text()))
}

// titleFromPage takes the left-hand side of the <title> text, split on the
// first separator present.
func titleFromPage(doc *goquery.Document) string {
	text := pageTitle(doc)
	for _, sep := range []string{" at ", " | ", " - "} {
		if strings.Contains(text, sep) {
			return strings.TrimSpace(strings.SplitN(text, sep, 2)[0])
		}
	}
	return ""
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// lengthBetween accepts text whose rune length is strictly inside (min, max).
// A max of zero means no upper bound.
func lengthBetween(min, max int) func(string) bool {
	return func(s string) bool {
		n := runeLen(s)
		if n <= min {
			return false
		}
		return max == 0 || n < max
	}
}

func containsAny(lower string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

func loadDocument(ctx context.Context, f httpx.Fetcher, pageURL string, timeout time.Duration) (*goquery.Document, error) {
	body, err := f.Fetch(ctx, pageURL, timeout)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	return doc, nil
}

// recoverInto turns a panic inside an extractor into a failed Result.
func recoverInto(res *Result, prefix string) {
	if r := recover(); r != nil {
		*res = failure(fmt.Sprintf("%s: %v", prefix, r))
	}
}
