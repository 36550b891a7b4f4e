// Package htmlindex extracts anchor listings from HTML index pages.
//
// Mirror-style indexes (PyPI simple pages among them) are plain documents
// whose payload is a flat list of <a> elements: the href points at an
// artifact or sub-listing, the anchor text carries the display name. This
// package turns such a document into that list, in document order.
package htmlindex

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Anchor is one <a> element of an index page.
type Anchor struct {
	// URL is the href value resolved against the page URL.
	URL string
	// Text is the anchor's visible text, trimmed of surrounding
	// whitespace. On package listings this is the artifact filename.
	Text string
}

// Anchors parses the document from r and returns every anchor that
// carries an href, in document order. Hrefs are resolved against pageURL;
// empty or unparseable hrefs are skipped. Anchors may repeat: callers that
// need uniqueness must dedup themselves.
//
// The parser is the tolerant html5 one, so truncated or malformed markup
// still yields the anchors that survive intact.
func Anchors(pageURL string, r io.Reader) ([]Anchor, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out []Anchor

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if !strings.EqualFold(a.Key, "href") {
					continue
				}
				href := strings.TrimSpace(a.Val)
				if href == "" {
					continue
				}
				u, err := url.Parse(href)
				if err != nil {
					continue // malformed href, nothing to list
				}
				out = append(out, Anchor{
					URL:  base.ResolveReference(u).String(),
					Text: strings.TrimSpace(nodeText(n)),
				})
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	return out, nil
}

// nodeText concatenates the text nodes beneath n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
