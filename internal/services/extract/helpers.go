package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NewDocument parses an HTML string into a traversable document.
func NewDocument(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// firstText tries selectors in priority order and returns the first non-empty
// trimmed text.
func firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		text := strings.TrimSpace(doc.Find(selector).Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// ownText returns the element's direct text with child element text removed.
func ownText(s *goquery.Selection) string {
	clone := s.Clone()
	clone.Children().Remove()
	return strings.TrimSpace(clone.Text())
}

// cellText returns the trimmed text of cell idx, or "" when the row is too
// short or idx is negative.
func cellText(cells *goquery.Selection, idx int) string {
	if idx < 0 || idx >= cells.Length() {
		return ""
	}
	return strings.TrimSpace(cells.Eq(idx).Text())
}

// resolveURL resolves a possibly relative src against the configured base URL.
// Unparseable inputs fall back to plain concatenation so a malformed href
// still surfaces to the caller instead of vanishing.
func resolveURL(baseURL, src string) string {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return baseURL + src
	}
	ref, err := url.Parse(strings.TrimPrefix(src, "./"))
	if err != nil {
		return baseURL + src
	}
	return base.ResolveReference(ref).String()
}

// isDigits reports whether s is a non-empty all-digit string.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
