package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/scratches"
	"github.com/go-shiori/go-readability"
)

// Ensure TitleResolver implements scratches.TitleResolver at compile time.
var _ scratches.TitleResolver = (*TitleResolver)(nil)

// TitleResolver wraps go-readability to find the title of an article page.
// It prefers OpenGraph, JSON-LD and other metadata over the <title> element,
// which often carries a site name suffix.
type TitleResolver struct{}

// NewTitleResolver creates a new TitleResolver.
func NewTitleResolver() *TitleResolver {
	return &TitleResolver{}
}

// ResolveTitle returns the article title, or "" when the page has none or
// cannot be parsed.
func (r *TitleResolver) ResolveTitle(rawHTML, pageURL string) string {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}

	var u *url.URL
	if pageURL != "" {
		if parsed, err := url.Parse(pageURL); err == nil && parsed.IsAbs() {
			u = parsed
		}
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.Title)
}
