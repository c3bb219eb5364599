package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const longParagraph = "Hello world, this is a sufficiently long paragraph padded to exceed one hundred fifty characters of visible text so it clears the minimum content length threshold easily here."

func parseDoc(t *testing.T, markup string) *gq.Document {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func findNode(t *testing.T, markup, selector string) *html.Node {
	t.Helper()
	sel := parseDoc(t, markup).Find(selector)
	require.Positive(t, sel.Length(), "no element matches %q", selector)
	return sel.Get(0)
}
