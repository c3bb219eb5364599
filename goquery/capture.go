package goquery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scratches"
)

// Capture budget bounds, in characters.
const (
	MinCaptureBudget = 2000
	MaxCaptureBudget = 10000
)

// captureSelectors are tried in order by Capture.
var captureSelectors = []string{
	"article",
	"main",
	"[role=\"main\"]",
	".content",
	".post-content",
	".entry-content",
	"#content",
}

// Capture is the lightweight extraction path. It returns the selection when
// there is one, else the text of the first element matching a fixed list of
// content selectors, else the body text. Page text is cut to budget
// characters, clamped to [MinCaptureBudget, MaxCaptureBudget]. No scoring or
// markdown conversion takes place. Capture never panics; failures yield a
// result with SourceError.
func Capture(req *scratches.ExtractRequest, budget int) (result *scratches.ExtractionResult) {
	if req == nil {
		return scratches.FailedResult(nil, errors.New("no request"))
	}

	defer func() {
		if r := recover(); r != nil {
			result = scratches.FailedResult(req, fmt.Errorf("%v", r))
		}
	}()

	title := strings.TrimSpace(req.Title)

	if sel := strings.TrimSpace(req.Selection); sel != "" {
		return &scratches.ExtractionResult{
			Title:  fallbackTitle(title, req.URL),
			URL:    req.URL,
			Body:   sel,
			Source: scratches.SourceSelection,
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(req.HTML))
	if err != nil {
		return scratches.FailedResult(req, err)
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	root := fallbackRoot(doc)
	for _, s := range captureSelectors {
		if m := doc.Find(s).First(); m.Length() > 0 && visibleText(m.Get(0)) != "" {
			root = m
			break
		}
	}

	body := scratches.Normalize(PlainText(root.Get(0)))
	body = truncate(body, clampBudget(budget))
	if body == "" {
		body = scratches.PlaceholderBody
	}

	return &scratches.ExtractionResult{
		Title:  fallbackTitle(title, req.URL),
		URL:    req.URL,
		Body:   body,
		Source: scratches.SourcePage,
	}
}

func clampBudget(budget int) int {
	switch {
	case budget < MinCaptureBudget:
		return MinCaptureBudget
	case budget > MaxCaptureBudget:
		return MaxCaptureBudget
	default:
		return budget
	}
}

// truncate cuts s to at most n characters, preferring a word boundary.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	cut := string(runes[:n])
	if i := strings.LastIndexAny(cut, " \n"); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

func fallbackTitle(title, pageURL string) string {
	if title != "" {
		return title
	}
	return pageURL
}
