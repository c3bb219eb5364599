package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Score adjustments for candidate elements.
const (
	BonusArticleTag   = 1000
	BonusRoleMain     = 800
	BonusItemType     = 600
	BonusContentClass = 400
	PenaltyNavClass   = -2000
)

var (
	contentClassHints = []string{"article", "content", "post", "entry"}
	navClassHints     = []string{"nav", "menu", "header", "footer"}
)

// ScoreOptions are the thresholds a candidate must pass.
type ScoreOptions struct {
	MinContentLength int
	MaxLinkRatio     float64
}

// Candidate is a scored element matched by a content selector.
type Candidate struct {
	Selection *goquery.Selection
	Selector  string
	Score     int
}

// PageDocument is the page being extracted and the root chosen as its content.
type PageDocument struct {
	Title string
	URL   string
	Root  *goquery.Selection
}

// SelectMainContent scores every element matched by selectors, in selector
// order and then document order, and returns the highest scoring one.
// Elements shorter than MinContentLength or with a link ratio of at least
// MaxLinkRatio are never selected. On equal scores the earlier element wins.
// Returns nil when no element qualifies.
func SelectMainContent(doc *goquery.Document, selectors []Filter, opts ScoreOptions) *Candidate {
	var best *Candidate
	for _, f := range selectors {
		doc.FindMatcher(f.sel).Each(func(_ int, s *goquery.Selection) {
			score, ok := ScoreElement(s.Get(0), opts)
			if !ok {
				return
			}
			if best == nil || score > best.Score {
				best = &Candidate{Selection: s, Selector: f.Raw, Score: score}
			}
		})
	}
	return best
}

// ScoreElement returns the score of n and whether it passes the thresholds.
func ScoreElement(n *html.Node, opts ScoreOptions) (int, bool) {
	e := element{n: n}

	length := textLength(e.text())
	if length < opts.MinContentLength {
		return 0, false
	}
	if linkRatio(n, length) >= opts.MaxLinkRatio {
		return 0, false
	}

	score := length
	if e.tag() == "article" {
		score += BonusArticleTag
	}
	if role, _ := e.attr("role"); strings.EqualFold(strings.TrimSpace(role), "main") {
		score += BonusRoleMain
	}
	if e.hasAttr("itemtype") {
		score += BonusItemType
	}
	classID := e.classID()
	if containsAny(classID, contentClassHints) {
		score += BonusContentClass
	}
	if containsAny(classID, navClassHints) {
		score += PenaltyNavClass
	}
	return score, true
}

// linkRatio is the share of visible text inside anchors. Empty elements
// count as all links.
func linkRatio(n *html.Node, length int) float64 {
	if length == 0 {
		return 1
	}
	linkChars := 0
	goquery.NewDocumentFromNode(n).Find("a").Each(func(_ int, a *goquery.Selection) {
		linkChars += textLength(visibleText(a.Get(0)))
	})
	return float64(linkChars) / float64(length)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// fallbackRoot returns the body used when no candidate qualifies. Custom
// filters are removed while cleaning, since they are the classifier's
// second rule.
func fallbackRoot(doc *goquery.Document) *goquery.Selection {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return doc.Selection
	}
	return body
}
