package goquery

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// NoiseReason is the rule that classified an element as noise.
type NoiseReason int

// Noise reasons, in the order rules are evaluated.
const (
	NotNoise NoiseReason = iota
	NoiseTag
	NoiseFilter
	NoiseMedia
	NoiseImageLink
	NoiseStructuredData
	NoiseKeyword
	NoiseAdSize
)

func (r NoiseReason) String() string {
	switch r {
	case NotNoise:
		return "none"
	case NoiseTag:
		return "tag"
	case NoiseFilter:
		return "filter"
	case NoiseMedia:
		return "media"
	case NoiseImageLink:
		return "image-link"
	case NoiseStructuredData:
		return "structured-data"
	case NoiseKeyword:
		return "keyword"
	case NoiseAdSize:
		return "ad-size"
	default:
		return "unknown"
	}
}

// MaxPhraseTextLength is the text length from which an element is too long
// to be dropped because it contains a noise phrase.
const MaxPhraseTextLength = 1000

// AdSizeTolerance is the allowed deviation, in pixels, from a banner size.
const AdSizeTolerance = 10

// adSizes are common IAB banner dimensions (width, height).
var adSizes = [][2]int{
	{728, 90},
	{300, 250},
	{336, 280},
	{300, 600},
	{160, 600},
	{120, 600},
	{320, 50},
	{320, 100},
	{468, 60},
	{970, 90},
	{970, 250},
	{250, 250},
	{234, 60},
}

var (
	mediaFilterRe = regexp.MustCompile(`(?i)img|picture|figure|video|audio|media`)
	imageHrefRe   = regexp.MustCompile(`(?i)\.(?:jpe?g|png|gif|webp|svg|bmp|tiff?)(?:\?[^#]*)?(?:#.*)?$`)
)

var mediaTags = map[string]bool{
	"img":        true,
	"picture":    true,
	"figure":     true,
	"video":      true,
	"audio":      true,
	"figcaption": true,
}

// noiseKeywords match whole class/id tokens.
var noiseKeywords = map[string]bool{
	"ad": true, "ads": true, "adv": true, "advert": true, "advertisement": true,
	"advertising": true, "banner": true, "breadcrumb": true, "breadcrumbs": true,
	"byline": true, "comment": true, "comments": true, "cookie": true,
	"donate": true, "donation": true, "footer": true, "masthead": true,
	"menu": true, "modal": true, "nav": true, "navbar": true,
	"navigation": true, "newsletter": true, "outbrain": true, "paywall": true,
	"popup": true, "promo": true, "promoted": true, "recommended": true,
	"related": true, "share": true, "sharing": true, "sidebar": true,
	"signup": true, "social": true, "sponsor": true, "sponsored": true,
	"subscribe": true, "subscription": true, "taboola": true, "widget": true,
}

// noiseKeywordFragments match anywhere in class/id text.
var noiseKeywordFragments = []string{
	"advert", "sponsor", "newsletter", "paywall", "donate", "related-",
	"social-", "share-", "comments", "cookie-", "subscribe",
}

// noisePhrases match the visible text of short elements.
var noisePhrases = []string{
	"advertisement",
	"sponsored content",
	"paid content",
	"subscribe to our newsletter",
	"sign up for our newsletter",
	"related articles",
	"related stories",
	"recommended for you",
	"you may also like",
	"more from",
	"share this article",
	"leave a comment",
	"support our journalism",
	"donate now",
	"become a member",
	"already a subscriber",
	"subscribe to continue",
	"follow us on",
}

// Classifier decides whether an element is noise. The zero value only
// applies the rules that need no configuration.
type Classifier struct {
	filters  []Filter
	media    bool
	fullPage bool
}

// NewClassifier returns a Classifier using filters. The keyword and ad-size
// rules only apply when fullPage is set, that is when no content candidate
// was found and the whole body is being converted.
func NewClassifier(filters []Filter, fullPage bool) *Classifier {
	c := &Classifier{filters: filters, fullPage: fullPage}
	for _, f := range filters {
		if mediaFilterRe.MatchString(f.Raw) {
			c.media = true
			break
		}
	}
	return c
}

// IsNoise reports whether n should be excluded from the document.
func (c *Classifier) IsNoise(n *html.Node) bool {
	return c.Classify(n) != NotNoise
}

// Classify returns the first rule that marks n as noise, or NotNoise.
// Only element nodes can be noise.
func (c *Classifier) Classify(n *html.Node) NoiseReason {
	if n == nil || n.Type != html.ElementNode {
		return NotNoise
	}
	e := element{n: n}
	tag := e.tag()

	switch tag {
	case "script", "style", "noscript":
		return NoiseTag
	}

	for _, f := range c.filters {
		if f.Match(n) {
			return NoiseFilter
		}
	}

	if c.media && mediaTags[tag] {
		return NoiseMedia
	}

	if tag == "a" {
		if href, ok := e.attr("href"); ok && imageHrefRe.MatchString(strings.TrimSpace(href)) {
			return NoiseImageLink
		}
	}

	if t, _ := e.attr("type"); strings.EqualFold(strings.TrimSpace(t), "application/ld+json") {
		return NoiseStructuredData
	}
	if e.hasAttr("itemtype") || e.hasAttr("itemscope") {
		return NoiseStructuredData
	}

	if !c.fullPage {
		return NotNoise
	}

	if hasNoiseKeyword(e.classID()) || hasNoisePhrase(e) {
		return NoiseKeyword
	}

	if w, h, ok := e.box(); ok && isAdSize(w, h) {
		return NoiseAdSize
	}

	return NotNoise
}

func hasNoiseKeyword(classID string) bool {
	if classID == "" {
		return false
	}
	tokens := strings.FieldsFunc(classID, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, t := range tokens {
		if noiseKeywords[t] {
			return true
		}
	}
	for _, frag := range noiseKeywordFragments {
		if strings.Contains(classID, frag) {
			return true
		}
	}
	return false
}

func hasNoisePhrase(e element) bool {
	text := e.text()
	if text == "" || textLength(text) >= MaxPhraseTextLength {
		return false
	}
	text = strings.ToLower(text)
	for _, p := range noisePhrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func isAdSize(w, h int) bool {
	for _, s := range adSizes {
		if abs(w-s[0]) <= AdSizeTolerance && abs(h-s[1]) <= AdSizeTolerance {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Clean returns a deep copy of root without comments and without any
// descendant subtree classified as noise. Classification runs against the
// original tree so selectors see the real ancestors. The root itself is
// kept: it was chosen as the content and is never reclassified.
func (c *Classifier) Clean(root *html.Node) *html.Node {
	return c.cloneClean(root)
}

func (c *Classifier) cloneClean(n *html.Node) *html.Node {
	out := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.CommentNode || c.IsNoise(child) {
			continue
		}
		out.AppendChild(c.cloneClean(child))
	}
	return out
}
