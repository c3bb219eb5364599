// Package gemini implements scratches.SelectorFinder using Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fwojciec/scratches"
	"golang.org/x/net/html"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model asked for selectors.
const DefaultModel = "gemini-2.5-flash"

// MaxSkeletonLength is the longest page skeleton sent to the model, in bytes.
const MaxSkeletonLength = 30000

// MaxPromptTokens bounds the prompt when a TokenCounter is configured.
const MaxPromptTokens = 12000

// Ensure SelectorFinder implements scratches.SelectorFinder at compile time.
var _ scratches.SelectorFinder = (*SelectorFinder)(nil)

// SelectorFinder asks Gemini for the content and noise selectors of a page.
type SelectorFinder struct {
	client  *genai.Client
	fetcher scratches.Fetcher
	model   string
	tokens  scratches.TokenCounter
	logger  *slog.Logger
}

// Option configures a SelectorFinder.
type Option func(*SelectorFinder)

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(f *SelectorFinder) {
		f.model = model
	}
}

// WithTokenCounter makes the finder shrink the skeleton until the prompt
// fits in MaxPromptTokens.
func WithTokenCounter(tc scratches.TokenCounter) Option {
	return func(f *SelectorFinder) {
		f.tokens = tc
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *SelectorFinder) {
		f.logger = l
	}
}

// NewSelectorFinder creates a new SelectorFinder.
func NewSelectorFinder(client *genai.Client, fetcher scratches.Fetcher, opts ...Option) *SelectorFinder {
	f := &SelectorFinder{
		client:  client,
		fetcher: fetcher,
		model:   DefaultModel,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SuggestSelectors fetches pageURL and asks the model which element holds
// the article and which elements should be removed from it.
func (f *SelectorFinder) SuggestSelectors(ctx context.Context, pageURL string) (*scratches.SelectorSuggestion, error) {
	if err := validatePageURL(pageURL); err != nil {
		return nil, err
	}

	page, err := f.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}

	skeleton := Skeleton(page.HTML, MaxSkeletonLength)
	if skeleton == "" {
		return nil, scratches.Errorf(scratches.EINVALID, "page %s has no markup", pageURL)
	}

	prompt, err := f.fitPrompt(ctx, page.URL, page.HTML, skeleton)
	if err != nil {
		return nil, err
	}

	result, err := f.client.Models.GenerateContent(ctx, f.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, scratches.Errorf(scratches.EINTERNAL, "gemini returned nil result")
	}

	return ParseSuggestion(result.Text())
}

// fitPrompt halves the skeleton limit until the prompt is within
// MaxPromptTokens. Each attempt skeletonizes rawHTML afresh. Without a token
// counter the prompt is used as is.
func (f *SelectorFinder) fitPrompt(ctx context.Context, pageURL, rawHTML, skeleton string) (string, error) {
	prompt := BuildUserPrompt(pageURL, skeleton)
	if f.tokens == nil {
		return prompt, nil
	}
	limit := MaxSkeletonLength
	for {
		n, err := f.tokens.CountTokens(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("counting prompt tokens: %w", err)
		}
		if n <= MaxPromptTokens || limit < 1000 {
			f.logger.Debug("selector prompt ready", "url", pageURL, "tokens", n, "skeleton", len(skeleton))
			return prompt, nil
		}
		limit /= 2
		skeleton = Skeleton(rawHTML, limit)
		prompt = BuildUserPrompt(pageURL, skeleton)
	}
}

func validatePageURL(pageURL string) error {
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return scratches.Errorf(scratches.EINVALID, "absolute http(s) URL required, got %q", pageURL)
	}
	return nil
}

// BuildConfig returns the GenerateContentConfig for selector requests.
// Answers are constrained to the suggestion JSON shape.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are an expert in HTML structure and CSS selectors. Given the skeleton of a web page, identify the single CSS selector that best matches the element containing the main article text, and the CSS selectors of elements inside or around it that are not part of the article (ads, share buttons, related links, newsletter forms, comments). Prefer stable ids, semantic tags and descriptive class names over positional selectors. Answer with JSON only.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"contentSelector": {Type: genai.TypeString},
				"elementsToRemove": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"contentSelector", "elementsToRemove"},
		},
	}
}

// BuildUserPrompt builds the prompt containing the page skeleton.
func BuildUserPrompt(pageURL, skeleton string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<url>%s</url>\n", pageURL)
	sb.WriteString("<skeleton>\n")
	sb.WriteString(skeleton)
	sb.WriteString("\n</skeleton>\n\n")
	sb.WriteString(`Respond with {"contentSelector": "...", "elementsToRemove": ["...", "..."]}.`)
	return sb.String()
}

// ParseSuggestion decodes a model answer. Markdown code fences around the
// JSON are tolerated. Selectors are trimmed and deduplicated.
func ParseSuggestion(text string) (*scratches.SelectorSuggestion, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var s scratches.SelectorSuggestion
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, scratches.Errorf(scratches.EINTERNAL, "unreadable model answer: %v", err)
	}

	s.ContentSelector = strings.TrimSpace(s.ContentSelector)
	s.ElementsToRemove = scratches.DedupeSelectors(s.ElementsToRemove)
	if s.ElementsToRemove == nil {
		s.ElementsToRemove = []string{}
	}
	if s.ContentSelector == "" && len(s.ElementsToRemove) == 0 {
		return nil, scratches.Errorf(scratches.ENOTFOUND, "model found no selectors")
	}
	return &s, nil
}

// skippedTags are dropped from the skeleton with their contents.
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"svg":      true,
	"noscript": true,
	"template": true,
	"iframe":   true,
	"head":     true,
}

// keptAttrs are the attributes useful for writing selectors.
var keptAttrs = map[string]bool{
	"id":         true,
	"class":      true,
	"role":       true,
	"itemprop":   true,
	"itemtype":   true,
	"aria-label": true,
}

// maxTextRun is the longest text kept between two tags.
const maxTextRun = 80

// Skeleton reduces rawHTML to its element structure: scripts, styles, SVG
// and comments are dropped, only selector-relevant attributes are kept and
// text runs are shortened. The result is cut to at most limit bytes at a
// tag boundary.
func Skeleton(rawHTML string, limit int) string {
	z := html.NewTokenizer(strings.NewReader(rawHTML))
	var sb strings.Builder
	skipDepth := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		var piece string
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if skippedTags[tok.Data] {
				if tt == html.StartTagToken {
					skipDepth++
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			piece = renderTag(tok)
		case html.EndTagToken:
			tok := z.Token()
			if skippedTags[tok.Data] {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			piece = "</" + tok.Data + ">"
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.Join(strings.Fields(string(z.Text())), " ")
			if text == "" {
				continue
			}
			if r := []rune(text); len(r) > maxTextRun {
				text = string(r[:maxTextRun]) + "…"
			}
			piece = html.EscapeString(text)
		default:
			continue
		}

		if sb.Len()+len(piece) > limit {
			break
		}
		sb.WriteString(piece)
	}
	return sb.String()
}

func renderTag(tok html.Token) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(tok.Data)
	for _, a := range tok.Attr {
		if !keptAttrs[a.Key] {
			continue
		}
		val := strings.Join(strings.Fields(a.Val), " ")
		if val == "" {
			continue
		}
		fmt.Fprintf(&sb, " %s=\"%s\"", a.Key, html.EscapeString(val))
	}
	sb.WriteByte('>')
	return sb.String()
}
