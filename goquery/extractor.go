package goquery

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scratches"
	"golang.org/x/net/html"
)

// Ensure Extractor implements scratches.Extractor at compile time.
var _ scratches.Extractor = (*Extractor)(nil)

// Extractor runs the full extraction pipeline: candidate scoring, body
// fallback, noise removal, markdown conversion and normalization.
// Extractor is safe for concurrent use; each call works on its own parse
// of the page.
type Extractor struct {
	converter scratches.Converter
	titles    scratches.TitleResolver
	logger    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConverter sets the markdown converter. Without one, bodies are
// rendered as plain text.
func WithConverter(c scratches.Converter) Option {
	return func(e *Extractor) {
		e.converter = c
	}
}

// WithTitleResolver sets the resolver used when the request has no title.
func WithTitleResolver(r scratches.TitleResolver) Option {
	return func(e *Extractor) {
		e.titles = r
	}
}

// WithLogger sets the logger for degraded extraction paths.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract never fails. A non-empty selection is returned as is. Otherwise
// the page is extracted; any failure, panics included, yields a result with
// SourceError.
func (e *Extractor) Extract(req *scratches.ExtractRequest, settings scratches.Settings) (result *scratches.ExtractionResult) {
	if req == nil {
		return scratches.FailedResult(nil, errors.New("no request"))
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extraction panicked", "url", req.URL, "panic", r)
			result = scratches.FailedResult(req, fmt.Errorf("%v", r))
		}
	}()

	if sel := strings.TrimSpace(req.Selection); sel != "" {
		return &scratches.ExtractionResult{
			Title:  fallbackTitle(strings.TrimSpace(req.Title), req.URL),
			URL:    req.URL,
			Body:   sel,
			Source: scratches.SourceSelection,
		}
	}

	result, err := e.extractPage(req, settings)
	if err != nil {
		e.logger.Warn("extraction failed", "url", req.URL, "err", err)
		return scratches.FailedResult(req, err)
	}
	return result
}

func (e *Extractor) extractPage(req *scratches.ExtractRequest, settings scratches.Settings) (*scratches.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(req.HTML))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	filters, invalid := CompileFilters(settings.AdvancedFiltering.CustomFilters)
	for _, s := range invalid {
		e.logger.Debug("skipping invalid filter", "selector", s)
	}
	rawSelectors := settings.ContentSelectors()
	selectors, invalid := CompileFilters(rawSelectors)
	for _, s := range invalid {
		e.logger.Debug("skipping invalid content selector", "selector", s)
	}

	page := &PageDocument{
		Title: e.resolveTitle(doc, req),
		URL:   req.URL,
	}

	fullPage := false
	best := SelectMainContent(doc, selectors, ScoreOptions{
		MinContentLength: settings.AdvancedFiltering.MinContentLength,
		MaxLinkRatio:     settings.AdvancedFiltering.MaxLinkRatio,
	})
	if best != nil {
		page.Root = best.Selection
		e.logger.Debug("content candidate selected", "url", req.URL, "selector", best.Selector, "score", best.Score)
	} else {
		page.Root = fallbackRoot(doc)
		fullPage = true
		e.logger.Debug("no content candidate, using page body", "url", req.URL)
	}

	body := e.convert(page, NewClassifier(filters, fullPage))
	if body == "" && len(rawSelectors) > 0 {
		body = scratches.PlaceholderBody
	}

	return &scratches.ExtractionResult{
		Title:  page.Title,
		URL:    page.URL,
		Body:   body,
		Source: scratches.SourcePage,
	}, nil
}

// convert renders the cleaned root as markdown, or as plain text when no
// converter is set or conversion fails, and normalizes the result.
func (e *Extractor) convert(page *PageDocument, c *Classifier) string {
	clean := c.Clean(page.Root.Get(0))

	if e.converter != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, clean); err != nil {
			e.logger.Warn("rendering HTML failed, using plain text", "url", page.URL, "err", err)
		} else if md, err := e.converter.Convert(buf.String(), page.URL); err != nil {
			e.logger.Warn("markdown conversion failed, using plain text", "url", page.URL, "err", err)
		} else {
			return scratches.Normalize(md)
		}
	}

	return scratches.Normalize(PlainText(clean))
}

func (e *Extractor) resolveTitle(doc *goquery.Document, req *scratches.ExtractRequest) string {
	if t := strings.TrimSpace(req.Title); t != "" {
		return t
	}
	if e.titles != nil {
		if t := strings.TrimSpace(e.titles.ResolveTitle(req.HTML, req.URL)); t != "" {
			return t
		}
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	return req.URL
}
