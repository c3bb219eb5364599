package mock

import "github.com/fwojciec/scratches"

var _ scratches.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of scratches.Extractor.
type Extractor struct {
	ExtractFn func(req *scratches.ExtractRequest, settings scratches.Settings) *scratches.ExtractionResult
}

func (e *Extractor) Extract(req *scratches.ExtractRequest, settings scratches.Settings) *scratches.ExtractionResult {
	return e.ExtractFn(req, settings)
}

var _ scratches.TitleResolver = (*TitleResolver)(nil)

// TitleResolver is a mock implementation of scratches.TitleResolver.
type TitleResolver struct {
	ResolveTitleFn func(html, pageURL string) string
}

func (r *TitleResolver) ResolveTitle(html, pageURL string) string {
	return r.ResolveTitleFn(html, pageURL)
}
