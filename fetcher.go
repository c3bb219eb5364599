package scratches

import "context"

// Page is a fetched web page.
type Page struct {
	URL   string
	HTML  string
	Title string

	// Selection is the text selected in the page, if the fetcher can see it.
	Selection string
}

// Request converts a fetched page into an extraction request.
func (p *Page) Request() *ExtractRequest {
	return &ExtractRequest{
		URL:       p.URL,
		HTML:      p.HTML,
		Title:     p.Title,
		Selection: p.Selection,
	}
}

// Fetcher retrieves pages. Implementations may use browser automation to
// handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the page at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Page, error)

	// Close releases resources held by the fetcher.
	Close() error
}

// DomainLimiter provides per-domain rate limiting for fetches.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed.
	// Returns an error if the context is canceled before the wait completes.
	Wait(ctx context.Context, domain string) error
}
