// Package rod implements scratches.Fetcher with headless Chrome.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/scratches"
	"github.com/fwojciec/scratches/goquery"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load when the caller's context
// has no deadline.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements scratches.Fetcher at compile time.
var _ scratches.Fetcher = (*Fetcher)(nil)

// stampScript records the rendered size of every element in the body as
// attributes the classifier reads, and reports the title and selection.
const stampScript = `(w, h) => {
	for (const el of document.body ? document.body.querySelectorAll('*') : []) {
		const r = el.getBoundingClientRect();
		el.setAttribute(w, String(Math.round(r.width)));
		el.setAttribute(h, String(Math.round(r.height)));
	}
	const sel = window.getSelection ? String(window.getSelection()) : '';
	return { title: document.title || '', selection: sel };
}`

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the page load timeout.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// The browser is recycled every DefaultMaxPages pages. Close must be called
// when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	manager, err := NewBrowserManager()
	if err != nil {
		return nil, err
	}
	f := &Fetcher{manager: manager, timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch navigates to the URL and returns the rendered page. Elements carry
// their rendered size in goquery.AttrRenderedWidth and AttrRenderedHeight.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*scratches.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.manager.closed.Load() {
		return nil, scratches.Errorf(scratches.EINVALID, "fetcher is closed")
	}
	if _, ok := ctx.Deadline(); !ok && f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	browser := f.manager.Browser()
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer page.Close()
	defer f.manager.IncrementPageCount()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	res, err := page.Eval(stampScript, goquery.AttrRenderedWidth, goquery.AttrRenderedHeight)
	if err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	info, err := page.Info()
	final := url
	if err == nil && info.URL != "" {
		final = info.URL
	}

	return &scratches.Page{
		URL:       final,
		HTML:      html,
		Title:     res.Value.Get("title").Str(),
		Selection: res.Value.Get("selection").Str(),
	}, nil
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}
