// Package clip runs the extraction pipeline over a batch of URLs. Each URL
// is fetched and extracted independently; a failure never affects the
// other URLs.
package clip

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/scratches"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of URLs processed at once.
const DefaultConcurrency = 4

// Clipping is the outcome of clipping one URL.
type Clipping struct {
	ID  string
	URL string

	// Result is always set. When the page could not be fetched it is a
	// SourceError result describing Err.
	Result *scratches.ExtractionResult

	// Err is the fetch error, if any.
	Err error
}

// Document returns the clipping as a template document.
func (c *Clipping) Document() scratches.Document {
	return scratches.DocumentFromResult(c.Result)
}

// Clipper fetches and extracts pages.
type Clipper struct {
	Fetcher     scratches.Fetcher
	Extractor   scratches.Extractor
	RateLimiter scratches.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// ClipAll clips every URL in urls with settings and returns the clippings
// in input order. progress, if set, is called once per URL as it finishes,
// from the calling goroutine. The only error returned is the context's.
func (c *Clipper) ClipAll(ctx context.Context, urls []string, settings scratches.Settings, progress scratches.ClipProgressFunc) ([]*Clipping, error) {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	type indexed struct {
		pos int
		c   *Clipping
	}
	resultCh := make(chan indexed, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- indexed{pos: i, c: c.Clip(gctx, u, settings)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	clippings := make([]*Clipping, len(urls))
	var completed atomic.Int64
	for r := range resultCh {
		clippings[r.pos] = r.c
		n := completed.Add(1)
		if progress != nil {
			progress(scratches.ClipProgress{
				URL:       r.c.URL,
				Completed: int(n),
				Total:     len(urls),
				Error:     r.c.Err,
			})
		}
	}

	if err := ctx.Err(); err != nil {
		return clippings, err
	}
	return clippings, nil
}

// Clip fetches and extracts a single URL.
func (c *Clipper) Clip(ctx context.Context, rawURL string, settings scratches.Settings) *Clipping {
	clipping := &Clipping{
		ID:  uuid.New().String(),
		URL: rawURL,
	}

	page, err := c.fetch(ctx, rawURL)
	if err != nil {
		clipping.Err = err
		clipping.Result = scratches.FailedResult(&scratches.ExtractRequest{URL: rawURL}, err)
		return clipping
	}

	clipping.URL = page.URL
	clipping.Result = c.Extractor.Extract(page.Request(), settings)
	return clipping
}

func (c *Clipper) fetch(ctx context.Context, rawURL string) (*scratches.Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, scratches.Errorf(scratches.EINVALID, "not an http(s) URL: %q", rawURL)
	}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	page, err := FetchWithRetry(ctx, rawURL, c.Fetcher.Fetch, c.logRetry, delays)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	if page.URL == "" {
		page.URL = rawURL
	}
	return page, nil
}

func (c *Clipper) logRetry(url string, attempt int, err error) {
	if c.Logger != nil {
		c.Logger.Warn("retrying fetch", "url", url, "attempt", attempt, "err", err)
	}
}

// Summary describes a finished batch, for example "3 clipped, 1 failed (12.5 KB)".
func Summary(clippings []*Clipping) string {
	var ok, failed, size int
	for _, c := range clippings {
		if c == nil {
			continue
		}
		if c.Err != nil || c.Result.Source == scratches.SourceError {
			failed++
			continue
		}
		ok++
		size += len(c.Result.Body)
	}
	return fmt.Sprintf("%d clipped, %d failed (%s)", ok, failed, FormatBytes(size))
}
