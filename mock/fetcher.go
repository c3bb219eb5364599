package mock

import (
	"context"

	"github.com/fwojciec/scratches"
)

var _ scratches.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of scratches.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*scratches.Page, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*scratches.Page, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ scratches.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of scratches.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.WaitFn(ctx, domain)
}
