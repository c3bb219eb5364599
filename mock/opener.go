package mock

import (
	"context"

	"github.com/fwojciec/scratches"
)

var _ scratches.Opener = (*Opener)(nil)

// Opener is a mock implementation of scratches.Opener.
type Opener struct {
	OpenFn func(ctx context.Context, url string) error
}

func (o *Opener) Open(ctx context.Context, url string) error {
	return o.OpenFn(ctx, url)
}
