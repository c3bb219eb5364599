package mock

import (
	"context"

	"github.com/fwojciec/scratches"
)

var _ scratches.SelectorFinder = (*SelectorFinder)(nil)

// SelectorFinder is a mock implementation of scratches.SelectorFinder.
type SelectorFinder struct {
	SuggestSelectorsFn func(ctx context.Context, pageURL string) (*scratches.SelectorSuggestion, error)
}

func (f *SelectorFinder) SuggestSelectors(ctx context.Context, pageURL string) (*scratches.SelectorSuggestion, error) {
	return f.SuggestSelectorsFn(ctx, pageURL)
}
