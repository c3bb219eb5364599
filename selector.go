package scratches

import "context"

// SelectorSuggestion is a proposed pair of content and removal selectors
// for a site. Suggestions are meant for a human to review and paste into
// CustomSelectors and CustomFilters.
type SelectorSuggestion struct {
	ContentSelector  string   `json:"contentSelector"`
	ElementsToRemove []string `json:"elementsToRemove"`
}

// Apply returns s with the suggestion added to its selector lists. The
// content selector is tried first; the strategy switches to custom.
func (sg *SelectorSuggestion) Apply(s Settings) Settings {
	if sg.ContentSelector != "" {
		selectors := append([]string{sg.ContentSelector}, s.ContentSelectors()...)
		s.ContentExtraction.Strategy = StrategyCustom
		s.ContentExtraction.CustomSelectors = selectors
	}
	filters := append(append([]string(nil), s.AdvancedFiltering.CustomFilters...), sg.ElementsToRemove...)
	s.AdvancedFiltering.CustomFilters = filters
	return s.Clean()
}

// SelectorFinder suggests selectors for a page.
type SelectorFinder interface {
	// SuggestSelectors inspects the page at pageURL.
	// Returns EINVALID if pageURL is not an absolute http(s) URL.
	SuggestSelectors(ctx context.Context, pageURL string) (*SelectorSuggestion, error)
}
