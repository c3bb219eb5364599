package scratches

import (
	"slices"
	"sort"
)

// Preset names.
const (
	PresetDefault = "default"
	PresetLegacy  = "legacy"
	PresetNews    = "news"
	PresetDocs    = "docs"
)

var presets = map[string][]string{
	PresetDefault: {
		"article",
		"main",
		"[role=\"main\"]",
		".post-content",
		".entry-content",
		".article-content",
		".article-body",
		"#content",
		".content",
	},
	// The selector list of the old full-page extractor.
	PresetLegacy: {
		"article",
		"[role=\"main\"]",
		"main",
		".post",
		".entry",
		".post-body",
		".story-body",
		"#main-content",
		"#main",
		".main",
		"#content",
		".content",
	},
	PresetNews: {
		"[itemprop=\"articleBody\"]",
		".article-body",
		".story-body",
		".story-content",
		"article",
		".c-article-body",
		"main",
	},
	PresetDocs: {
		".markdown",
		".theme-doc-markdown",
		"article",
		".md-content",
		".rst-content",
		".document",
		"main",
		"[role=\"main\"]",
	},
}

// Preset returns a copy of the named selector list.
func Preset(name string) ([]string, bool) {
	selectors, ok := presets[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(selectors), true
}

// PresetNames returns the names of all presets in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithPreset returns s using the named preset as its custom selector list.
func (s Settings) WithPreset(name string) (Settings, error) {
	selectors, ok := Preset(name)
	if !ok {
		return s, Errorf(ENOTFOUND, "preset %q not found", name)
	}
	s.ContentExtraction.Strategy = StrategyCustom
	s.ContentExtraction.CustomSelectors = selectors
	return s, nil
}
