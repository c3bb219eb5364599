package scratches

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

// Strategy selects where content selectors come from.
type Strategy string

// Content selector strategies.
const (
	// StrategyDefault uses the built-in "default" preset.
	StrategyDefault Strategy = "default"
	// StrategyCustom uses ContentExtraction.CustomSelectors.
	StrategyCustom Strategy = "custom"
)

// TitleFormat controls how {formattedTitle} is rendered.
type TitleFormat string

// Title formats.
const (
	TitleH1    TitleFormat = "h1"
	TitleH2    TitleFormat = "h2"
	TitleH3    TitleFormat = "h3"
	TitleBold  TitleFormat = "bold"
	TitlePlain TitleFormat = "plain"
)

// Default thresholds and template.
const (
	DefaultMinContentLength = 150
	DefaultMaxLinkRatio     = 0.5
	DefaultTemplate         = "{formattedTitle}\n\n{url}\n\n---\n\n{content}"
)

// Settings parameterizes a single extraction and the document it produces.
// Settings is a value: callers that want a change build a new one and pass
// it to the next pipeline call.
type Settings struct {
	ContentExtraction ContentExtraction `json:"contentExtraction"`
	AdvancedFiltering AdvancedFiltering `json:"advancedFiltering"`
	OutputFormat      OutputFormat      `json:"outputFormat"`
}

// ContentExtraction lists the selectors tried when looking for the main content.
type ContentExtraction struct {
	Strategy        Strategy `json:"strategy"`
	CustomSelectors []string `json:"customSelectors"`
}

// AdvancedFiltering configures noise removal and candidate thresholds.
type AdvancedFiltering struct {
	// CustomFilters are selectors for elements that are always removed.
	CustomFilters []string `json:"customFilters"`

	// MinContentLength is the minimum visible text length, in characters,
	// for an element to be considered as main content.
	MinContentLength int `json:"minContentLength"`

	// MaxLinkRatio rejects candidates whose anchor text makes up this
	// fraction of their visible text or more.
	MaxLinkRatio float64 `json:"maxLinkRatio"`
}

// OutputFormat describes the document handed to the note app.
type OutputFormat struct {
	Template    string      `json:"template"`
	TitleFormat TitleFormat `json:"titleFormat"`
	DefaultTag  string      `json:"defaultTag"`
}

// DefaultSettings returns a fresh copy of the default settings. Callers may
// modify the returned value without affecting later calls.
func DefaultSettings() Settings {
	selectors, _ := Preset(PresetDefault)
	return Settings{
		ContentExtraction: ContentExtraction{
			Strategy:        StrategyDefault,
			CustomSelectors: selectors,
		},
		AdvancedFiltering: AdvancedFiltering{
			CustomFilters:    slices.Clone(defaultFilters),
			MinContentLength: DefaultMinContentLength,
			MaxLinkRatio:     DefaultMaxLinkRatio,
		},
		OutputFormat: OutputFormat{
			Template:    DefaultTemplate,
			TitleFormat: TitleH1,
		},
	}
}

var defaultFilters = []string{
	"nav",
	"aside",
	"footer",
	".ad",
	".ads",
	".advertisement",
	".social-share",
	".share-buttons",
	".comments",
	"#comments",
	".related-posts",
	".newsletter-signup",
	".sidebar",
	"[aria-hidden=\"true\"]",
}

// ContentSelectors returns the selectors to score, in order. The default
// strategy, or a custom strategy with an empty list, uses the default preset.
func (s Settings) ContentSelectors() []string {
	if s.ContentExtraction.Strategy == StrategyCustom && len(s.ContentExtraction.CustomSelectors) > 0 {
		return slices.Clone(s.ContentExtraction.CustomSelectors)
	}
	selectors, _ := Preset(PresetDefault)
	return selectors
}

// Clean trims selector lists, drops empty entries and removes duplicates
// while preserving the first occurrence.
func (s Settings) Clean() Settings {
	s.ContentExtraction.CustomSelectors = DedupeSelectors(s.ContentExtraction.CustomSelectors)
	s.AdvancedFiltering.CustomFilters = DedupeSelectors(s.AdvancedFiltering.CustomFilters)
	s.OutputFormat.DefaultTag = strings.TrimSpace(s.OutputFormat.DefaultTag)
	return s
}

// Validate returns EINVALID when a threshold or enum is out of range.
// Selector syntax is not checked: invalid selectors are skipped at
// extraction time.
func (s Settings) Validate() error {
	switch s.ContentExtraction.Strategy {
	case StrategyDefault, StrategyCustom:
	default:
		return Errorf(EINVALID, "unknown content strategy %q", s.ContentExtraction.Strategy)
	}
	if s.AdvancedFiltering.MinContentLength < 0 {
		return Errorf(EINVALID, "minContentLength must not be negative")
	}
	if r := s.AdvancedFiltering.MaxLinkRatio; r < 0 || r > 1 {
		return Errorf(EINVALID, "maxLinkRatio must be between 0 and 1")
	}
	switch s.OutputFormat.TitleFormat {
	case TitleH1, TitleH2, TitleH3, TitleBold, TitlePlain:
	default:
		return Errorf(EINVALID, "unknown title format %q", s.OutputFormat.TitleFormat)
	}
	return nil
}

// DedupeSelectors returns selectors trimmed, without empty strings and
// without duplicates. Order of first occurrence is kept.
func DedupeSelectors(selectors []string) []string {
	out := make([]string, 0, len(selectors))
	seen := make(map[string]bool, len(selectors))
	for _, s := range selectors {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// ParseSettings decodes stored settings of any known shape. Legacy shapes
// are migrated and missing fields take their default values.
func ParseSettings(data []byte) (Settings, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return DefaultSettings(), nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Settings{}, Errorf(EINVALID, "invalid settings JSON: %v", err)
	}

	s, err := MergeSettings(DefaultSettings(), MigrateSettings(raw))
	if err != nil {
		return Settings{}, err
	}
	s = s.Clean()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// MarshalSettings encodes settings in their canonical stored form.
func MarshalSettings(s Settings) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
