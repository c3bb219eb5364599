package scratches

// Source tells where an extraction result's body came from.
type Source string

// Result sources.
const (
	// SourceSelection is the user's active text selection.
	SourceSelection Source = "selection"
	// SourcePage is content extracted from the page markup.
	SourcePage Source = "page"
	// SourceError means extraction failed and Body holds the error message.
	SourceError Source = "error"
)

// PlaceholderBody replaces an empty body when content selectors were
// configured but nothing usable was found.
const PlaceholderBody = "(Content selector matched no elements or content was empty)"

// ExtractFailedPrefix starts the body of every SourceError result.
const ExtractFailedPrefix = "Content extraction failed: "

// ExtractRequest is the input of a single extraction.
type ExtractRequest struct {
	// URL is the address of the page. Used for the title fallback and to
	// resolve relative links.
	URL string

	// HTML is the page markup.
	HTML string

	// Title overrides the title found in the markup when set.
	Title string

	// Selection is the user's active text selection, if any.
	Selection string
}

// ExtractionResult is the output of a single extraction.
type ExtractionResult struct {
	Title  string
	URL    string
	Body   string
	Source Source
}

// FailedResult returns a SourceError result for err.
func FailedResult(req *ExtractRequest, err error) *ExtractionResult {
	r := &ExtractionResult{
		Body:   ExtractFailedPrefix + err.Error(),
		Source: SourceError,
	}
	if req != nil {
		r.Title = req.Title
		r.URL = req.URL
	}
	return r
}

// Extractor turns a page into an ExtractionResult. Extract never fails:
// problems are reported as a SourceError result.
type Extractor interface {
	Extract(req *ExtractRequest, settings Settings) *ExtractionResult
}

// TitleResolver finds the title of a page from its metadata.
type TitleResolver interface {
	// ResolveTitle returns the page title, or "" when none is found.
	ResolveTitle(html, pageURL string) string
}
