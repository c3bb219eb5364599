package scratches

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown. pageURL, when set,
	// is used to make relative links absolute.
	Convert(html, pageURL string) (string, error)
}
