package scratches

import (
	"strings"
	"time"
)

// TimestampLayout is the layout used for the {timestamp} placeholder.
const TimestampLayout = "2006-01-02 15:04"

// Document is a finished clipping ready to be rendered with a template.
type Document struct {
	Title   string
	URL     string
	Content string
}

// DocumentFromResult builds a Document from an extraction result.
func DocumentFromResult(r *ExtractionResult) Document {
	return Document{Title: r.Title, URL: r.URL, Content: r.Body}
}

// FormatTitle renders a title as a markdown heading, bold text or as is.
func FormatTitle(title string, format TitleFormat) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	switch format {
	case TitleH2:
		return "## " + title
	case TitleH3:
		return "### " + title
	case TitleBold:
		return "**" + title + "**"
	case TitlePlain:
		return title
	default:
		return "# " + title
	}
}

// FormatDocument substitutes {title}, {formattedTitle}, {url}, {content} and
// {timestamp} in the output template. Substituted values are not scanned for
// placeholders again. A line holding only {url} is dropped when the document
// has no URL.
func FormatDocument(format OutputFormat, doc Document, now time.Time) string {
	tmpl := format.Template
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultTemplate
	}

	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = doc.URL
	}

	if doc.URL == "" {
		lines := strings.Split(tmpl, "\n")
		kept := lines[:0]
		for _, line := range lines {
			if strings.TrimSpace(line) == "{url}" {
				continue
			}
			kept = append(kept, line)
		}
		tmpl = strings.Join(kept, "\n")
		for strings.Contains(tmpl, "\n\n\n") {
			tmpl = strings.ReplaceAll(tmpl, "\n\n\n", "\n\n")
		}
	}

	r := strings.NewReplacer(
		"{formattedTitle}", FormatTitle(title, format.TitleFormat),
		"{title}", title,
		"{url}", doc.URL,
		"{content}", doc.Content,
		"{timestamp}", now.Format(TimestampLayout),
	)
	return strings.TrimSpace(r.Replace(tmpl))
}

// FormatDocuments renders each document and separates them by blank lines.
func FormatDocuments(format OutputFormat, docs []Document, now time.Time) string {
	if len(docs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, FormatDocument(format, doc, now))
	}

	return strings.Join(parts, "\n\n")
}
