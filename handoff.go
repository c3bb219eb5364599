package scratches

import (
	"context"
	"net/url"
	"strings"
)

// DefaultScheme is the URL scheme of the note app documents are sent to.
const DefaultScheme = "drafts"

// HandoffURL builds the x-callback-url that creates a note with text.
// The text is percent-encoded with spaces as %20. An empty tag is omitted.
func HandoffURL(scheme, text, tag string) string {
	if scheme == "" {
		scheme = DefaultScheme
	}
	var sb strings.Builder
	sb.WriteString(scheme)
	sb.WriteString("://x-callback-url/create?text=")
	sb.WriteString(percentEncode(text))
	if tag = strings.TrimSpace(tag); tag != "" {
		sb.WriteString("&tag=")
		sb.WriteString(percentEncode(tag))
	}
	return sb.String()
}

func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Opener hands a URL to the operating system, which launches the app
// registered for its scheme.
type Opener interface {
	Open(ctx context.Context, url string) error
}
