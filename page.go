package scratches

// ClipProgress reports progress while clipping several URLs.
type ClipProgress struct {
	URL       string
	Completed int
	Total     int
	Error     error
}

// ClipProgressFunc is called as URLs are processed.
type ClipProgressFunc func(ClipProgress)
