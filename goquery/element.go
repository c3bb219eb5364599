package goquery

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Attributes stamped by the browser fetcher with the rendered size of each
// element, in CSS pixels.
const (
	AttrRenderedWidth  = "data-scratches-width"
	AttrRenderedHeight = "data-scratches-height"
)

// element is the view of a DOM node the classifier and scorer work with.
type element struct {
	n *html.Node
}

func (e element) tag() string {
	return strings.ToLower(e.n.Data)
}

func (e element) attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func (e element) hasAttr(name string) bool {
	_, ok := e.attr(name)
	return ok
}

// classID is the lower-cased class and id attributes joined by a space.
func (e element) classID() string {
	class, _ := e.attr("class")
	id, _ := e.attr("id")
	return strings.ToLower(strings.TrimSpace(class + " " + id))
}

func (e element) text() string {
	return visibleText(e.n)
}

var (
	styleWidthRe  = regexp.MustCompile(`(?i)(?:^|[;\s])width\s*:\s*([0-9]+(?:\.[0-9]+)?)px`)
	styleHeightRe = regexp.MustCompile(`(?i)(?:^|[;\s])height\s*:\s*([0-9]+(?:\.[0-9]+)?)px`)
)

// box returns the element size. Rendered sizes stamped by the browser take
// precedence over width/height attributes, which take precedence over
// inline style.
func (e element) box() (width, height int, ok bool) {
	if w, h, ok := e.sizeFromAttrs(AttrRenderedWidth, AttrRenderedHeight); ok {
		return w, h, true
	}
	if w, h, ok := e.sizeFromAttrs("width", "height"); ok {
		return w, h, true
	}
	style, _ := e.attr("style")
	wm := styleWidthRe.FindStringSubmatch(style)
	hm := styleHeightRe.FindStringSubmatch(style)
	if wm == nil || hm == nil {
		return 0, 0, false
	}
	w, werr := parsePixels(wm[1])
	h, herr := parsePixels(hm[1])
	if werr != nil || herr != nil {
		return 0, 0, false
	}
	return w, h, true
}

func (e element) sizeFromAttrs(wName, hName string) (int, int, bool) {
	wv, wok := e.attr(wName)
	hv, hok := e.attr(hName)
	if !wok || !hok {
		return 0, 0, false
	}
	w, werr := parsePixels(wv)
	h, herr := parsePixels(hv)
	if werr != nil || herr != nil {
		return 0, 0, false
	}
	return w, h, true
}

func parsePixels(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f + 0.5), nil
}

// invisibleTags never contribute visible text.
var invisibleTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// visibleText returns the trimmed text of n, skipping invisible subtrees.
func visibleText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			if invisibleTags[strings.ToLower(n.Data)] {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// textLength counts characters, not bytes.
func textLength(s string) int {
	return utf8.RuneCountInString(s)
}

// blockTags start a new paragraph in plain-text output.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "tr": true,
	"ul": true,
}

// PlainText renders the visible text of n with paragraph breaks between
// block elements. No markdown markers are produced. Whitespace is collapsed
// as a browser would, except inside pre.
func PlainText(n *html.Node) string {
	w := &textWriter{}
	inPre := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if inPre > 0 {
				w.write(n.Data)
				return
			}
			fields := strings.Fields(n.Data)
			if len(fields) == 0 || unicode.IsSpace(rune(n.Data[0])) {
				w.space()
			}
			if len(fields) > 0 {
				w.write(strings.Join(fields, " "))
				if unicode.IsSpace(rune(n.Data[len(n.Data)-1])) {
					w.space()
				}
			}
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			tag := strings.ToLower(n.Data)
			if invisibleTags[tag] {
				return
			}
			switch {
			case tag == "br":
				w.write("\n")
				return
			case tag == "pre":
				inPre++
				defer func() { inPre-- }()
			}
			if blockTags[tag] {
				w.write("\n\n")
				defer w.write("\n\n")
			} else if tag == "td" || tag == "th" {
				defer w.space()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(w.sb.String())
}

// textWriter collapses spaces and never writes one next to a line break.
type textWriter struct {
	sb      strings.Builder
	last    byte
	pending bool
}

func (w *textWriter) write(s string) {
	if s == "" {
		return
	}
	if w.pending && s[0] != '\n' {
		w.sb.WriteByte(' ')
	}
	w.pending = false
	w.sb.WriteString(s)
	w.last = s[len(s)-1]
}

func (w *textWriter) space() {
	if w.last == 0 || w.last == '\n' {
		return
	}
	w.pending = true
}
