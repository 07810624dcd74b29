package dom

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var duplicateWhitespace = regexp.MustCompile(`\s+(\n)\s*|\s*(\n)\s+|(\s)\s+`)

// Text returns the concatenated text of e and its descendants, comments
// excluded.
func (e *Element) Text() string {
	var out strings.Builder
	appendText(&out, e.Node)
	return out.String()
}

// TrimmedText is Text with runs of whitespace collapsed to one character,
// keeping a newline if the run contains one.
func (e *Element) TrimmedText() string {
	return duplicateWhitespace.ReplaceAllString(strings.TrimSpace(e.Text()), "$1$2$3")
}

func (e *Element) OuterHTML() string {
	if e == nil {
		return ""
	}
	var out strings.Builder
	if err := html.Render(&out, e.Node); err != nil {
		panic(fmt.Sprintf("render %s: %s", e, err))
	}
	return out.String()
}

func appendText(out *strings.Builder, n *html.Node) {
	switch {
	case n == nil || n.Type == html.CommentNode:
		return
	case n.Type == html.TextNode:
		out.WriteString(n.Data)
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			appendText(out, c)
		}
	}
}
