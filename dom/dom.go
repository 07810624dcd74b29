// dom is a read-only element tree over golang.org/x/net/html documents that
// implements matching.Element.
//
// Declarative shadow roots (<template shadowrootmode>) are attached to their
// parent element, light children are assigned to slots by their slot
// attribute.
package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/niklasfasching/selectors/matching"
	"golang.org/x/exp/slices"
	"golang.org/x/net/html"
)

type Document struct {
	Node   *html.Node
	Quirks matching.QuirksMode

	root     *Element
	children []*Element
	elements []*Element
	byID     map[string]*Element
	lastID   matching.OpaqueElement
	sync.Mutex
}

type ShadowRoot struct {
	Host     *Element
	Mode     string
	children []*Element
	flags    flags
}

func Parse(r io.Reader) (*Document, error) {
	n, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return NewDocument(n), nil
}

func MustParse(r io.Reader) *Document {
	d, err := Parse(r)
	if err != nil {
		panic(err)
	}
	return d
}

func MustParseString(s string) *Document { return MustParse(strings.NewReader(s)) }

// NewDocument wraps an already parsed document node.
func NewDocument(n *html.Node) *Document {
	d := &Document{Node: n, Quirks: quirksMode(n), byID: map[string]*Element{}}
	d.children = d.build(n, nil, nil, nil)
	if len(d.children) != 0 {
		d.root = d.children[0]
	}
	for _, e := range d.elements {
		if e.shadowRoot != nil {
			assignSlots(e)
		}
	}
	return d
}

// Root is the document element.
func (d *Document) Root() *Element { return d.root }

// ByID returns the first element of the light tree with the id.
func (d *Document) ByID(id string) *Element { return d.byID[id] }

// Elements returns all elements, shadow trees included, in tree order.
func (d *Document) Elements() []*Element { return slices.Clone(d.elements) }

func (d *Document) build(n *html.Node, parent *Element, sr *ShadowRoot, host *Element) []*Element {
	children := []*Element{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		} else if mode := attribute(c, "shadowrootmode"); parent != nil && c.Data == "template" && mode != "" && parent.shadowRoot == nil {
			parent.shadowRoot = &ShadowRoot{Host: parent, Mode: mode}
			parent.shadowRoot.children = d.build(c, nil, parent.shadowRoot, parent)
			continue
		}
		e := d.newElement(c)
		e.parent, e.shadowParent, e.host, e.index = parent, sr, host, len(children)
		if id := attribute(c, "id"); id != "" && host == nil && d.byID[id] == nil {
			d.byID[id] = e
		}
		children = append(children, e)
		e.children = d.build(c, e, nil, host)
	}
	return children
}

func (d *Document) newElement(n *html.Node) *Element {
	d.Lock()
	defer d.Unlock()
	d.lastID++
	e := &Element{Node: n, doc: d, id: d.lastID}
	d.elements = append(d.elements, e)
	return e
}

// assignSlots assigns the light children of host to the first slot of its
// shadow tree with a matching name.
func assignSlots(host *Element) {
	slots := map[string]*Element{}
	var walk func([]*Element)
	walk = func(es []*Element) {
		for _, e := range es {
			if name := e.Attribute("name"); e.IsHTMLSlotElement() && slots[name] == nil {
				slots[name] = e
			}
			walk(e.children)
		}
	}
	walk(host.shadowRoot.children)
	for _, c := range host.children {
		c.assignedSlot = slots[c.Attribute("slot")]
	}
}

var limitedQuirksPublicIDs = []string{
	"-//w3c//dtd xhtml 1.0 frameset//",
	"-//w3c//dtd xhtml 1.0 transitional//",
}

var quirksPublicIDs = []string{
	"-//w3c//dtd html 3",
	"-//w3c//dtd html 4.0 ",
	"-//w3c//dtd w3 html//",
	"-//ietf//dtd html",
	"-//netscape comm. corp.//dtd",
	"-//microsoft//dtd internet explorer",
}

// quirksMode derives the mode from the doctype the way html parsers do,
// for the common cases.
func quirksMode(n *html.Node) matching.QuirksMode {
	var doctype *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			doctype = c
		}
	}
	if doctype == nil || strings.ToLower(doctype.Data) != "html" {
		return matching.Quirks
	}
	public, system := strings.ToLower(attribute(doctype, "public")), attribute(doctype, "system")
	hasPrefix := func(p string) bool { return strings.HasPrefix(public, p) }
	switch {
	case slices.ContainsFunc(quirksPublicIDs, hasPrefix):
		return matching.Quirks
	case strings.HasPrefix(public, "-//w3c//dtd html 4.01 transitional//") || strings.HasPrefix(public, "-//w3c//dtd html 4.01 frameset//"):
		if system == "" {
			return matching.Quirks
		}
		return matching.LimitedQuirks
	case slices.ContainsFunc(limitedQuirksPublicIDs, hasPrefix):
		return matching.LimitedQuirks
	default:
		return matching.NoQuirks
	}
}

func attribute(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key && a.Namespace == "" {
			return a.Val
		}
	}
	return ""
}
