package dom

import (
	"strings"
	"sync/atomic"

	"github.com/niklasfasching/selectors/bloom"
	"github.com/niklasfasching/selectors/matching"
	"github.com/niklasfasching/selectors/selector"
	"golang.org/x/net/html"
)

type Element struct {
	Node  *html.Node
	State State

	doc          *Document
	id           matching.OpaqueElement
	parent       *Element
	shadowParent *ShadowRoot
	host         *Element
	children     []*Element
	index        int
	shadowRoot   *ShadowRoot
	assignedSlot *Element
	originating  *Element
	pseudo       string
	pseudos      map[string]*Element
	flags        flags
}

// State is the user action and history state of an element.
type State uint8

const (
	Hover State = 1 << iota
	Active
	Focus
	Visited
)

type flags struct{ atomic.Uint32 }

var namespaces = map[string]string{
	"":     "http://www.w3.org/1999/xhtml",
	"svg":  "http://www.w3.org/2000/svg",
	"math": "http://www.w3.org/1998/Math/MathML",
}

var attributeNamespaces = map[string]string{
	"xlink": "http://www.w3.org/1999/xlink",
	"xml":   "http://www.w3.org/XML/1998/namespace",
	"xmlns": "http://www.w3.org/2000/xmlns/",
}

var _ matching.Element = (*Element)(nil)

func (f *flags) add(fs matching.ElementSelectorFlags) {
	if fs != 0 {
		f.Or(uint32(fs))
	}
}

func (f *flags) get() matching.ElementSelectorFlags { return matching.ElementSelectorFlags(f.Load()) }

// element converts to the interface without turning nil into a typed nil.
func element(e *Element) matching.Element {
	if e == nil {
		return nil
	}
	return e
}

func (e *Element) Opaque() matching.OpaqueElement { return e.id }
func (e *Element) Document() *Document            { return e.doc }
func (e *Element) Children() []*Element           { return e.children }
func (e *Element) ShadowRoot() *ShadowRoot        { return e.shadowRoot }
func (e *Element) Parent() *Element               { return e.parent }
func (e *Element) Attribute(key string) string    { return attribute(e.Node, key) }
func (e *Element) SetState(s State)               { e.State = s }

// Flags returns the selector flags set on the element by matching.
func (e *Element) Flags() matching.ElementSelectorFlags { return e.flags.get() }

func (s *ShadowRoot) Children() []*Element                 { return s.children }
func (s *ShadowRoot) Flags() matching.ElementSelectorFlags { return s.flags.get() }

// PseudoElement returns the pseudo-element of e with the given name, e.g. "before".
func (e *Element) PseudoElement(name string) *Element {
	e.doc.Lock()
	p, ok := e.pseudos[name]
	e.doc.Unlock()
	if ok {
		return p
	}
	p = e.doc.newElement(&html.Node{Type: html.ElementNode, Data: "::" + name})
	p.originating, p.pseudo = e, name
	e.doc.Lock()
	defer e.doc.Unlock()
	if e.pseudos == nil {
		e.pseudos = map[string]*Element{}
	} else if q, ok := e.pseudos[name]; ok {
		return q
	}
	e.pseudos[name] = p
	return p
}

func (e *Element) ParentElement() matching.Element {
	if e.originating != nil {
		return e.originating
	}
	return element(e.parent)
}

func (e *Element) ParentNodeIsShadowRoot() bool                      { return e.shadowParent != nil }
func (e *Element) ContainingShadowHost() matching.Element            { return element(e.host) }
func (e *Element) PseudoElementOriginatingElement() matching.Element { return element(e.originating) }
func (e *Element) AssignedSlot() matching.Element                    { return element(e.assignedSlot) }
func (e *Element) IsPseudoElement() bool                             { return e.originating != nil }
func (e *Element) IsHTMLSlotElement() bool                           { return e.isHTML("slot") }
func (e *Element) IgnoresNthChildSelectors() bool                    { return e.IsPseudoElement() }

func (e *Element) siblings() []*Element {
	switch {
	case e.originating != nil:
		return nil
	case e.parent != nil:
		return e.parent.children
	case e.shadowParent != nil:
		return e.shadowParent.children
	default:
		return e.doc.children
	}
}

func (e *Element) PrevSiblingElement() matching.Element {
	if ss := e.siblings(); e.index > 0 && len(ss) != 0 {
		return ss[e.index-1]
	}
	return nil
}

func (e *Element) NextSiblingElement() matching.Element {
	if ss := e.siblings(); e.index+1 < len(ss) {
		return ss[e.index+1]
	}
	return nil
}

func (e *Element) FirstElementChild() matching.Element {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

func (e *Element) IsHTMLElementInHTMLDocument() bool { return e.Node.Namespace == "" && e.originating == nil }
func (e *Element) HasLocalName(name string) bool     { return e.Node.Data == name }
func (e *Element) HasNamespace(url string) bool      { return e.namespace() == url }

func (e *Element) namespace() string {
	if url, ok := namespaces[e.Node.Namespace]; ok {
		return url
	}
	return e.Node.Namespace
}

func (e *Element) isHTML(name string) bool { return e.Node.Namespace == "" && e.Node.Data == name }

func (e *Element) IsSameType(o matching.Element) bool {
	other, ok := o.(*Element)
	return ok && other.Node.Data == e.Node.Data && other.Node.Namespace == e.Node.Namespace
}

func (e *Element) AttrMatches(ns *selector.NamespaceConstraint, localName string, op selector.AttrOperation) bool {
	for _, a := range e.Node.Attr {
		if a.Key != localName {
			continue
		} else if ns == nil && a.Namespace != "" {
			continue
		} else if ns != nil && !ns.Any && attributeNamespaces[a.Namespace] != ns.URL {
			continue
		} else if op.Eval(a.Val) {
			return true
		}
	}
	return false
}

func (e *Element) HasAttrInNoNamespace(localName string) bool {
	for _, a := range e.Node.Attr {
		if a.Key == localName && a.Namespace == "" {
			return true
		}
	}
	return false
}

func (e *Element) HasID(id string, cs selector.CaseSensitivity) bool {
	v := e.Attribute("id")
	return v != "" && cs.Eq(v, id)
}

func (e *Element) HasClass(name string, cs selector.CaseSensitivity) bool {
	for _, c := range e.classes() {
		if cs.Eq(c, name) {
			return true
		}
	}
	return false
}

func (e *Element) classes() []string { return strings.Fields(e.Attribute("class")) }

// ImportedPart maps name, as seen from outside of the shadow tree e is in,
// to the part name inside it. exportparts="inner: outer, other".
func (e *Element) ImportedPart(name string) (string, bool) {
	for _, mapping := range strings.Split(e.Attribute("exportparts"), ",") {
		inner, outer, ok := strings.Cut(mapping, ":")
		inner, outer = strings.TrimSpace(inner), strings.TrimSpace(outer)
		if !ok {
			outer = inner
		}
		if outer == name && inner != "" {
			return inner, true
		}
	}
	return "", false
}

func (e *Element) IsPart(name string) bool {
	for _, p := range strings.Fields(e.Attribute("part")) {
		if p == name {
			return true
		}
	}
	return false
}

// IsEmpty reports whether e has neither element nor text children. The
// template holding the shadow root does not count.
func (e *Element) IsEmpty() bool {
	for c := e.Node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode || c.Type == html.ElementNode && !(e.shadowRoot != nil && c.Data == "template" && attribute(c, "shadowrootmode") != "") {
			return false
		}
	}
	return true
}

func (e *Element) IsRoot() bool { return e == e.doc.root }

func (e *Element) IsLink() bool {
	return (e.isHTML("a") || e.isHTML("area") || e.isHTML("link")) && e.HasAttrInNoNamespace("href")
}

func (e *Element) MatchNonTSPseudoClass(pc selector.PseudoClass, ctx *matching.Context) bool {
	if c, ok := pc.(Contains); ok {
		return strings.Contains(strings.ToLower(e.TrimmedText()), strings.ToLower(c.Text))
	}
	switch pc.Name() {
	case "link":
		if ctx.VisitedHandling == matching.RelevantLinkVisited {
			return e.IsLink() && e.State&Visited == 0
		}
		return e.IsLink() && ctx.VisitedHandling.MatchesUnvisited()
	case "visited":
		if ctx.VisitedHandling == matching.RelevantLinkVisited && e.State&Visited == 0 {
			return false
		}
		return e.IsLink() && ctx.VisitedHandling.MatchesVisited()
	}
	f, ok := PseudoClasses[pc.Name()]
	return ok && f(e)
}

func (e *Element) MatchPseudoElement(pe selector.PseudoElementKind, ctx *matching.Context) bool {
	return e.pseudo != "" && e.pseudo == pe.Name()
}

// ApplySelectorFlags splits flags between e and its parent node.
func (e *Element) ApplySelectorFlags(fs matching.ElementSelectorFlags) {
	e.flags.add(fs.ForSelf())
	if parent := fs.ForParent(); e.parent != nil {
		e.parent.flags.add(parent)
	} else if e.shadowParent != nil {
		e.shadowParent.flags.add(parent)
	}
}

func (e *Element) AddElementUniqueHashes(f *bloom.Filter) bool {
	f.Insert(e.Node.Data)
	f.Insert(e.namespace())
	if id := e.Attribute("id"); id != "" {
		f.Insert(id)
	}
	for _, c := range e.classes() {
		f.Insert(c)
	}
	return true
}

// RemoveElementUniqueHashes undoes AddElementUniqueHashes.
func (e *Element) RemoveElementUniqueHashes(f *bloom.Filter) {
	f.Remove(e.Node.Data)
	f.Remove(e.namespace())
	if id := e.Attribute("id"); id != "" {
		f.Remove(id)
	}
	for _, c := range e.classes() {
		f.Remove(c)
	}
}

func (e *Element) String() string {
	var out strings.Builder
	if e.originating != nil {
		out.WriteString(e.originating.String())
	}
	out.WriteString(e.Node.Data)
	if id := e.Attribute("id"); id != "" {
		out.WriteString("#" + selector.EscapeIdentifier(id))
	}
	for _, c := range e.classes() {
		out.WriteString("." + selector.EscapeIdentifier(c))
	}
	return out.String()
}
