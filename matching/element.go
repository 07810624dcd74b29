package matching

import (
	"github.com/niklasfasching/selectors/bloom"
	"github.com/niklasfasching/selectors/selector"
)

// OpaqueElement is a stable identity of an element, used as cache key.
type OpaqueElement uint64

// Element is what the engine needs from the tree. Navigation methods return
// an untyped nil when there is no such element.
type Element interface {
	Opaque() OpaqueElement

	ParentElement() Element
	ParentNodeIsShadowRoot() bool
	// ContainingShadowHost is the host of the shadow tree the element is in.
	ContainingShadowHost() Element
	PseudoElementOriginatingElement() Element
	AssignedSlot() Element
	IsPseudoElement() bool
	IsHTMLSlotElement() bool
	PrevSiblingElement() Element
	NextSiblingElement() Element
	FirstElementChild() Element

	IsHTMLElementInHTMLDocument() bool
	HasLocalName(name string) bool
	HasNamespace(url string) bool
	IsSameType(other Element) bool
	// AttrMatches with a nil ns tests attributes in no namespace.
	AttrMatches(ns *selector.NamespaceConstraint, localName string, op selector.AttrOperation) bool
	HasAttrInNoNamespace(localName string) bool
	HasID(id string, cs selector.CaseSensitivity) bool
	HasClass(name string, cs selector.CaseSensitivity) bool
	// ImportedPart maps a part name through the exportparts of the element.
	ImportedPart(name string) (string, bool)
	IsPart(name string) bool
	IsEmpty() bool
	IsRoot() bool
	IsLink() bool

	MatchNonTSPseudoClass(pc selector.PseudoClass, ctx *Context) bool
	MatchPseudoElement(pe selector.PseudoElementKind, ctx *Context) bool
	IgnoresNthChildSelectors() bool

	ApplySelectorFlags(flags ElementSelectorFlags)
	// AddElementUniqueHashes inserts the hashes of local name, namespace, id
	// and classes into f. It returns false if the element has nothing to add.
	AddElementUniqueHashes(f *bloom.Filter) bool
}

func same(a, b Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Opaque() == b.Opaque()
}
