package matching

import (
	"strings"
)

// ElementSelectorFlags are set on elements while matching to tell the
// invalidation code which mutations around them can change the result.
// The engine only ever adds flags.
type ElementSelectorFlags uint32

const (
	// On the parent: any change to its children may affect a child's match.
	HasSlowSelector ElementSelectorFlags = 1 << iota
	// On the parent: inserting or removing a child may affect later siblings.
	HasSlowSelectorLaterSiblings
	// On the parent: an :nth-* selector depends on the children.
	HasSlowSelectorNth
	// On the parent: an :nth-* of S selector depends on the children.
	HasSlowSelectorNthOf
	// On the parent: an edge child selector (:first-child, ...) matched a child.
	HasEdgeChildSelector
	// On the element: :empty was tested.
	HasEmptySelector
	// On the element: it anchored a :has() of the subject compound.
	AnchorsRelativeSelector
	AnchorsRelativeSelectorNonSubject
	// On elements visited while searching for :has() matches.
	RelativeSelectorSearchDirectionSibling
	RelativeSelectorSearchDirectionAncestor

	RelativeSelectorSearchDirectionAncestorSibling = RelativeSelectorSearchDirectionSibling | RelativeSelectorSearchDirectionAncestor
)

const (
	forParent = HasSlowSelector | HasSlowSelectorLaterSiblings | HasSlowSelectorNth | HasSlowSelectorNthOf | HasEdgeChildSelector
	forSelf   = HasEmptySelector | AnchorsRelativeSelector | AnchorsRelativeSelectorNonSubject | RelativeSelectorSearchDirectionAncestorSibling
)

var flagNames = []string{
	"HasSlowSelector", "HasSlowSelectorLaterSiblings", "HasSlowSelectorNth", "HasSlowSelectorNthOf",
	"HasEdgeChildSelector", "HasEmptySelector", "AnchorsRelativeSelector", "AnchorsRelativeSelectorNonSubject",
	"RelativeSelectorSearchDirectionSibling", "RelativeSelectorSearchDirectionAncestor",
}

func (f ElementSelectorFlags) Contains(o ElementSelectorFlags) bool { return f&o == o }

func (f ElementSelectorFlags) Union(o ElementSelectorFlags) ElementSelectorFlags { return f | o }

func (f ElementSelectorFlags) Intersect(o ElementSelectorFlags) ElementSelectorFlags { return f & o }

// ForSelf returns the flags that belong on the element that was matched.
func (f ElementSelectorFlags) ForSelf() ElementSelectorFlags { return f & forSelf }

// ForParent returns the flags that belong on the parent of the element.
func (f ElementSelectorFlags) ForParent() ElementSelectorFlags { return f & forParent }

func (f ElementSelectorFlags) String() string {
	names := []string{}
	for i, n := range flagNames {
		if f&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	return strings.Join(names, "|")
}
