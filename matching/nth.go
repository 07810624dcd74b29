package matching

import (
	"fmt"

	"github.com/niklasfasching/selectors/selector"
)

func matchesGenericNthChild(e Element, ctx *Context, d selector.NthSelectorData, list *selector.List) bool {
	if e.IgnoresNthChildSelectors() {
		return false
	}
	hasSelectors := list.Len() > 0
	selectorsMatch := !hasSelectors || ctx.Nest(func() bool { return matchesList(list, e, ctx, false) })
	if ctx.Invalidation == ForInvalidationComparison {
		return selectorsMatch && !ctx.InNegation()
	}
	ofType := d.Type.IsOfType()
	if d.Type.IsOnly() {
		return matchesGenericNthChild(e, ctx, selector.First(ofType), list) &&
			matchesGenericNthChild(e, ctx, selector.Last(ofType), list)
	}
	fromEnd := d.Type.IsFromEnd()
	isEdge := d.IsSimpleEdge() && !hasSelectors
	if ctx.NeedsSelectorFlags {
		flags := HasSlowSelectorLaterSiblings
		if isEdge {
			flags = HasEdgeChildSelector
		} else if fromEnd {
			flags = HasSlowSelector
		}
		e.ApplySelectorFlags(flags | pick(hasSelectors, HasSlowSelectorNthOf, HasSlowSelectorNth))
	}
	if !selectorsMatch {
		return false
	} else if isEdge && fromEnd {
		return e.NextSiblingElement() == nil
	} else if isEdge {
		return e.PrevSiblingElement() == nil
	}
	index, _ := ctx.Caches.Nth.Get(ofType, fromEnd, list).Get(e.Opaque(), func() (int, error) {
		return nthChildIndex(e, ctx, list, ofType, fromEnd, true), nil
	})
	if debugAssertions {
		if full := nthChildIndex(e, ctx, list, ofType, fromEnd, false); full != index {
			panic(fmt.Sprintf("nth index cache: got %d, expected %d for %v", index, full, e.Opaque()))
		}
	}
	return d.Matches(index)
}

// nthChildIndex returns the 1-based index of e among its siblings that count
// for the selector. With useCache the walk stops at the first counted sibling
// with a known index.
func nthChildIndex(e Element, ctx *Context, list *selector.List, ofType, fromEnd, useCache bool) int {
	cache := ctx.Caches.Nth.Get(ofType, fromEnd, list)
	// Siblings are mostly matched in document order, so for indices from the
	// end the cached entries are more likely on the left.
	if useCache && fromEnd && cache.Len() != 0 {
		index := 1
		for s := e.PrevSiblingElement(); s != nil; s = s.PrevSiblingElement() {
			if !nthCounts(e, s, ctx, list, ofType) {
				continue
			} else if i, ok := cache.Peek(s.Opaque()); ok {
				return i - index
			}
			index++
		}
	}
	index, next := 1, Element.PrevSiblingElement
	if fromEnd {
		next = Element.NextSiblingElement
	}
	for s := next(e); s != nil; s = next(s) {
		if !nthCounts(e, s, ctx, list, ofType) {
			continue
		} else if useCache && !fromEnd {
			if i, ok := cache.Peek(s.Opaque()); ok {
				return i + index
			}
		}
		index++
	}
	return index
}

func nthCounts(e, sibling Element, ctx *Context, list *selector.List, ofType bool) bool {
	if ofType {
		return e.IsSameType(sibling)
	} else if list.Len() > 0 {
		return ctx.Nest(func() bool { return matchesList(list, sibling, ctx, false) })
	}
	return true
}
