package matching

import (
	"github.com/niklasfasching/selectors/selector"
)

// matchRelativeSelectors evaluates :has(). A :has() nested in the argument
// of another :has() never matches.
func matchRelativeSelectors(rs []*selector.RelativeSelector, e Element, ctx *Context, rightmost bool) bool {
	if ctx.RelativeSelectorAnchor() != nil {
		return false
	}
	if ctx.NeedsSelectorFlags {
		e.ApplySelectorFlags(pick(rightmost, AnchorsRelativeSelector, AnchorsRelativeSelectorNonSubject))
	}
	if ctx.Invalidation == ForInvalidationComparison {
		return !ctx.InNegation()
	}
	return ctx.NestForRelativeSelector(e, func() bool {
		for _, r := range rs {
			if matchRelativeSelector(r, e, ctx) {
				return true
			}
		}
		return false
	})
}

// matchRelativeSelector consults the cache and the subtree bloom filter
// before walking the tree. The tree may have changed while matching for
// invalidation, the result is neither cached nor filtered then.
func matchRelativeSelector(r *selector.RelativeSelector, e Element, ctx *Context) bool {
	if ctx.Invalidation != NotForInvalidation {
		return matchRelativeSelectorUncached(r, e, ctx)
	}
	if matched, ok := ctx.Caches.Relative.Lookup(e, r); ok {
		return matched
	} else if ctx.Caches.RelativeFilter.FastReject(e, r, ctx.quirks()) {
		ctx.Caches.Relative.Add(e, r, false)
		return false
	}
	matched := matchRelativeSelectorUncached(r, e, ctx)
	ctx.Caches.Relative.Add(e, r, matched)
	return matched
}

func matchRelativeSelectorUncached(r *selector.RelativeSelector, e Element, ctx *Context) bool {
	if r.MatchHint.IsDescendantDirection() {
		if ctx.NeedsSelectorFlags {
			e.ApplySelectorFlags(RelativeSelectorSearchDirectionAncestor)
		}
		for c := e.FirstElementChild(); c != nil; c = c.NextSiblingElement() {
			if ctx.NeedsSelectorFlags {
				c.ApplySelectorFlags(RelativeSelectorSearchDirectionAncestor)
			}
			if matchesNested(r.Selector, c, ctx, false) {
				return true
			} else if r.MatchHint.IsSubtree() && matchRelativeSelectorSubtree(r.Selector, c, ctx) {
				return true
			}
		}
		return false
	}
	flag := pick(r.MatchHint.IsSubtree(), RelativeSelectorSearchDirectionAncestorSibling, RelativeSelectorSearchDirectionSibling)
	if ctx.NeedsSelectorFlags {
		e.ApplySelectorFlags(flag)
	}
	for s := e.NextSiblingElement(); s != nil; s = s.NextSiblingElement() {
		if ctx.NeedsSelectorFlags {
			s.ApplySelectorFlags(flag)
		}
		if r.MatchHint.IsSubtree() && matchRelativeSelectorSubtree(r.Selector, s, ctx) {
			return true
		} else if !r.MatchHint.IsSubtree() && matchesNested(r.Selector, s, ctx, false) {
			return true
		} else if r.MatchHint.IsNextSibling() {
			return false
		}
	}
	return false
}

func matchRelativeSelectorSubtree(s *selector.Selector, e Element, ctx *Context) bool {
	ctx.enter()
	defer ctx.leave()
	for c := e.FirstElementChild(); c != nil; c = c.NextSiblingElement() {
		if ctx.NeedsSelectorFlags {
			c.ApplySelectorFlags(RelativeSelectorSearchDirectionAncestor)
		}
		if matchesNested(s, c, ctx, false) || matchRelativeSelectorSubtree(s, c, ctx) {
			return true
		}
	}
	return false
}
