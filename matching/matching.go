// matching decides whether an element matches a selector.
//
// Selectors are matched right to left. A failed compound tells the caller
// how far it has to backtrack (SelectorMatchingResult) so that every
// combinator boundary is only retried with new candidates when a retry can
// change the outcome.
package matching

import (
	"fmt"

	"github.com/niklasfasching/selectors/bloom"
	"github.com/niklasfasching/selectors/selector"
)

type SelectorMatchingResult uint8

const (
	Matched SelectorMatchingResult = iota
	NotMatchedAndRestartFromClosestLaterSibling
	NotMatchedAndRestartFromClosestDescendant
	NotMatchedGlobally
)

// CompoundMatchResult is the result of MatchesCompoundSelectorFrom.
type CompoundMatchResult struct {
	Kind CompoundMatchKind
	// NextCombinatorOffset is the parse order offset of the combinator right
	// of the matched compound, for Kind == CompoundMatched.
	NextCombinatorOffset int
}

type CompoundMatchKind uint8

const (
	CompoundNotMatched CompoundMatchKind = iota
	CompoundMatched
	// CompoundFullyMatched means the compound was the subject compound.
	CompoundFullyMatched
)

type localContext struct {
	*Context
	rightmost        bool
	hoverActiveQuirk bool
}

func (r SelectorMatchingResult) String() string {
	return [...]string{
		"Matched",
		"NotMatchedAndRestartFromClosestLaterSibling",
		"NotMatchedAndRestartFromClosestDescendant",
		"NotMatchedGlobally",
	}[r]
}

// MatchesSelectorList reports whether any selector of l matches e.
func MatchesSelectorList(l *selector.List, e Element, ctx *Context) bool {
	for _, s := range l.Selectors {
		hashes := s.AncestorHashes(ctx.quirks())
		if MatchesSelector(s, 0, &hashes, e, ctx) {
			return true
		}
	}
	return false
}

// MatchesSelector matches s starting at the match order offset. hashes are
// checked against ctx.BloomFilter first if both are set.
func MatchesSelector(s *selector.Selector, offset int, hashes *bloom.Hashes, e Element, ctx *Context) bool {
	if hashes != nil && ctx.BloomFilter != nil && !bloom.MayMatch(*hashes, ctx.BloomFilter) {
		return false
	}
	return matchesComplexSelector(s.IterFrom(offset), e, ctx, s.IsRightmost(offset))
}

func MatchesComplexSelector(it selector.Iter, e Element, ctx *Context) bool {
	return matchesComplexSelector(it, e, ctx, true)
}

// matchesComplexSelector matches it against e. rightmost is false if it
// starts left of the subject compound.
func matchesComplexSelector(it selector.Iter, e Element, ctx *Context, rightmost bool) bool {
	if ctx.MatchingMode == ForStatelessPseudoElement && !ctx.IsNested() {
		c, ok := it.Next()
		pe, isPseudo := c.(selector.PseudoElement)
		if !ok || !isPseudo {
			return false
		} else if f := ctx.PseudoElementMatchingFn; f != nil && !f(pe.Kind) {
			return false
		} else if !it.MatchesForStatelessPseudoElement() {
			return false
		} else if c, _ := it.NextSequence(); debugAssertions && c != selector.PseudoElementCombinator {
			panic(fmt.Sprintf("pseudo-element followed by %d", c))
		}
	}
	return matchesComplexSelectorInternal(it, e, ctx, rightmost) == Matched
}

func matchesComplexSelectorInternal(it selector.Iter, e Element, ctx *Context, rightmost bool) SelectorMatchingResult {
	ctx.enter()
	defer ctx.leave()
	matched := matchesCompoundSelector(&it, e, ctx, rightmost)
	c, ok := it.NextSequence()
	if ok && c.IsSibling() && ctx.NeedsSelectorFlags {
		e.ApplySelectorFlags(HasSlowSelectorLaterSiblings)
	}
	if !matched {
		return NotMatchedAndRestartFromClosestLaterSibling
	} else if !ok {
		return Matched
	}
	candidateNotFound := NotMatchedGlobally
	if c.IsSibling() {
		candidateNotFound = NotMatchedAndRestartFromClosestDescendant
	}
	visited := ctx.VisitedHandling
	if e.IsLink() || c.IsSibling() {
		visited = AllLinksUnvisited
	}
	// The compound of a pseudo-element's originating element is still the
	// subject.
	rightmost = rightmost && c.IsPseudoElement()
	for next := nextElementForCombinator(e, c, it, ctx); next != nil; next = nextElementForCombinator(next, c, it, ctx) {
		var result SelectorMatchingResult
		ctx.WithVisitedHandling(visited, func() bool {
			result = matchesComplexSelectorInternal(it, next, ctx, rightmost)
			return result == Matched
		})
		switch {
		case result == Matched || result == NotMatchedGlobally || c == selector.NextSibling:
			return result
		case c == selector.Child || c == selector.PseudoElementCombinator:
			return NotMatchedAndRestartFromClosestDescendant
		case c == selector.PartCombinator:
			// The only host of a part in the tree of the current shadow host.
			return candidateNotFound
		case result == NotMatchedAndRestartFromClosestDescendant && c == selector.LaterSibling:
			return result
		}
		if next.IsLink() {
			visited = AllLinksUnvisited
		}
	}
	return candidateNotFound
}

// matchesNested matches a selector nested in another one (:is(), :not(),
// :host(), ...). The caller takes care of nesting the context.
func matchesNested(s *selector.Selector, e Element, ctx *Context, rightmost bool) bool {
	return matchesComplexSelectorInternal(s.Iter(), e, ctx, rightmost) == Matched
}

func matchesList(l *selector.List, e Element, ctx *Context, rightmost bool) bool {
	for _, s := range l.Selectors {
		if matchesNested(s, e, ctx, rightmost) {
			return true
		}
	}
	return false
}

func matchesCompoundSelector(it *selector.Iter, e Element, ctx *Context, rightmost bool) bool {
	lc := &localContext{Context: ctx, rightmost: rightmost}
	lc.hoverActiveQuirk = hoverAndActiveQuirkApplies(*it, ctx, rightmost)
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		if !matchesSimpleSelector(c, e, lc) {
			return false
		}
	}
	return true
}

// hoverAndActiveQuirkApplies implements the quirks mode rule that a compound
// made up only of :hover / :active (and the universal selector) only matches
// links. https://quirks.spec.whatwg.org/#the-active-and-hover-quirk
func hoverAndActiveQuirkApplies(it selector.Iter, ctx *Context, rightmost bool) bool {
	if ctx.QuirksMode != Quirks || ctx.IsNested() {
		return false
	} else if rightmost && ctx.MatchingMode == ForStatelessPseudoElement {
		return false
	}
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		switch c := c.(type) {
		case selector.LocalName, selector.AttributeExists, selector.AttributeEquals, selector.AttributeOther,
			selector.ID, selector.Class, selector.PseudoElement, selector.Negation,
			selector.Empty, selector.Nth, selector.NthOf:
			return false
		case selector.NonTSPseudoClass:
			if !c.Class.IsActiveOrHover() {
				return false
			}
		}
	}
	return true
}

func matchesSimpleSelector(c selector.Component, e Element, lc *localContext) bool {
	ctx := lc.Context
	switch c := c.(type) {
	case selector.Combinator:
		panic(fmt.Sprintf("unexpected combinator %q in compound", c))
	case selector.Part:
		return matchesPart(e, c.Names, ctx)
	case selector.Slotted:
		if e.IsHTMLSlotElement() {
			return false
		}
		return ctx.WithShadowHost(e.ContainingShadowHost(), func() bool {
			return ctx.Nest(func() bool { return matchesNested(c.Selector, e, ctx, lc.rightmost) })
		})
	case selector.PseudoElement:
		return e.MatchPseudoElement(c.Kind, ctx)
	case selector.LocalName:
		return e.HasLocalName(pick(e.IsHTMLElementInHTMLDocument(), c.Lower, c.Name))
	case selector.ExplicitUniversalType, selector.ExplicitAnyNamespace:
		return true
	case selector.Namespace:
		return e.HasNamespace(c.URL)
	case selector.DefaultNamespace:
		return e.HasNamespace(c.URL)
	case selector.ExplicitNoNamespace:
		return e.HasNamespace("")
	case selector.ID:
		return e.HasID(c.Name, ctx.ClassAndIDCaseSensitivity())
	case selector.Class:
		return e.HasClass(c.Name, ctx.ClassAndIDCaseSensitivity())
	case selector.AttributeExists:
		return e.HasAttrInNoNamespace(pick(e.IsHTMLElementInHTMLDocument(), c.LocalNameLower, c.LocalName))
	case selector.AttributeEquals:
		isHTML := e.IsHTMLElementInHTMLDocument()
		return e.AttrMatches(nil, c.LocalName, selector.AttrOperation{
			Operator:        c.Operator,
			Value:           c.Value,
			CaseSensitivity: c.CaseSensitivity.ToUnconditional(isHTML),
		})
	case selector.AttributeOther:
		isHTML := e.IsHTMLElementInHTMLDocument()
		return e.AttrMatches(c.Namespace, pick(isHTML, c.LocalNameLower, c.LocalName), selector.AttrOperation{
			Exists:          c.Exists,
			Operator:        c.Operator,
			Value:           c.Value,
			CaseSensitivity: c.CaseSensitivity.ToUnconditional(isHTML),
		})
	case selector.NonTSPseudoClass:
		if lc.hoverActiveQuirk && c.Class.IsActiveOrHover() && !e.IsLink() {
			return false
		}
		return e.MatchNonTSPseudoClass(c.Class, ctx)
	case selector.Root:
		return e.IsRoot()
	case selector.Empty:
		if ctx.NeedsSelectorFlags {
			e.ApplySelectorFlags(HasEmptySelector)
		}
		return e.IsEmpty()
	case selector.Host:
		return matchesHost(e, c.Selector, ctx, lc.rightmost)
	case selector.Scope, selector.ParentSelector:
		if ctx.Invalidation == ForInvalidationComparison {
			return true
		} else if scope := ctx.Scope(); scope != nil {
			return same(e, scope)
		}
		return e.IsRoot()
	case selector.Nth:
		return matchesGenericNthChild(e, ctx, c.Data, nil)
	case selector.NthOf:
		return matchesGenericNthChild(e, ctx, c.Data, c.List)
	case selector.Is:
		return ctx.Nest(func() bool { return matchesList(c.List, e, ctx, lc.rightmost) })
	case selector.Where:
		return ctx.Nest(func() bool { return matchesList(c.List, e, ctx, lc.rightmost) })
	case selector.Negation:
		return ctx.NestForNegation(func() bool { return !matchesList(c.List, e, ctx, lc.rightmost) })
	case selector.Has:
		return matchRelativeSelectors(c.Selectors, e, ctx, lc.rightmost)
	case selector.RelativeSelectorAnchor:
		anchor := ctx.RelativeSelectorAnchor()
		return anchor == nil || same(anchor, e)
	case selector.Invalid:
		return false
	default:
		panic(fmt.Sprintf("unknown component %T", c))
	}
}

// MatchesCompoundSelectorFrom matches the compound starting at the parse
// order offset fromOffset, which must be 0 or directly follow a combinator.
// The invalidation code uses it to test partial selectors.
func MatchesCompoundSelectorFrom(s *selector.Selector, fromOffset int, ctx *Context, e Element) CompoundMatchResult {
	if debugAssertions && fromOffset != 0 {
		s.CombinatorAtParseOrder(fromOffset - 1)
	}
	end := fromOffset
	for ; end < s.Len(); end++ {
		if _, ok := s.At(s.Len() - 1 - end).(selector.Combinator); ok {
			break
		}
	}
	if debugAssertions && (end < 1 || end > s.Len()) {
		panic(fmt.Sprintf("%s: compound offset %d..%d out of range", s, fromOffset, end))
	}
	lc, it := &localContext{Context: ctx}, s.IterFrom(s.Len()-end)
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		if !matchesSimpleSelector(c, e, lc) {
			return CompoundMatchResult{Kind: CompoundNotMatched}
		}
	}
	if end != s.Len() {
		return CompoundMatchResult{Kind: CompoundMatched, NextCombinatorOffset: end}
	}
	return CompoundMatchResult{Kind: CompoundFullyMatched}
}

func pick[T any](b bool, t, f T) T {
	if b {
		return t
	}
	return f
}
