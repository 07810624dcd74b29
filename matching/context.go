package matching

import (
	"fmt"

	"github.com/niklasfasching/selectors/bloom"
	"github.com/niklasfasching/selectors/selector"
)

type QuirksMode uint8

const (
	NoQuirks QuirksMode = iota
	LimitedQuirks
	Quirks
)

type MatchingMode uint8

const (
	Normal MatchingMode = iota
	// ForStatelessPseudoElement matches selectors ending in a pseudo-element
	// against the originating element. The caller already checked the
	// pseudo-element, the engine skips it.
	ForStatelessPseudoElement
)

type VisitedHandling uint8

const (
	AllLinksUnvisited VisitedHandling = iota
	AllLinksVisitedAndUnvisited
	// RelevantLinkVisited matches :visited against the visited state of
	// the closest link only.
	RelevantLinkVisited
)

type InvalidationMode uint8

const (
	NotForInvalidation InvalidationMode = iota
	ForInvalidation
	// ForInvalidationComparison compares results before and after a
	// mutation, expensive selectors answer optimistically.
	ForInvalidationComparison
)

const DefaultMaxDepth = 512

type Options struct {
	QuirksMode         QuirksMode
	MatchingMode       MatchingMode
	VisitedHandling    VisitedHandling
	Invalidation       InvalidationMode
	NeedsSelectorFlags bool
	// MaxDepth bounds the recursion of a single match, 0 means
	// DefaultMaxDepth.
	MaxDepth int
	// BloomFilter holds the ancestors of the element being matched, if set.
	BloomFilter *bloom.Filter
	// PseudoElementMatchingFn filters the pseudo-element in
	// ForStatelessPseudoElement mode.
	PseudoElementMatchingFn func(selector.PseudoElementKind) bool
}

// Context is the mutable state of a batch of match calls. It must not be
// shared between goroutines.
type Context struct {
	Options
	Caches *SelectorCaches

	nestingLevel int
	inNegation   bool
	depth        int
	currentHost  Element
	scope        Element
	anchor       Element
}

func NewContext(o Options, caches *SelectorCaches) *Context {
	if caches == nil {
		caches = NewSelectorCaches()
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return &Context{Options: o, Caches: caches}
}

func (v VisitedHandling) MatchesVisited() bool {
	return v == RelevantLinkVisited || v == AllLinksVisitedAndUnvisited
}

func (v VisitedHandling) MatchesUnvisited() bool {
	return v == AllLinksUnvisited || v == AllLinksVisitedAndUnvisited
}

func (q QuirksMode) String() string {
	return [...]string{"no-quirks", "limited-quirks", "quirks"}[q]
}

// ClassAndIDCaseSensitivity is ascii case-insensitive in quirks mode.
func (c *Context) ClassAndIDCaseSensitivity() selector.CaseSensitivity {
	if c.QuirksMode == Quirks {
		return selector.ASCIICaseInsensitive
	}
	return selector.CaseSensitive
}

func (c *Context) IsNested() bool                  { return c.nestingLevel > 0 }
func (c *Context) InNegation() bool                { return c.inNegation }
func (c *Context) ShadowHost() Element             { return c.currentHost }
func (c *Context) Scope() Element                  { return c.scope }
func (c *Context) RelativeSelectorAnchor() Element { return c.anchor }

// Nest runs f for a selector nested in :is(), :where(), :host() and the like.
func (c *Context) Nest(f func() bool) bool {
	c.nestingLevel++
	defer func() {
		c.nestingLevel--
		if debugAssertions && c.nestingLevel < 0 {
			panic("unbalanced nesting level")
		}
	}()
	return f()
}

func (c *Context) NestForNegation(f func() bool) bool {
	old := c.inNegation
	c.inNegation = true
	defer func() { c.inNegation = old }()
	return c.Nest(f)
}

// NestForRelativeSelector runs f with anchor as the element :has() is
// evaluated for.
func (c *Context) NestForRelativeSelector(anchor Element, f func() bool) bool {
	if debugAssertions && c.anchor != nil {
		panic(fmt.Sprintf("nested relative selector anchor %v in %v", anchor.Opaque(), c.anchor.Opaque()))
	}
	old := c.anchor
	c.anchor = anchor
	defer func() { c.anchor = old }()
	return c.Nest(f)
}

// WithShadowHost runs f with the shadow host whose stylesheet the matched
// selectors come from. nil means the document.
func (c *Context) WithShadowHost(host Element, f func() bool) bool {
	old := c.currentHost
	c.currentHost = host
	defer func() { c.currentHost = old }()
	return f()
}

// WithScope runs f with the element :scope matches. nil means the root.
func (c *Context) WithScope(scope Element, f func() bool) bool {
	old := c.scope
	c.scope = scope
	defer func() { c.scope = old }()
	return f()
}

func (c *Context) WithVisitedHandling(v VisitedHandling, f func() bool) bool {
	old := c.VisitedHandling
	c.VisitedHandling = v
	defer func() { c.VisitedHandling = old }()
	return f()
}

func (c *Context) quirks() bool { return c.QuirksMode == Quirks }

func (c *Context) enter() {
	if c.depth++; c.depth > c.MaxDepth {
		panic(&DepthLimitError{Limit: c.MaxDepth})
	}
}

func (c *Context) leave() { c.depth-- }
