package matching

import (
	"github.com/niklasfasching/selectors/bloom"
	"github.com/niklasfasching/selectors/selector"
	"github.com/niklasfasching/selectors/util"
)

// SelectorCaches live for one traversal of an unchanged tree. Clear them
// before matching against a mutated tree.
type SelectorCaches struct {
	Nth            NthIndexCache
	Relative       RelativeSelectorCache
	RelativeFilter RelativeSelectorFilterMap
}

// NthIndexCache maps elements to their 1-based sibling index, one table per
// kind of index.
type NthIndexCache struct {
	m map[nthKey]*util.Cache[OpaqueElement, int]
}

type nthKey struct {
	ofType, fromEnd bool
	list            uint64
}

type RelativeSelectorCache struct {
	c util.Cache[relativeKey, bool]
}

type relativeKey struct {
	e        OpaqueElement
	selector uint64
}

// RelativeSelectorFilterMap keeps a bloom filter of the subtree of :has()
// anchors.
type RelativeSelectorFilterMap struct {
	filters map[OpaqueElement]*bloom.Filter
	rejects int
}

type Stats struct {
	NthTables, NthEntries, NthHits, NthMisses     int
	RelativeEntries, RelativeHits, RelativeMisses int
	Filters, FilterRejects                        int
}

func NewSelectorCaches() *SelectorCaches { return &SelectorCaches{} }

func (c *SelectorCaches) Clear() {
	c.Nth.Clear()
	c.Relative.c.Clear()
	c.RelativeFilter.Clear()
}

func (c *SelectorCaches) Stats() Stats {
	s := Stats{
		NthTables:       len(c.Nth.m),
		RelativeEntries: c.Relative.c.Len(),
		RelativeHits:    c.Relative.c.Hits(),
		RelativeMisses:  c.Relative.c.Misses(),
		Filters:         len(c.RelativeFilter.filters),
		FilterRejects:   c.RelativeFilter.rejects,
	}
	for _, t := range c.Nth.m {
		s.NthEntries += t.Len()
		s.NthHits += t.Hits()
		s.NthMisses += t.Misses()
	}
	return s
}

// Get returns the table for the kind of index. A nil list is the plain
// :nth-child / :nth-of-type family.
func (c *NthIndexCache) Get(ofType, fromEnd bool, list *selector.List) *util.Cache[OpaqueElement, int] {
	k := nthKey{ofType, fromEnd, list.ID()}
	if c.m == nil {
		c.m = map[nthKey]*util.Cache[OpaqueElement, int]{}
	}
	t, ok := c.m[k]
	if !ok {
		t = util.NewCache[OpaqueElement, int]()
		c.m[k] = t
	}
	return t
}

func (c *NthIndexCache) Clear() { clear(c.m) }

func (c *RelativeSelectorCache) Lookup(e Element, r *selector.RelativeSelector) (matched, ok bool) {
	return c.c.Lookup(relativeKey{e.Opaque(), r.ID()})
}

func (c *RelativeSelectorCache) Add(e Element, r *selector.RelativeSelector, matched bool) {
	c.c.Set(relativeKey{e.Opaque(), r.ID()}, matched)
}

// FastReject reports whether no element in the subtree of e can match r.
// Only selectors searching the subtree of the anchor are filtered.
func (m *RelativeSelectorFilterMap) FastReject(e Element, r *selector.RelativeSelector, quirks bool) bool {
	if !r.MatchHint.IsDescendantDirection() {
		return false
	}
	if m.filters == nil {
		m.filters = map[OpaqueElement]*bloom.Filter{}
	}
	f, ok := m.filters[e.Opaque()]
	if !ok {
		f = bloom.New()
		for c := e.FirstElementChild(); c != nil; c = c.NextSiblingElement() {
			addSubtree(c, f)
		}
		m.filters[e.Opaque()] = f
	}
	if bloom.MayMatch(r.FilterHashes(quirks), f) {
		return false
	}
	m.rejects++
	return true
}

func (m *RelativeSelectorFilterMap) Clear() {
	clear(m.filters)
	m.rejects = 0
}

func addSubtree(e Element, f *bloom.Filter) {
	e.AddElementUniqueHashes(f)
	for c := e.FirstElementChild(); c != nil; c = c.NextSiblingElement() {
		addSubtree(c, f)
	}
}
