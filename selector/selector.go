// selector is the immutable, already parsed form of css selectors the
// matching engine works on.
//
// Components are stored in match order: the rightmost compound first, then
// the combinator to its left, then the compound left of that and so on.
// Inside a compound the simple selectors keep their written order.
package selector

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/niklasfasching/selectors/bloom"
)

type Selector struct {
	id           uint64
	components   []Component
	hashes       bloom.Hashes
	quirksHashes bloom.Hashes
}

// List is a selector list such as the argument of :is(). Its ID is a stable
// key for caches that need list identity.
type List struct {
	id        uint64
	Selectors []*Selector
}

// Builder assembles a selector in written (parse) order.
type Builder struct {
	compounds   [][]Component
	combinators []Combinator
}

// Iter walks a single compound of a selector; NextSequence then moves on to
// the combinator left of it. Copying an Iter clones it.
type Iter struct {
	components    []Component
	combinator    Combinator
	hasCombinator bool
}

var lastID atomic.Uint64

func nextID() uint64 { return lastID.Add(1) }

func New() *Builder { return &Builder{compounds: [][]Component{nil}} }

// Push appends simple selectors to the current compound. Pseudo-elements,
// ::slotted() and ::part() start a new compound behind their implied
// combinator.
func (b *Builder) Push(cs ...Component) *Builder {
	for _, c := range cs {
		switch c.(type) {
		case Combinator:
			panic(fmt.Sprintf("use Combine to push combinator %q", c))
		case PseudoElement:
			b.Combine(PseudoElementCombinator)
		case Slotted:
			b.Combine(SlotAssignment)
		case Part:
			b.Combine(PartCombinator)
		}
		b.compounds[len(b.compounds)-1] = append(b.compounds[len(b.compounds)-1], c)
	}
	return b
}

func (b *Builder) Combine(c Combinator) *Builder {
	b.combinators = append(b.combinators, c)
	b.compounds = append(b.compounds, nil)
	return b
}

func (b *Builder) Build() *Selector {
	s := &Selector{id: nextID()}
	for i := len(b.compounds) - 1; i >= 0; i-- {
		s.components = append(s.components, b.compounds[i]...)
		if i > 0 {
			s.components = append(s.components, b.combinators[i-1])
		}
	}
	s.hashes, s.quirksHashes = ancestorHashes(s.components, false), ancestorHashes(s.components, true)
	return s
}

// Compound builds a selector consisting of a single compound.
func Compound(cs ...Component) *Selector { return New().Push(cs...).Build() }

func NewList(ss ...*Selector) *List { return &List{id: nextID(), Selectors: ss} }

func (l *List) ID() uint64 {
	if l == nil {
		return 0
	}
	return l.id
}

func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Selectors)
}

func (l *List) String() string {
	ss := make([]string, l.Len())
	for i, s := range l.Selectors {
		ss[i] = s.String()
	}
	return strings.Join(ss, ", ")
}

func (s *Selector) ID() uint64 { return s.id }

func (s *Selector) Len() int { return len(s.components) }

// At returns the component at the given match order offset.
func (s *Selector) At(i int) Component { return s.components[i] }

// AncestorHashes returns the hashes used to fast-reject s against the bloom
// filter of the ancestors of the element being matched.
func (s *Selector) AncestorHashes(quirks bool) bloom.Hashes {
	if quirks {
		return s.quirksHashes
	}
	return s.hashes
}

func (s *Selector) Iter() Iter { return s.IterFrom(0) }

func (s *Selector) IterFrom(offset int) Iter { return Iter{components: s.components[offset:]} }

func (s *Selector) CombinatorAtMatchOrder(i int) Combinator {
	c, ok := s.components[i].(Combinator)
	if !ok {
		panic(fmt.Sprintf("%s: expected combinator at %d, got %q", s, i, s.components[i]))
	}
	return c
}

func (s *Selector) CombinatorAtParseOrder(i int) Combinator {
	return s.CombinatorAtMatchOrder(len(s.components) - 1 - i)
}

// IsRightmost reports whether matching from offset starts at the subject
// compound (or the compound of a pseudo-element of the subject).
func (s *Selector) IsRightmost(offset int) bool {
	return offset == 0 || s.CombinatorAtMatchOrder(offset-1).IsPseudoElement()
}

func (s *Selector) HasPseudoElement() bool {
	for _, c := range s.components {
		if _, ok := c.(PseudoElement); ok {
			return true
		}
	}
	return false
}

func (s *Selector) String() string {
	compounds, combinators, current := [][]Component{}, []Combinator{}, []Component{}
	for _, c := range s.components {
		if comb, ok := c.(Combinator); ok {
			compounds, combinators, current = append(compounds, current), append(combinators, comb), nil
		} else {
			current = append(current, c)
		}
	}
	compounds = append(compounds, current)
	var out strings.Builder
	for i := len(compounds) - 1; i >= 0; i-- {
		for _, c := range compounds[i] {
			out.WriteString(c.String())
		}
		if i > 0 {
			out.WriteString(combinators[i-1].String())
		}
	}
	return out.String()
}

func (it *Iter) Next() (Component, bool) {
	if it.hasCombinator || len(it.components) == 0 {
		return nil, false
	}
	c := it.components[0]
	it.components = it.components[1:]
	if c, ok := c.(Combinator); ok {
		it.combinator, it.hasCombinator = c, true
		return nil, false
	}
	return c, true
}

// NextSequence skips whatever is left of the current compound and returns
// the combinator to its left, if any.
func (it *Iter) NextSequence() (Combinator, bool) {
	for _, ok := it.Next(); ok; _, ok = it.Next() {
	}
	c, ok := it.combinator, it.hasCombinator
	it.combinator, it.hasCombinator = 0, false
	return c, ok
}

// IsFeaturelessHostSelector reports whether the current compound consists of
// :host selectors only - the only thing that may match a shadow host from
// inside its shadow tree.
func (it Iter) IsFeaturelessHostSelector() bool {
	n := 0
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		if _, isHost := c.(Host); !isHost {
			return false
		}
		n++
	}
	return n > 0
}

// MatchesForStatelessPseudoElement reports whether the rest of the compound
// can match a pseudo-element without state, i.e. no state pseudo-classes like
// ::before:hover follow it. Only :not(), :is() and :where() over such
// selectors are allowed.
func (it Iter) MatchesForStatelessPseudoElement() bool {
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		if !matchesForStatelessPseudoElement(c) {
			return false
		}
	}
	return true
}

func matchesForStatelessPseudoElement(c Component) bool {
	switch c := c.(type) {
	case Negation:
		return statelessSelectors(c.List, false)
	case Is:
		return statelessSelectors(c.List, true)
	case Where:
		return statelessSelectors(c.List, true)
	default:
		return false
	}
}

// statelessSelectors reports whether any (or all) selectors of l consist of
// stateless components only.
func statelessSelectors(l *List, anyOf bool) bool {
	if l == nil {
		return !anyOf
	}
	for _, s := range l.Selectors {
		stateless := true
		for _, c := range s.components {
			if !matchesForStatelessPseudoElement(c) {
				stateless = false
				break
			}
		}
		if stateless == anyOf {
			return anyOf
		}
	}
	return !anyOf
}

func ancestorHashes(components []Component, quirks bool) bloom.Hashes {
	hs, it := []uint32{}, Iter{components: components}
	for {
		c, ok := it.NextSequence()
		if !ok || !c.IsAncestor() && !c.IsSibling() {
			break
		} else if c.IsSibling() {
			continue
		}
		hs, ok = appendHashes(&it, hs, quirks)
		if !ok || len(hs) >= 4 {
			break
		}
	}
	return bloom.Pack(hs...)
}

// appendHashes collects the hashes of the current compound. Compounds
// containing :host match across the shadow boundary, hashing stops there.
func appendHashes(it *Iter, hs []uint32, quirks bool) ([]uint32, bool) {
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		if _, isHost := c.(Host); isHost {
			return hs, false
		} else if h := AncestorHash(c, quirks); h != 0 {
			hs = append(hs, h)
		}
	}
	return hs, true
}

// AncestorHash returns the bloom hash an element matching c is guaranteed to
// have inserted into the filter, or 0. Ids and classes match
// case-insensitively in quirks mode and are not hashed then. Local names are
// only hashed when already lower-case.
func AncestorHash(c Component, quirks bool) uint32 {
	switch c := c.(type) {
	case LocalName:
		if c.Name == c.Lower {
			return bloom.Hash(c.Name)
		}
	case DefaultNamespace:
		return bloom.Hash(c.URL)
	case Namespace:
		return bloom.Hash(c.URL)
	case ID:
		if !quirks {
			return bloom.Hash(c.Name)
		}
	case Class:
		if !quirks {
			return bloom.Hash(c.Name)
		}
	}
	return 0
}
