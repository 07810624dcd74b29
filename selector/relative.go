package selector

import (
	"fmt"
	"strings"

	"github.com/niklasfasching/selectors/bloom"
)

// MatchHint tells the :has() matcher where to search for elements matching
// a relative selector, relative to the anchor.
type MatchHint uint8

const (
	InChild MatchHint = iota
	InSubtree
	InNextSibling
	InNextSiblingSubtree
	InSibling
	InSiblingSubtree
)

type RelativeSelector struct {
	id                 uint64
	MatchHint          MatchHint
	Selector           *Selector
	filterHashes       bloom.Hashes
	quirksFilterHashes bloom.Hashes
}

// Relative starts a relative selector: the anchor compound followed by the
// leading combinator. Finish it with BuildRelative.
func Relative(leading Combinator) *Builder {
	return New().Push(RelativeSelectorAnchor{}).Combine(leading)
}

func (b *Builder) BuildRelative() *RelativeSelector { return NewRelative(b.Build()) }

// NewRelative wraps a selector whose leftmost compound is the relative
// selector anchor.
func NewRelative(s *Selector) *RelativeSelector {
	n := s.Len()
	if n < 2 {
		panic(fmt.Sprintf("relative selector too short: %q", s))
	} else if _, ok := s.At(n - 1).(RelativeSelectorAnchor); !ok {
		panic(fmt.Sprintf("relative selector does not start with an anchor: %q", s))
	}
	leading, hasDescendants, hasSiblings := s.CombinatorAtMatchOrder(n-2), false, false
	for _, c := range s.components[:n-2] {
		if c, ok := c.(Combinator); ok {
			hasDescendants = hasDescendants || c.IsAncestor()
			hasSiblings = hasSiblings || c.IsSibling()
		}
	}
	r := &RelativeSelector{id: nextID(), Selector: s}
	r.MatchHint = matchHint(leading, hasDescendants, hasSiblings)
	r.filterHashes, r.quirksFilterHashes = filterHashes(s, false), filterHashes(s, true)
	return r
}

func matchHint(leading Combinator, hasDescendants, hasSiblings bool) MatchHint {
	switch leading {
	case Descendant:
		return InSubtree
	case Child:
		return pick(hasDescendants, InSubtree, InChild)
	case NextSibling:
		if hasDescendants {
			return pick(hasSiblings, InSiblingSubtree, InNextSiblingSubtree)
		}
		return pick(hasSiblings, InSibling, InNextSibling)
	case LaterSibling:
		return pick(hasDescendants, InSiblingSubtree, InSibling)
	default:
		panic(fmt.Sprintf("invalid leading combinator for relative selector: %d", leading))
	}
}

// filterHashes collects hashes of every compound but the anchor: for
// descendant direction searches all of them must occur in the subtree of the
// anchor.
func filterHashes(s *Selector, quirks bool) bloom.Hashes {
	hs, it := []uint32{}, s.Iter()
	for ok := true; ok && len(hs) < 4; {
		if hs, ok = appendHashes(&it, hs, quirks); !ok {
			break
		}
		c, more := it.NextSequence()
		ok = more && (c.IsAncestor() || c.IsSibling())
	}
	return bloom.Pack(hs...)
}

func (r *RelativeSelector) ID() uint64 { return r.id }

func (r *RelativeSelector) FilterHashes(quirks bool) bloom.Hashes {
	if quirks {
		return r.quirksFilterHashes
	}
	return r.filterHashes
}

func (r *RelativeSelector) String() string { return strings.TrimSpace(r.Selector.String()) }

func (h MatchHint) IsDescendantDirection() bool { return h == InChild || h == InSubtree }

func (h MatchHint) IsNextSibling() bool { return h == InNextSibling || h == InNextSiblingSubtree }

func (h MatchHint) IsSubtree() bool {
	return h == InSubtree || h == InSiblingSubtree || h == InNextSiblingSubtree
}
