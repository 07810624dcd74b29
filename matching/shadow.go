package matching

import (
	"github.com/niklasfasching/selectors/selector"
)

// nextElementForCombinator returns the next candidate for the compound left
// of c. it points at that compound.
func nextElementForCombinator(e Element, c selector.Combinator, it selector.Iter, ctx *Context) Element {
	switch c {
	case selector.NextSibling, selector.LaterSibling:
		return e.PrevSiblingElement()
	case selector.Child, selector.Descendant:
		if p := e.ParentElement(); p != nil {
			return p
		} else if !e.ParentNodeIsShadowRoot() || !it.IsFeaturelessHostSelector() {
			return nil
		}
		// Only :host matches the host from inside its shadow tree.
		return e.ContainingShadowHost()
	case selector.PartCombinator:
		_, host := partHosts(e, ctx)
		return host
	case selector.SlotAssignment:
		host := ctx.ShadowHost()
		if host == nil {
			return nil
		}
		slot := e.AssignedSlot()
		for slot != nil && !same(slot.ContainingShadowHost(), host) {
			slot = slot.AssignedSlot()
		}
		return slot
	case selector.PseudoElementCombinator:
		return e.PseudoElementOriginatingElement()
	default:
		return nil
	}
}

func matchesHost(e Element, s *selector.Selector, ctx *Context, rightmost bool) bool {
	if host := ctx.ShadowHost(); host == nil || !same(host, e) {
		return false
	} else if s == nil {
		return true
	}
	return ctx.WithShadowHost(e.ContainingShadowHost(), func() bool {
		return ctx.Nest(func() bool { return matchesNested(s, e, ctx, rightmost) })
	})
}

// partHosts climbs from the shadow tree of e to the host in the tree of the
// current shadow host. hosts are the hosts in between, innermost first. The
// containing host of e is returned as is if it is the current shadow host,
// so that :host::part() matches from inside its shadow tree.
func partHosts(e Element, ctx *Context) (hosts []Element, host Element) {
	host = e.ContainingShadowHost()
	if host != nil && same(host, ctx.ShadowHost()) {
		return nil, host
	}
	for host != nil {
		outer := host.ContainingShadowHost()
		if same(outer, ctx.ShadowHost()) {
			return hosts, host
		}
		hosts, host = append(hosts, host), outer
	}
	return nil, nil
}

// matchesPart translates each name through the exportparts of the hosts in
// between, outermost first, and tests the result on e.
func matchesPart(e Element, names []string, ctx *Context) bool {
	hosts, host := partHosts(e, ctx)
	if host == nil {
		return false
	}
	for _, name := range names {
		for i := len(hosts) - 1; i >= 0; i-- {
			imported, ok := hosts[i].ImportedPart(name)
			if !ok {
				return false
			}
			name = imported
		}
		if !e.IsPart(name) {
			return false
		}
	}
	return true
}
