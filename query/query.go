// query finds the elements of a dom.Document matching a selector list.
//
// A Query walks the tree in document order and keeps the ancestors of the
// current element in a bloom filter, so most selectors that can not match
// are rejected without running the matcher.
package query

import (
	"context"
	"fmt"

	"github.com/niklasfasching/selectors/bloom"
	"github.com/niklasfasching/selectors/dom"
	"github.com/niklasfasching/selectors/matching"
	"github.com/niklasfasching/selectors/selector"
)

// Query is not safe for concurrent use, see Parallel.
type Query struct {
	List    *selector.List
	Context *matching.Context
	// Matched counts matcher runs, Rejected selectors skipped by the bloom
	// filter.
	Matched, Rejected int

	hashes []bloom.Hashes
	// pseudo marks selectors of pseudo-elements, they are skipped for elements.
	pseudo []bool
	filter *bloom.Filter
}

func New(l *selector.List, mc *matching.Context) *Query {
	q := &Query{List: l, Context: mc, filter: bloom.New()}
	for _, s := range l.Selectors {
		q.hashes = append(q.hashes, s.AncestorHashes(mc.QuirksMode == matching.Quirks))
		q.pseudo = append(q.pseudo, s.HasPseudoElement())
	}
	return q
}

// First returns the first element of the subtree of root that matches l.
func First(ctx context.Context, l *selector.List, root *dom.Element) (*dom.Element, error) {
	return New(l, newContext(root)).First(ctx, root)
}

// All returns the elements of the subtree of root that match l.
func All(ctx context.Context, l *selector.List, root *dom.Element) ([]*dom.Element, error) {
	return New(l, newContext(root)).All(ctx, root)
}

func newContext(root *dom.Element) *matching.Context {
	return matching.NewContext(matching.Options{QuirksMode: root.Document().Quirks}, nil)
}

// Matches reports whether e matches any selector of the list.
func (q *Query) Matches(e *dom.Element) (bool, error) {
	q.seed(e)
	return q.match(e)
}

func (q *Query) First(ctx context.Context, root *dom.Element) (first *dom.Element, err error) {
	err = q.Walk(ctx, root, func(e *dom.Element) bool {
		first = e
		return false
	})
	return first, err
}

func (q *Query) All(ctx context.Context, root *dom.Element) (es []*dom.Element, err error) {
	err = q.Walk(ctx, root, func(e *dom.Element) bool {
		es = append(es, e)
		return true
	})
	return es, err
}

func (q *Query) Count(ctx context.Context, root *dom.Element) (n int, err error) {
	err = q.Walk(ctx, root, func(*dom.Element) bool {
		n++
		return true
	})
	return n, err
}

// Walk calls f with every matching element of the subtree of root in
// document order until f returns false. Shadow trees are not entered.
func (q *Query) Walk(ctx context.Context, root *dom.Element, f func(*dom.Element) bool) error {
	q.seed(root)
	_, err := q.walk(ctx, root, f)
	return err
}

func (q *Query) walk(ctx context.Context, e *dom.Element, f func(*dom.Element) bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if matched, err := q.match(e); err != nil {
		return false, fmt.Errorf("%s: %w", e, err)
	} else if matched && !f(e) {
		return false, nil
	}
	if len(e.Children()) == 0 {
		return true, nil
	}
	e.AddElementUniqueHashes(q.filter)
	defer e.RemoveElementUniqueHashes(q.filter)
	for _, c := range e.Children() {
		if more, err := q.walk(ctx, c, f); !more || err != nil {
			return false, err
		}
	}
	return true, nil
}

func (q *Query) match(e *dom.Element) (bool, error) {
	for i, s := range q.List.Selectors {
		if q.pseudo[i] && !e.IsPseudoElement() {
			continue
		}
		if !bloom.MayMatch(q.hashes[i], q.filter) {
			q.Rejected++
			continue
		}
		q.Matched++
		matched, err := matching.Guard(q.Context, func(mc *matching.Context) bool {
			return matching.MatchesSelector(s, 0, nil, e, mc)
		})
		if err != nil || matched {
			return matched, err
		}
	}
	return false, nil
}

// seed resets the filter to the ancestors of e.
func (q *Query) seed(e *dom.Element) {
	q.filter.Clear()
	for p := e.Parent(); p != nil; p = p.Parent() {
		p.AddElementUniqueHashes(q.filter)
	}
}
