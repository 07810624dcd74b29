package query

import (
	"context"

	"github.com/niklasfasching/selectors/dom"
	"github.com/niklasfasching/selectors/selector"
	"golang.org/x/net/html"
)

// MatchAll returns the nodes below the document node n (as returned by
// html.Parse) that match l, in document order. The dom is rebuilt on every
// call, keep a dom.Document around for repeated queries.
func MatchAll(ctx context.Context, l *selector.List, n *html.Node) ([]*html.Node, error) {
	d := dom.NewDocument(n)
	if d.Root() == nil {
		return nil, nil
	}
	es, err := All(ctx, l, d.Root())
	if err != nil {
		return nil, err
	}
	return Nodes(es), nil
}

// MatchFirst is MatchAll but returns the first match or nil.
func MatchFirst(ctx context.Context, l *selector.List, n *html.Node) (*html.Node, error) {
	d := dom.NewDocument(n)
	if d.Root() == nil {
		return nil, nil
	}
	e, err := First(ctx, l, d.Root())
	if err != nil || e == nil {
		return nil, err
	}
	return e.Node, nil
}

func Nodes(es []*dom.Element) []*html.Node {
	if es == nil {
		return nil
	}
	ns := make([]*html.Node, len(es))
	for i, e := range es {
		ns[i] = e.Node
	}
	return ns
}
