package query

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/niklasfasching/selectors/dom"
	"github.com/niklasfasching/selectors/matching"
	"github.com/niklasfasching/selectors/selector"
	"github.com/niklasfasching/selectors/util"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// Parallel returns the elements of d matching l in document order. The tree
// is split into subtrees matched by up to cfg.Workers goroutines, each with
// its own matching context.
func Parallel(ctx context.Context, cfg Config, d *dom.Document, l *selector.List) ([]*dom.Element, error) {
	o, err := cfg.Options(d)
	if err != nil {
		return nil, err
	}
	workers := max(cfg.Workers, 1)
	upper, subtrees := split(d.Root(), workers*4)
	util.Debugf(ctx, "query %q: %d workers, %d subtrees, %d upper elements", l, workers, len(subtrees), len(upper))

	queries := make(chan *Query, workers)
	for i := 0; i < workers; i++ {
		queries <- New(l, matching.NewContext(o, nil))
	}
	results := make([][]*dom.Element, len(subtrees)+1)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	g.Go(func() error {
		q := <-queries
		defer func() { queries <- q }()
		for _, e := range upper {
			if matched, err := q.Matches(e); err != nil {
				return fmt.Errorf("%s: %w", e, err)
			} else if matched {
				results[0] = append(results[0], e)
			}
		}
		return nil
	})
	for i, root := range subtrees {
		g.Go(func() error {
			q := <-queries
			defer func() { queries <- q }()
			es, err := q.All(ctx, root)
			results[i+1] = es
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("query %q: %w", l, err)
	}
	close(queries)
	logStats(ctx, queries)
	var es []*dom.Element
	for _, r := range results {
		es = append(es, r...)
	}
	slices.SortFunc(es, func(a, b *dom.Element) int { return cmp.Compare(a.Opaque(), b.Opaque()) })
	return es, nil
}

// split expands the tree breadth first until there are at least n subtrees.
// The expanded elements are returned as upper.
func split(root *dom.Element, n int) (upper, subtrees []*dom.Element) {
	subtrees = []*dom.Element{root}
	for len(subtrees) < n {
		next, expanded := []*dom.Element{}, false
		for _, e := range subtrees {
			if len(e.Children()) == 0 {
				next = append(next, e)
				continue
			}
			upper, next, expanded = append(upper, e), append(next, e.Children()...), true
		}
		if !expanded {
			break
		}
		subtrees = next
	}
	return upper, subtrees
}

func logStats(ctx context.Context, queries <-chan *Query) {
	total := map[string]int{}
	for q := range queries {
		s := q.Context.Caches.Stats()
		for k, v := range map[string]int{
			"matched":          q.Matched,
			"rejected":         q.Rejected,
			"nth.entries":      s.NthEntries,
			"nth.hits":         s.NthHits,
			"relative.entries": s.RelativeEntries,
			"relative.hits":    s.RelativeHits,
			"filter.rejects":   s.FilterRejects,
		} {
			total[k] += v
		}
	}
	keys := maps.Keys(total)
	slices.Sort(keys)
	kvs := make([]string, len(keys))
	for i, k := range keys {
		kvs[i] = fmt.Sprintf("%s=%d", k, total[k])
	}
	util.Debugf(ctx, "query stats: %s", strings.Join(kvs, " "))
}
