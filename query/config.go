package query

import (
	"fmt"
	"runtime"

	"github.com/niklasfasching/selectors/dom"
	"github.com/niklasfasching/selectors/matching"
	"github.com/niklasfasching/selectors/util"
)

// Config is read from SELECTORS_* environment variables by LoadConfig.
type Config struct {
	Workers  int
	MaxDepth int  `config:"optional"`
	Flags    bool `config:"optional"`
	// Quirks overrides the quirks mode of the document: no-quirks,
	// limited-quirks or quirks.
	Quirks string `config:"optional"`
	// Visited is unvisited, visited or relevant.
	Visited string `config:"optional"`
}

var visitedHandlings = map[string]matching.VisitedHandling{
	"":          matching.AllLinksUnvisited,
	"unvisited": matching.AllLinksUnvisited,
	"visited":   matching.AllLinksVisitedAndUnvisited,
	"relevant":  matching.RelevantLinkVisited,
}

func DefaultConfig() Config {
	return Config{Workers: runtime.GOMAXPROCS(0), MaxDepth: matching.DefaultMaxDepth}
}

func LoadConfig() (Config, error) {
	c := DefaultConfig()
	if err := util.LoadConfig("SELECTORS", &c); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

// Options returns the matching options for d.
func (c Config) Options(d *dom.Document) (matching.Options, error) {
	o := matching.Options{
		QuirksMode:         d.Quirks,
		NeedsSelectorFlags: c.Flags,
		MaxDepth:           c.MaxDepth,
	}
	if c.Quirks != "" {
		q, err := parseQuirksMode(c.Quirks)
		if err != nil {
			return o, err
		}
		o.QuirksMode = q
	}
	v, ok := visitedHandlings[c.Visited]
	if !ok {
		return o, fmt.Errorf("bad visited handling: %q", c.Visited)
	}
	o.VisitedHandling = v
	return o, nil
}

// Context returns a new matching context for d with fresh caches.
func (c Config) Context(d *dom.Document) (*matching.Context, error) {
	o, err := c.Options(d)
	if err != nil {
		return nil, err
	}
	return matching.NewContext(o, nil), nil
}

func parseQuirksMode(s string) (matching.QuirksMode, error) {
	for _, q := range []matching.QuirksMode{matching.NoQuirks, matching.LimitedQuirks, matching.Quirks} {
		if q.String() == s {
			return q, nil
		}
	}
	return 0, fmt.Errorf("bad quirks mode: %q", s)
}
