package dom

import (
	"reflect"
	"strings"
	"testing"

	"github.com/niklasfasching/selectors/bloom"
	"github.com/niklasfasching/selectors/matching"
	"github.com/niklasfasching/selectors/selector"
)

const shadowHTML = `<!DOCTYPE html>
<div id="host">
  <template shadowrootmode="open">
    <slot id="default"></slot>
    <p id="inner" part="label"><slot id="named" name="title"></slot></p>
  </template>
  <span id="a"></span>
  <span id="b" slot="title"></span>
</div>`

func TestQuirksMode(t *testing.T) {
	for _, tc := range []struct {
		html     string
		expected matching.QuirksMode
	}{
		{`<p>`, matching.Quirks},
		{`<!DOCTYPE html><p>`, matching.NoQuirks},
		{`<!DOCTYPE foo><p>`, matching.Quirks},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01 Transitional//EN"><p>`, matching.Quirks},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01 Transitional//EN" "http://www.w3.org/TR/html4/loose.dtd"><p>`, matching.LimitedQuirks},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">`, matching.LimitedQuirks},
	} {
		if actual := MustParseString(tc.html).Quirks; actual != tc.expected {
			t.Errorf("%s\ngot: %s\nexpected: %s", tc.html, actual, tc.expected)
		}
	}
}

func TestTree(t *testing.T) {
	d := MustParseString(`<!DOCTYPE html><ul><li id="a">x</li><li id="b"></li><!-- c --><li id="c"></li></ul>`)
	a, b, c := d.ByID("a"), d.ByID("b"), d.ByID("c")
	if d.Root().Node.Data != "html" || !d.Root().IsRoot() || a.IsRoot() {
		t.Errorf("bad root: %s", d.Root())
	}
	if a.NextSiblingElement() != b || c.PrevSiblingElement() != b || a.PrevSiblingElement() != nil || c.NextSiblingElement() != nil {
		t.Errorf("bad siblings")
	}
	ul := a.ParentElement().(*Element)
	if ul.FirstElementChild() != a || ul.Node.Data != "ul" {
		t.Errorf("bad parent: %s", ul)
	}
	if a.IsEmpty() || !b.IsEmpty() {
		t.Errorf("bad IsEmpty: %v %v", a.IsEmpty(), b.IsEmpty())
	}
	if a.Opaque() == b.Opaque() {
		t.Errorf("opaque ids must differ")
	}
}

func TestShadowTree(t *testing.T) {
	d := MustParseString(shadowHTML)
	host, a, b := d.ByID("host"), d.ByID("a"), d.ByID("b")
	if host.ShadowRoot() == nil || len(host.ShadowRoot().Children()) != 2 {
		t.Fatalf("bad shadow root: %#v", host.ShadowRoot())
	}
	if d.ByID("inner") != nil {
		t.Errorf("shadow tree ids must not be in the document index")
	}
	defaultSlot, inner := host.ShadowRoot().Children()[0], host.ShadowRoot().Children()[1]
	named := inner.Children()[0]
	if !inner.ParentNodeIsShadowRoot() || inner.ParentElement() != nil || inner.ContainingShadowHost() != host {
		t.Errorf("bad shadow tree navigation for %s", inner)
	}
	if a.AssignedSlot() != defaultSlot || b.AssignedSlot() != named || named.ContainingShadowHost() != host {
		t.Errorf("bad slot assignment: %v %v", a.AssignedSlot(), b.AssignedSlot())
	}
	if host.ContainingShadowHost() != nil || host.AssignedSlot() != nil {
		t.Errorf("light tree element has shadow host or slot")
	}
	if !defaultSlot.IsHTMLSlotElement() || !inner.IsPart("label") || host.IsEmpty() {
		t.Errorf("bad slot / part")
	}
}

func TestImportedPart(t *testing.T) {
	d := MustParseString(`<x-a id="x" exportparts="label: title, icon"></x-a>`)
	x := d.ByID("x")
	for name, expected := range map[string]string{"title": "label", "icon": "icon", "label": ""} {
		if actual, _ := x.ImportedPart(name); actual != expected {
			t.Errorf("%s\ngot: %q\nexpected: %q", name, actual, expected)
		}
	}
}

func TestApplySelectorFlags(t *testing.T) {
	d := MustParseString(shadowHTML)
	host, a := d.ByID("host"), d.ByID("a")
	a.ApplySelectorFlags(matching.HasSlowSelector | matching.HasEmptySelector)
	if host.Flags() != matching.HasSlowSelector || a.Flags() != matching.HasEmptySelector {
		t.Errorf("got: %s / %s", host.Flags(), a.Flags())
	}
	inner := host.ShadowRoot().Children()[1]
	inner.ApplySelectorFlags(matching.HasEdgeChildSelector)
	if host.ShadowRoot().Flags() != matching.HasEdgeChildSelector || inner.Flags() != 0 {
		t.Errorf("got: %s / %s", host.ShadowRoot().Flags(), inner.Flags())
	}
}

func TestLinkAndVisited(t *testing.T) {
	d := MustParseString(`<!DOCTYPE html><a id="unvisited" href="/1"></a><a id="visited" href="/2"></a><a id="anchor"></a>`)
	d.ByID("visited").SetState(Visited)
	for _, tc := range []struct {
		visited      matching.VisitedHandling
		link, linked string
	}{
		{matching.AllLinksUnvisited, "unvisited visited", ""},
		{matching.AllLinksVisitedAndUnvisited, "unvisited visited", "unvisited visited"},
		{matching.RelevantLinkVisited, "unvisited", "visited"},
	} {
		ctx := matching.NewContext(matching.Options{VisitedHandling: tc.visited}, nil)
		link, linked := []string{}, []string{}
		for _, id := range []string{"unvisited", "visited", "anchor"} {
			if d.ByID(id).MatchNonTSPseudoClass(Is("link").Class, ctx) {
				link = append(link, id)
			}
			if d.ByID(id).MatchNonTSPseudoClass(Is("visited").Class, ctx) {
				linked = append(linked, id)
			}
		}
		if actual := strings.Join(link, " "); actual != tc.link {
			t.Errorf(":link (visited handling %d)\ngot: %q\nexpected: %q", tc.visited, actual, tc.link)
		}
		if actual := strings.Join(linked, " "); actual != tc.linked {
			t.Errorf(":visited (visited handling %d)\ngot: %q\nexpected: %q", tc.visited, actual, tc.linked)
		}
	}
}

func TestPseudoElement(t *testing.T) {
	d := MustParseString(`<p id="p"></p>`)
	p := d.ByID("p")
	before := p.PseudoElement("before")
	if before != p.PseudoElement("before") || before == p.PseudoElement("after") {
		t.Errorf("pseudo-elements must be materialized once")
	}
	if !before.IsPseudoElement() || before.PseudoElementOriginatingElement() != p || !before.IgnoresNthChildSelectors() {
		t.Errorf("bad pseudo-element %s", before)
	}
	if !before.MatchPseudoElement(PseudoElement("before"), nil) || before.MatchPseudoElement(PseudoElement("after"), nil) {
		t.Errorf("bad MatchPseudoElement")
	}
}

func TestAttributes(t *testing.T) {
	d := MustParseString(`<!DOCTYPE html><a id="Link" class="x Y" href="/foo" lang="en-US">a</a><svg><use xlink:href="#x"/></svg>`)
	a := d.ByID("Link")
	cs := selector.CaseSensitive
	if !a.HasID("Link", cs) || a.HasID("link", cs) || !a.HasID("link", selector.ASCIICaseInsensitive) {
		t.Errorf("bad HasID")
	}
	if !a.HasClass("Y", cs) || a.HasClass("y", cs) || !a.HasClass("y", selector.ASCIICaseInsensitive) {
		t.Errorf("bad HasClass")
	}
	if !a.AttrMatches(nil, "lang", selector.AttrOperation{Operator: selector.DashMatch, Value: "en"}) {
		t.Errorf("bad AttrMatches")
	}
	use := d.Root().Children()[1].Children()[1].Children()[0]
	xlink := &selector.NamespaceConstraint{URL: "http://www.w3.org/1999/xlink"}
	if use.HasAttrInNoNamespace("href") || !use.AttrMatches(xlink, "href", selector.AttrOperation{Exists: true}) {
		t.Errorf("bad namespaced attribute on %s", use)
	}
	if !use.HasNamespace("http://www.w3.org/2000/svg") || use.IsHTMLElementInHTMLDocument() || !a.IsLink() {
		t.Errorf("bad namespace")
	}
}

func TestAddElementUniqueHashes(t *testing.T) {
	d := MustParseString(`<div id="x" class="a b"></div>`)
	f := bloom.New()
	d.ByID("x").AddElementUniqueHashes(f)
	for _, s := range []string{"div", "x", "a", "b", "http://www.w3.org/1999/xhtml"} {
		if !f.MightContain(s) {
			t.Errorf("missing %q", s)
		}
	}
	d.ByID("x").RemoveElementUniqueHashes(f)
	if !f.IsZeroed() {
		t.Errorf("filter not empty after remove")
	}
}

func TestElements(t *testing.T) {
	d := MustParseString(shadowHTML)
	actual := []string{}
	for _, e := range d.Elements() {
		actual = append(actual, e.String())
	}
	expected := []string{"html", "head", "body", "div#host", "slot#default", "p#inner", "slot#named", "span#a", "span#b"}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("got: %v\nexpected: %v", actual, expected)
	}
}

func TestText(t *testing.T) {
	d := MustParseString("<div id=\"x\"> a <!-- c -->  <b>b</b>\n\n  c </div>")
	x := d.ByID("x")
	if actual, expected := x.Text(), " a   b\n\n  c "; actual != expected {
		t.Errorf("got: %q\nexpected: %q", actual, expected)
	}
	if actual, expected := x.TrimmedText(), "a b\nc"; actual != expected {
		t.Errorf("got: %q\nexpected: %q", actual, expected)
	}
	if !x.MatchNonTSPseudoClass(Contains{"A B"}, nil) || x.MatchNonTSPseudoClass(Contains{"a  b"}, nil) {
		t.Errorf("bad :contains() on %q", x.TrimmedText())
	}
	if actual, expected := selector.Compound(selector.NonTSPseudoClass{Class: Contains{"a b"}}).String(), `:contains("a b")`; actual != expected {
		t.Errorf("got: %q\nexpected: %q", actual, expected)
	}
	if actual, expected := x.Children()[0].OuterHTML(), "<b>b</b>"; actual != expected {
		t.Errorf("got: %q\nexpected: %q", actual, expected)
	}
}
