package selector

import (
	"reflect"
	"testing"

	"github.com/niklasfasching/selectors/bloom"
)

type pseudoClass string
type pseudoElement string

func (p pseudoClass) Name() string          { return string(p) }
func (p pseudoClass) IsActiveOrHover() bool { return p == "hover" || p == "active" }
func (p pseudoElement) Name() string        { return string(p) }

type escapeTest struct{ unescaped, escapedID, escapedString string }

var escapeTests = []escapeTest{
	{"0123abc", "\\30 123abc", `"0123abc"`},
	{"-0123abc", "-\\30 123abc", `"-0123abc"`},
	{"-", "\\-", `"-"`},
	{"#foo.bar", "\\#foo\\.bar", `"#foo.bar"`},
	{"\000", "�", "\"�\""},
	{"abc\000def", "abc�def", "\"abc�def\""},
	{"\\ \"", "\\\\\\ \\\"", `"\\ \""`},
}

func TestEscape(t *testing.T) {
	for _, escapeTest := range escapeTests {
		if escapedID := EscapeIdentifier(escapeTest.unescaped); escapeTest.escapedID != escapedID {
			t.Errorf("escapeID\ngot:\n\t'%#v'\n\nexpected:\n\t'%#v'", escapedID, escapeTest.escapedID)
		}
		if escapedString := EscapeString(escapeTest.unescaped); escapeTest.escapedString != escapedString {
			t.Errorf("escapeString\ngot:\n\t'%#v'\n\nexpected:\n\t'%#v'", escapedString, escapeTest.escapedString)
		}
	}
}

func TestString(t *testing.T) {
	hover, before := NonTSPseudoClass{pseudoClass("hover")}, PseudoElement{pseudoElement("before")}
	tests := []struct {
		selector *Selector
		expected string
	}{
		{Compound(Type("div"), Class{Name: "a"}, ID{Name: "b"}), "div.a#b"},
		{New().Push(Type("div"), Class{Name: "a"}).Combine(Child).Push(Type("span"), Nth{First(false)}).Build(), "div.a > span:first-child"},
		{New().Push(Type("a")).Combine(NextSibling).Push(Type("b")).Combine(Child).Push(Type("c")).Build(), "a + b > c"},
		{New().Push(Class{Name: "x"}).Combine(Descendant).Push(Type("p")).Combine(LaterSibling).Push(hover).Build(), ".x p ~ :hover"},
		{Compound(Nth{NthChildData(2, 1)}), ":nth-child(2n+1)"},
		{Compound(Nth{NthData(NthLastOfType, -1, 3)}), ":nth-last-of-type(-n+3)"},
		{Compound(Nth{Only(true)}), ":only-of-type"},
		{Compound(NthOf{NthChildData(0, 2), NewList(Compound(Class{Name: "a"}), Compound(Type("b")))}), ":nth-child(2 of .a, b)"},
		{Compound(Type("div"), before), "div::before"},
		{Compound(Type("div"), before, hover), "div::before:hover"},
		{Compound(Host{}, Slotted{Compound(Type("span"))}), ":host::slotted(span)"},
		{Compound(Type("x-foo"), Part{[]string{"label", "icon"}}), "x-foo::part(label icon)"},
		{New().Push(Host{}, Part{Names: []string{"label"}}).Build(), ":host::part(label)"},
		{New().Push(Type("ul"), Negation{NewList(Compound(Class{Name: "b"}))}).Combine(NextSibling).Push(ID{Name: "c"}, before).Build(), "ul:not(.b) + #c::before"},
		{Compound(Negation{NewList(Compound(AttrValue("type", Equal, "text")))}), `:not([type="text"])`},
		{Compound(Is{NewList(Compound(Root{}), Compound(Empty{}))}, Where{NewList(Compound(Scope{}))}), ":is(:root, :empty):where(:scope)"},
		{Compound(AttributeEquals{"lang", DashMatch, "en", ParsedASCIICaseInsensitive}), `[lang|="en" i]`},
		{Compound(Type("ul"), Has{[]*RelativeSelector{Relative(Child).Push(Type("li"), Class{Name: "selected"}).BuildRelative()}}), "ul:has(> li.selected)"},
		{Compound(Has{[]*RelativeSelector{Relative(Descendant).Push(Type("img")).BuildRelative(), Relative(NextSibling).Push(Type("p")).BuildRelative()}}), ":has(img, + p)"},
	}
	for _, test := range tests {
		if actual := test.selector.String(); actual != test.expected {
			t.Errorf("got:\n\t%q\nexpected:\n\t%q", actual, test.expected)
		}
	}
}

func TestMatchOrder(t *testing.T) {
	s := New().Push(Type("div"), Class{Name: "a"}).Combine(Child).Push(Type("span"), ID{Name: "x"}).Build()
	expected := []Component{Type("span"), ID{Name: "x"}, Child, Type("div"), Class{Name: "a"}}
	if !reflect.DeepEqual(s.components, expected) {
		t.Fatalf("got %#v, expected %#v", s.components, expected)
	}
	it := s.Iter()
	if c, ok := it.Next(); !ok || c != Type("span") {
		t.Errorf("got %v, expected span", c)
	}
	if c, ok := it.NextSequence(); !ok || c != Child {
		t.Errorf("got %v, expected child combinator", c)
	}
	if c, ok := it.Next(); !ok || c != Type("div") {
		t.Errorf("got %v, expected div", c)
	}
	it.NextSequence()
	if _, ok := it.NextSequence(); ok {
		t.Errorf("expected no combinator left of leftmost compound")
	}
	if c := s.CombinatorAtParseOrder(2); c != Child {
		t.Errorf("got %v, expected child combinator at parse offset 2", c)
	}
	if !s.IsRightmost(0) || s.IsRightmost(3) {
		t.Errorf("expected only offset 0 to be rightmost")
	}
	pseudo := Compound(Type("div"), PseudoElement{pseudoElement("after")})
	if !pseudo.IsRightmost(2) || !pseudo.HasPseudoElement() {
		t.Errorf("expected compound left of pseudo-element combinator to be rightmost")
	}
}

func TestFeaturelessHost(t *testing.T) {
	tests := []struct {
		selector *Selector
		expected bool
	}{
		{Compound(Host{}), true},
		{Compound(Host{Compound(Class{Name: "a"})}), true},
		{Compound(Host{}, Class{Name: "a"}), false},
		{Compound(Type("div")), false},
		{New().Combine(Child).Push(Type("div")).Build(), false},
	}
	for _, test := range tests {
		if actual := test.selector.Iter().IsFeaturelessHostSelector(); actual != test.expected {
			t.Errorf("%s: got %v, expected %v", test.selector, actual, test.expected)
		}
	}
}

func TestMatchesForStatelessPseudoElement(t *testing.T) {
	before, hover := PseudoElement{pseudoElement("before")}, NonTSPseudoClass{pseudoClass("hover")}
	notNot := Negation{NewList(Compound(Negation{NewList()}))}
	tests := []struct {
		selector *Selector
		expected bool
	}{
		{Compound(before), true},
		{Compound(before, hover), false},
		{Compound(before, notNot), true},
		{Compound(before, Negation{NewList(Compound(hover))}), false},
		{Compound(before, Is{NewList(Compound(hover), Compound(Where{NewList(Compound(notNot))}))}), true},
		{Compound(before, Where{NewList(Compound(hover))}), false},
		{Compound(before, notNot, Class{Name: "a"}), false},
	}
	for _, test := range tests {
		it := test.selector.Iter()
		it.Next()
		if actual := it.MatchesForStatelessPseudoElement(); actual != test.expected {
			t.Errorf("%s: got %v, expected %v", test.selector, actual, test.expected)
		}
	}
}

func TestAncestorHashes(t *testing.T) {
	s := New().
		Push(Type("div"), Class{Name: "a"}).Combine(Descendant).
		Push(Type("p")).Combine(LaterSibling).
		Push(Class{Name: "sibling"}).Combine(Child).
		Push(Type("Span"), ID{Name: "subject"}).Build()
	// p is a sibling of .sibling, the parent of the subject, and not hashed.
	expected := bloom.Pack(bloom.Hash("sibling"), bloom.Hash("div"), bloom.Hash("a"))
	if actual := s.AncestorHashes(false); actual != expected {
		t.Errorf("got %x, expected %x", actual, expected)
	}
	expected = bloom.Pack(bloom.Hash("div"))
	if actual := s.AncestorHashes(true); actual != expected {
		t.Errorf("quirks: got %x, expected %x", actual, expected)
	}
	host := New().Push(Type("main")).Combine(Descendant).Push(Host{}).Combine(Child).Push(Type("div")).Build()
	if actual := host.AncestorHashes(false); actual != (bloom.Hashes{}) {
		t.Errorf("expected hashing to stop at :host, got %x", actual)
	}
	mixed := New().Push(Type("DIV")).Combine(Child).Push(Type("b")).Build()
	if actual := mixed.AncestorHashes(false); actual != (bloom.Hashes{}) {
		t.Errorf("expected mixed-case local name to not be hashed, got %x", actual)
	}
}

func TestRelativeSelector(t *testing.T) {
	tests := []struct {
		relative *RelativeSelector
		expected MatchHint
	}{
		{Relative(Descendant).Push(Type("a")).BuildRelative(), InSubtree},
		{Relative(Child).Push(Type("a")).BuildRelative(), InChild},
		{Relative(Child).Push(Type("a")).Combine(LaterSibling).Push(Type("b")).BuildRelative(), InChild},
		{Relative(Child).Push(Type("a")).Combine(Descendant).Push(Type("b")).BuildRelative(), InSubtree},
		{Relative(NextSibling).Push(Type("a")).BuildRelative(), InNextSibling},
		{Relative(NextSibling).Push(Type("a")).Combine(Child).Push(Type("b")).BuildRelative(), InNextSiblingSubtree},
		{Relative(NextSibling).Push(Type("a")).Combine(LaterSibling).Push(Type("b")).BuildRelative(), InSibling},
		{Relative(NextSibling).Push(Type("a")).Combine(LaterSibling).Push(Type("b")).Combine(Child).Push(Type("c")).BuildRelative(), InSiblingSubtree},
		{Relative(LaterSibling).Push(Type("a")).BuildRelative(), InSibling},
		{Relative(LaterSibling).Push(Type("a")).Combine(Descendant).Push(Type("b")).BuildRelative(), InSiblingSubtree},
	}
	for _, test := range tests {
		if actual := test.relative.MatchHint; actual != test.expected {
			t.Errorf("%s: got %d, expected %d", test.relative, actual, test.expected)
		}
	}
	r := Relative(Child).Push(Type("li"), Class{Name: "selected"}).BuildRelative()
	expected := bloom.Pack(bloom.Hash("li"), bloom.Hash("selected"))
	if actual := r.FilterHashes(false); actual != expected {
		t.Errorf("got filter hashes %x, expected %x", actual, expected)
	}
	if r.ID() == Relative(Child).Push(Type("li")).BuildRelative().ID() {
		t.Errorf("expected unique relative selector ids")
	}
}

func TestNthMatches(t *testing.T) {
	tests := []struct {
		a, b     int
		expected []int
	}{
		{2, 1, []int{1, 3, 5, 7}},
		{2, 0, []int{2, 4, 6}},
		{0, 3, []int{3}},
		{-1, 3, []int{1, 2, 3}},
		{3, -1, []int{2, 5}},
		{1, 0, []int{1, 2, 3, 4, 5, 6, 7}},
	}
	for _, test := range tests {
		actual, data := []int{}, NthChildData(test.a, test.b)
		for i := 1; i <= 7; i++ {
			if data.Matches(i) {
				actual = append(actual, i)
			}
		}
		if !reflect.DeepEqual(actual, test.expected) {
			t.Errorf("%s: got %v, expected %v", data, actual, test.expected)
		}
	}
	if !First(false).IsSimpleEdge() || !Last(false).IsSimpleEdge() || First(true).IsSimpleEdge() || Only(false).IsSimpleEdge() || NthChildData(2, 1).IsSimpleEdge() {
		t.Errorf("bad IsSimpleEdge")
	}
}

func TestAttrOperator(t *testing.T) {
	tests := []struct {
		op       AttrOperator
		av, sv   string
		cs       CaseSensitivity
		expected bool
	}{
		{Equal, "foo", "foo", CaseSensitive, true},
		{Equal, "Foo", "foo", CaseSensitive, false},
		{Equal, "Foo", "foo", ASCIICaseInsensitive, true},
		{Includes, "a b  c", "b", CaseSensitive, true},
		{Includes, "a b c", "d", CaseSensitive, false},
		{Includes, "a b", "", CaseSensitive, false},
		{Includes, "a b", "a b", CaseSensitive, false},
		{Includes, "A B", "b", ASCIICaseInsensitive, true},
		{DashMatch, "en-US", "en", CaseSensitive, true},
		{DashMatch, "en", "en", CaseSensitive, true},
		{DashMatch, "english", "en", CaseSensitive, false},
		{DashMatch, "EN-us", "en", ASCIICaseInsensitive, true},
		{Prefix, "foobar", "foo", CaseSensitive, true},
		{Prefix, "foobar", "", CaseSensitive, false},
		{Suffix, "foobar", "bar", CaseSensitive, true},
		{Suffix, "foobar", "BAR", ASCIICaseInsensitive, true},
		{Suffix, "ar", "bar", CaseSensitive, false},
		{Substring, "foobar", "oba", CaseSensitive, true},
		{Substring, "FOOBAR", "oba", ASCIICaseInsensitive, true},
		{Substring, "foobar", "", CaseSensitive, false},
	}
	for _, test := range tests {
		if actual := test.op.Eval(test.av, test.sv, test.cs); actual != test.expected {
			t.Errorf("%q %s %q (%d): got %v, expected %v", test.av, test.op, test.sv, test.cs, actual, test.expected)
		}
	}
	if ParsedASCIICaseInsensitiveIfInHTMLElementInHTMLDocument.ToUnconditional(false) != CaseSensitive ||
		ParsedASCIICaseInsensitiveIfInHTMLElementInHTMLDocument.ToUnconditional(true) != ASCIICaseInsensitive ||
		ParsedExplicitCaseSensitive.ToUnconditional(true) != CaseSensitive {
		t.Errorf("bad ToUnconditional")
	}
}
