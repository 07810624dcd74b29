package bloom

import (
	"fmt"
	"testing"
)

func TestFilter(t *testing.T) {
	f := New()
	f.Insert("div")
	f.Insert("foo")
	if !f.MightContain("div") || !f.MightContain("foo") {
		t.Errorf("expected filter to contain inserted values")
	}
	f.Remove("div")
	if !f.MightContain("foo") {
		t.Errorf("expected filter to still contain foo after removing div")
	}
	f.Remove("foo")
	if !f.IsZeroed() {
		t.Errorf("expected filter to be zeroed after removing everything")
	}
}

func TestFilterNoFalseNegatives(t *testing.T) {
	f, values := New(), []string{}
	for i := range 1000 {
		values = append(values, fmt.Sprintf("value-%d", i))
		f.Insert(values[i])
	}
	for _, v := range values {
		if !f.MightContain(v) {
			t.Fatalf("false negative for %q", v)
		}
	}
	for _, v := range values[:500] {
		f.Remove(v)
	}
	for _, v := range values[500:] {
		if !f.MightContain(v) {
			t.Fatalf("false negative for %q after removals", v)
		}
	}
}

func TestSaturation(t *testing.T) {
	f := New()
	for range 300 {
		f.Insert("x")
	}
	for range 300 {
		f.Remove("x")
	}
	if !f.MightContain("x") {
		t.Errorf("saturated counters must never be decremented")
	}
	f.Clear()
	if !f.IsZeroed() {
		t.Errorf("expected cleared filter to be zeroed")
	}
}

func TestPack(t *testing.T) {
	a, b, c, d := Hash("a"), Hash("b"), Hash("c"), Hash("d")
	p := Pack(a, 0, b, c, d, Hash("e"))
	if p[0]&HashMask != a || p[1]&HashMask != b || p[2]&HashMask != c {
		t.Errorf("got %x, expected first three hashes %x %x %x", p, a, b, c)
	}
	if p.Fourth() != d {
		t.Errorf("got fourth hash %x, expected %x", p.Fourth(), d)
	}
	if Pack() != (Hashes{}) {
		t.Errorf("expected empty pack to be zero")
	}
}

func TestMayMatch(t *testing.T) {
	f := New()
	for _, s := range []string{"html", "body", "main", "article"} {
		f.Insert(s)
	}
	tests := []struct {
		hashes   Hashes
		expected bool
	}{
		{Pack(), true},
		{Pack(Hash("body")), true},
		{Pack(Hash("body"), Hash("html")), true},
		{Pack(Hash("body"), Hash("html"), Hash("main"), Hash("article")), true},
		{Pack(Hash("nav")), false},
		{Pack(Hash("body"), Hash("nav")), false},
		{Pack(Hash("body"), Hash("html"), Hash("main"), Hash("nav")), false},
	}
	for i, test := range tests {
		if actual := MayMatch(test.hashes, f); actual != test.expected {
			t.Errorf("%d: got %v, expected %v", i, actual, test.expected)
		}
	}
}
