package selector

import (
	"fmt"
	"strings"
)

type NthType uint8

const (
	NthChild NthType = iota
	NthLastChild
	NthOnlyChild
	NthOfType
	NthLastOfType
	NthOnlyOfType
)

// NthSelectorData is the An+B formula of the :nth-* family. IsFunction
// distinguishes :nth-child(1) from :first-child for serialization.
type NthSelectorData struct {
	Type       NthType
	IsFunction bool
	A, B       int
}

func (t NthType) IsOnly() bool    { return t == NthOnlyChild || t == NthOnlyOfType }
func (t NthType) IsOfType() bool  { return t == NthOfType || t == NthLastOfType || t == NthOnlyOfType }
func (t NthType) IsFromEnd() bool { return t == NthLastChild || t == NthLastOfType }

func First(ofType bool) NthSelectorData {
	return NthSelectorData{Type: pick(ofType, NthOfType, NthChild), B: 1}
}

func Last(ofType bool) NthSelectorData {
	return NthSelectorData{Type: pick(ofType, NthLastOfType, NthLastChild), B: 1}
}

func Only(ofType bool) NthSelectorData {
	return NthSelectorData{Type: pick(ofType, NthOnlyOfType, NthOnlyChild)}
}

// NthChildData builds :nth-child(an+b).
func NthChildData(a, b int) NthSelectorData {
	return NthSelectorData{Type: NthChild, IsFunction: true, A: a, B: b}
}

func NthData(t NthType, a, b int) NthSelectorData {
	return NthSelectorData{Type: t, IsFunction: true, A: a, B: b}
}

// IsSimpleEdge reports whether the selector can only ever match the first or
// last element child, e.g. :first-child or :nth-last-child(1).
func (d NthSelectorData) IsSimpleEdge() bool {
	return d.A == 0 && d.B == 1 && !d.Type.IsOfType() && !d.Type.IsOnly()
}

// Matches checks whether index is a valid result of a*n+b for some
// non-negative integer n. If a is 0, index must be b - otherwise a must fit
// into index-b n times without remainder.
func (d NthSelectorData) Matches(index int) bool {
	an := index - d.B
	if d.A == 0 {
		return an == 0
	}
	return an/d.A >= 0 && an%d.A == 0
}

func (d NthSelectorData) String() string {
	if !d.IsFunction {
		return ":" + d.name(false)
	}
	return fmt.Sprintf(":%s(%s)", d.name(true), d.formula())
}

func (d NthSelectorData) name(function bool) string {
	prefix, suffix := "first", "child"
	switch {
	case d.Type.IsOnly():
		prefix = "only"
	case function && d.Type.IsFromEnd():
		prefix = "nth-last"
	case function:
		prefix = "nth"
	case d.Type.IsFromEnd():
		prefix = "last"
	}
	if d.Type.IsOfType() {
		suffix = "of-type"
	}
	return prefix + "-" + suffix
}

func (d NthSelectorData) formula() string {
	var out strings.Builder
	switch d.A {
	case 0:
		return fmt.Sprint(d.B)
	case 1:
		out.WriteString("n")
	case -1:
		out.WriteString("-n")
	default:
		fmt.Fprintf(&out, "%dn", d.A)
	}
	if d.B > 0 {
		fmt.Fprintf(&out, "+%d", d.B)
	} else if d.B < 0 {
		fmt.Fprintf(&out, "%d", d.B)
	}
	return out.String()
}

func pick[T any](b bool, t, f T) T {
	if b {
		return t
	}
	return f
}
