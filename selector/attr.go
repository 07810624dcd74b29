package selector

import (
	"strings"
)

type AttrOperator uint8

const (
	Equal     AttrOperator = iota // =
	Includes                      // ~=
	DashMatch                     // |=
	Prefix                        // ^=
	Substring                     // *=
	Suffix                        // $=
)

// CaseSensitivity is resolved against the element being matched, see
// ParsedCaseSensitivity.ToUnconditional.
type CaseSensitivity uint8

const (
	CaseSensitive CaseSensitivity = iota
	ASCIICaseInsensitive
)

type ParsedCaseSensitivity uint8

const (
	ParsedCaseSensitive ParsedCaseSensitivity = iota
	// [attr=value s]
	ParsedExplicitCaseSensitive
	// [attr=value i]
	ParsedASCIICaseInsensitive
	// Attributes like type or lang: case-insensitive for html elements in
	// html documents only.
	ParsedASCIICaseInsensitiveIfInHTMLElementInHTMLDocument
)

type NamespaceConstraint struct {
	Any bool
	URL string
}

// AttrOperation is what the tree receives from the engine: either an
// existence test or a value test with a resolved case sensitivity.
type AttrOperation struct {
	Exists          bool
	Operator        AttrOperator
	Value           string
	CaseSensitivity CaseSensitivity
}

var attrOperators = map[AttrOperator]string{
	Equal: "=", Includes: "~=", DashMatch: "|=", Prefix: "^=", Substring: "*=", Suffix: "$=",
}

func (o AttrOperator) String() string { return attrOperators[o] }

// Eval tests an attribute value of the element (av) against the value of the
// selector (sv).
func (o AttrOperator) Eval(av, sv string, cs CaseSensitivity) bool {
	switch o {
	case Equal:
		return cs.Eq(av, sv)
	case Includes:
		return sv != "" && !strings.ContainsAny(sv, whitespace) && includes(av, sv, cs)
	case DashMatch:
		return cs.Eq(av, sv) || len(av) > len(sv) && av[len(sv)] == '-' && cs.Eq(av[:len(sv)], sv)
	case Prefix:
		return sv != "" && len(av) >= len(sv) && cs.Eq(av[:len(sv)], sv)
	case Suffix:
		return sv != "" && len(av) >= len(sv) && cs.Eq(av[len(av)-len(sv):], sv)
	case Substring:
		return sv != "" && cs.Contains(av, sv)
	default:
		panic("invalid attribute operator")
	}
}

func (o AttrOperation) Eval(av string) bool {
	return o.Exists || o.Operator.Eval(av, o.Value, o.CaseSensitivity)
}

func (p ParsedCaseSensitivity) ToUnconditional(isHTMLElementInHTMLDocument bool) CaseSensitivity {
	switch p {
	case ParsedASCIICaseInsensitiveIfInHTMLElementInHTMLDocument:
		if isHTMLElementInHTMLDocument {
			return ASCIICaseInsensitive
		}
		return CaseSensitive
	case ParsedASCIICaseInsensitive:
		return ASCIICaseInsensitive
	default:
		return CaseSensitive
	}
}

func (p ParsedCaseSensitivity) String() string {
	switch p {
	case ParsedExplicitCaseSensitive:
		return " s"
	case ParsedASCIICaseInsensitive:
		return " i"
	default:
		return ""
	}
}

func (cs CaseSensitivity) Eq(a, b string) bool {
	if cs == CaseSensitive {
		return a == b
	} else if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if toLowerASCII(a[i]) != toLowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func (cs CaseSensitivity) Contains(haystack, needle string) bool {
	if cs == CaseSensitive {
		return strings.Contains(haystack, needle)
	}
	return strings.Contains(LowerASCII(haystack), LowerASCII(needle))
}

// LowerASCII lower-cases ASCII letters only, as required for html names.
func LowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			bs := []byte(s)
			for j := i; j < len(bs); j++ {
				bs[j] = toLowerASCII(bs[j])
			}
			return string(bs)
		}
	}
	return s
}

const whitespace = " \t\r\n\f"

func includes(av, sv string, cs CaseSensitivity) bool {
	for _, v := range strings.FieldsFunc(av, func(r rune) bool { return strings.ContainsRune(whitespace, r) }) {
		if cs.Eq(v, sv) {
			return true
		}
	}
	return false
}

func toLowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
