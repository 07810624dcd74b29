package selector

import (
	"fmt"
	"strings"
)

// Component is a simple selector. The set of components is closed, the
// matcher switches over the concrete types.
type Component interface {
	fmt.Stringer
	component()
}

// PseudoClass is a non tree-structural pseudo-class (:hover, :checked, ...)
// provided by the tree implementation.
type PseudoClass interface {
	Name() string
	IsActiveOrHover() bool
}

// PseudoElementKind is a pseudo-element (::before, ...) provided by the tree
// implementation.
type PseudoElementKind interface {
	Name() string
}

type ID struct{ Name string }
type Class struct{ Name string }

// LocalName holds both the name as written and its ascii lower-case form;
// html elements in html documents are matched by the latter.
type LocalName struct{ Name, Lower string }

type AttributeExists struct{ LocalName, LocalNameLower string }

// AttributeEquals is a value test on an attribute in no namespace.
type AttributeEquals struct {
	LocalName       string
	Operator        AttrOperator
	Value           string
	CaseSensitivity ParsedCaseSensitivity
}

// AttributeOther covers namespaced attribute selectors. A nil Namespace means
// no namespace.
type AttributeOther struct {
	Namespace       *NamespaceConstraint
	LocalName       string
	LocalNameLower  string
	Exists          bool
	Operator        AttrOperator
	Value           string
	CaseSensitivity ParsedCaseSensitivity
}

type PseudoElement struct{ Kind PseudoElementKind }
type NonTSPseudoClass struct{ Class PseudoClass }

type DefaultNamespace struct{ URL string }
type Namespace struct{ Prefix, URL string }
type ExplicitAnyNamespace struct{}
type ExplicitNoNamespace struct{}
type ExplicitUniversalType struct{}

type Root struct{}
type Empty struct{}
type Scope struct{}
type ParentSelector struct{}

// Host is :host, or :host(<selector>) if Selector is set.
type Host struct{ Selector *Selector }
type Slotted struct{ Selector *Selector }
type Part struct{ Names []string }

type Nth struct{ Data NthSelectorData }
type NthOf struct {
	Data NthSelectorData
	List *List
}

type Is struct{ List *List }
type Where struct{ List *List }
type Negation struct{ List *List }
type Has struct{ Selectors []*RelativeSelector }

// RelativeSelectorAnchor is the implicit leftmost compound of a relative
// selector; it matches the element :has() is evaluated for.
type RelativeSelectorAnchor struct{}

// Invalid keeps the text of something that failed to parse in a forgiving
// selector list. It never matches.
type Invalid struct{ Text string }

func (ID) component()                     {}
func (Class) component()                  {}
func (LocalName) component()              {}
func (AttributeExists) component()        {}
func (AttributeEquals) component()        {}
func (AttributeOther) component()         {}
func (PseudoElement) component()          {}
func (NonTSPseudoClass) component()       {}
func (DefaultNamespace) component()       {}
func (Namespace) component()              {}
func (ExplicitAnyNamespace) component()   {}
func (ExplicitNoNamespace) component()    {}
func (ExplicitUniversalType) component()  {}
func (Root) component()                   {}
func (Empty) component()                  {}
func (Scope) component()                  {}
func (ParentSelector) component()         {}
func (Host) component()                   {}
func (Slotted) component()                {}
func (Part) component()                   {}
func (Nth) component()                    {}
func (NthOf) component()                  {}
func (Is) component()                     {}
func (Where) component()                  {}
func (Negation) component()               {}
func (Has) component()                    {}
func (RelativeSelectorAnchor) component() {}
func (Invalid) component()                {}
func (Combinator) component()             {}

func Type(name string) LocalName { return LocalName{name, LowerASCII(name)} }

func Attr(name string) AttributeExists { return AttributeExists{name, LowerASCII(name)} }

func AttrValue(name string, op AttrOperator, value string) AttributeEquals {
	return AttributeEquals{LocalName: LowerASCII(name), Operator: op, Value: value}
}

func (c ID) String() string                    { return "#" + EscapeIdentifier(c.Name) }
func (c Class) String() string                 { return "." + EscapeIdentifier(c.Name) }
func (c LocalName) String() string             { return EscapeIdentifier(c.Name) }
func (c AttributeExists) String() string       { return "[" + EscapeIdentifier(c.LocalName) + "]" }
func (c PseudoElement) String() string         { return "::" + c.Kind.Name() }
func (c NonTSPseudoClass) String() string      { return ":" + c.Class.Name() }
func (c DefaultNamespace) String() string      { return "" }
func (c Namespace) String() string             { return EscapeIdentifier(c.Prefix) + "|" }
func (c ExplicitAnyNamespace) String() string  { return "*|" }
func (c ExplicitNoNamespace) String() string   { return "|" }
func (c ExplicitUniversalType) String() string { return "*" }
func (c Root) String() string                  { return ":root" }
func (c Empty) String() string                 { return ":empty" }
func (c Scope) String() string                 { return ":scope" }
func (c ParentSelector) String() string        { return "&" }
func (c Nth) String() string                   { return c.Data.String() }
func (c Is) String() string                    { return ":is(" + c.List.String() + ")" }
func (c Where) String() string                 { return ":where(" + c.List.String() + ")" }
func (c Negation) String() string              { return ":not(" + c.List.String() + ")" }
func (c Invalid) String() string               { return c.Text }

func (c RelativeSelectorAnchor) String() string { return "" }

func (c AttributeEquals) String() string {
	return fmt.Sprintf("[%s%s%s%s]", EscapeIdentifier(c.LocalName), c.Operator, EscapeString(c.Value), c.CaseSensitivity)
}

func (c AttributeOther) String() string {
	ns := ""
	if c.Namespace == nil {
		ns = "|"
	} else if c.Namespace.Any {
		ns = "*|"
	}
	if c.Exists {
		return fmt.Sprintf("[%s%s]", ns, EscapeIdentifier(c.LocalName))
	}
	return fmt.Sprintf("[%s%s%s%s%s]", ns, EscapeIdentifier(c.LocalName), c.Operator, EscapeString(c.Value), c.CaseSensitivity)
}

func (c Host) String() string {
	if c.Selector == nil {
		return ":host"
	}
	return ":host(" + c.Selector.String() + ")"
}

func (c Slotted) String() string { return "::slotted(" + c.Selector.String() + ")" }

func (c Part) String() string {
	names := make([]string, len(c.Names))
	for i, n := range c.Names {
		names[i] = EscapeIdentifier(n)
	}
	return "::part(" + strings.Join(names, " ") + ")"
}

func (c NthOf) String() string {
	s := c.Data.String()
	return s[:len(s)-1] + " of " + c.List.String() + ")"
}

func (c Has) String() string {
	ss := make([]string, len(c.Selectors))
	for i, s := range c.Selectors {
		ss[i] = s.String()
	}
	return ":has(" + strings.Join(ss, ", ") + ")"
}
