package dom

import (
	"github.com/niklasfasching/selectors/selector"
)

// PseudoClass is a non tree-structural pseudo-class known to PseudoClasses,
// e.g. PseudoClass("hover").
type PseudoClass string

// PseudoElement is a pseudo-element materialized by Element.Pseudo.
type PseudoElement string

var PseudoClasses = map[string]func(*Element) bool{
	"hover":      func(e *Element) bool { return e.State&Hover != 0 },
	"active":     func(e *Element) bool { return e.State&Active != 0 },
	"focus":      func(e *Element) bool { return e.State&Focus != 0 },
	"any-link":   func(e *Element) bool { return e.IsLink() },
	"checked":    func(e *Element) bool { return isInput(e) && e.HasAttrInNoNamespace("checked") },
	"disabled":   func(e *Element) bool { return isInput(e) && e.HasAttrInNoNamespace("disabled") },
	"enabled":    func(e *Element) bool { return isInput(e) && !e.HasAttrInNoNamespace("disabled") },
	"optional":   func(e *Element) bool { return isInput(e) && !e.HasAttrInNoNamespace("required") },
	"required":   func(e *Element) bool { return isInput(e) && e.HasAttrInNoNamespace("required") },
	"read-only":  func(e *Element) bool { return isInput(e) && e.HasAttrInNoNamespace("readonly") },
	"read-write": func(e *Element) bool { return isInput(e) && !e.HasAttrInNoNamespace("readonly") },
}

// Contains is the non-standard :contains("text") of jQuery and cascadia. It
// matches elements whose trimmed text contains Text, ignoring case.
type Contains struct{ Text string }

func (c Contains) Name() string          { return "contains(" + selector.EscapeString(c.Text) + ")" }
func (c Contains) IsActiveOrHover() bool { return false }

var _ selector.PseudoClass = PseudoClass("")
var _ selector.PseudoClass = Contains{}
var _ selector.PseudoElementKind = PseudoElement("")

func (p PseudoClass) Name() string          { return string(p) }
func (p PseudoClass) IsActiveOrHover() bool { return p == "active" || p == "hover" }
func (p PseudoElement) Name() string        { return string(p) }

// Is returns the simple selector :name.
func Is(name string) selector.NonTSPseudoClass {
	return selector.NonTSPseudoClass{Class: PseudoClass(name)}
}

// Pseudo returns the simple selector ::name.
func Pseudo(name string) selector.PseudoElement {
	return selector.PseudoElement{Kind: PseudoElement(name)}
}

func isInput(e *Element) bool {
	return e.isHTML("input") || e.isHTML("select") || e.isHTML("textarea") || e.isHTML("option") || e.isHTML("button")
}
