package selector

type Combinator uint8

const (
	Descendant   Combinator = iota // space
	Child                          // >
	NextSibling                    // +
	LaterSibling                   // ~
	// PartCombinator, SlotAssignment and PseudoElementCombinator are implied
	// by ::part(), ::slotted() and pseudo-elements, they are never written.
	PartCombinator
	SlotAssignment
	PseudoElementCombinator
)

var combinators = map[Combinator]string{
	Descendant: " ", Child: " > ", NextSibling: " + ", LaterSibling: " ~ ",
}

func (c Combinator) String() string { return combinators[c] }

func (c Combinator) IsSibling() bool { return c == NextSibling || c == LaterSibling }

// IsAncestor reports whether the element matched by the compound left of c is
// an ancestor of the element matched by the compound right of it.
func (c Combinator) IsAncestor() bool { return c == Child || c == Descendant }

func (c Combinator) IsPseudoElement() bool { return c == PseudoElementCombinator }
