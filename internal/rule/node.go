package rule

import (
	"errors"
	"fmt"
)

// ErrEntityMismatch is returned when attaching a child whose entity type
// differs from the node's.
var ErrEntityMismatch = errors.New("condition entity type mismatch")

// ErrFormConflict is returned when mixing the child-list form with the
// left/right pair form on one node.
var ErrFormConflict = errors.New("condition node already uses the other form")

// Node combines sub-conditions with AND/OR. It holds either a non-empty
// ordered child list or exactly one left/right pair, never both; the builder
// methods enforce the exclusivity and the shared entity type at construction.
type Node struct {
	id           string
	op           LogicOp
	not          bool
	sourceEntity EntityType
	children     []Term
	left         Term
	right        Term
}

// NewNode constructs an empty condition node.
func NewNode(op LogicOp, entity EntityType) *Node {
	return &Node{op: op, sourceEntity: entity}
}

// Entity implements Term.
func (n *Node) Entity() EntityType { return n.sourceEntity }

func (n *Node) isTerm() {}

// ID returns the node identity.
func (n *Node) ID() string { return n.id }

// SetID sets the node identity.
func (n *Node) SetID(id string) *Node {
	n.id = id
	return n
}

// Op returns the logical operator.
func (n *Node) Op() LogicOp { return n.op }

// IsNot reports whether the node result is negated.
func (n *Node) IsNot() bool { return n.not }

// SetNot toggles outermost negation of the node result.
func (n *Node) SetNot(not bool) *Node {
	n.not = not
	return n
}

// Children returns the ordered child list.
func (n *Node) Children() []Term { return n.children }

// Pair returns the left and right operands of the binary form.
func (n *Node) Pair() (Term, Term) { return n.left, n.right }

// AddChild appends a leaf or sub-tree to the child list. It rejects children
// of a different entity type and nodes already using the pair form.
func (n *Node) AddChild(t Term) error {
	if t == nil {
		return errors.New("nil condition child")
	}
	if n.left != nil || n.right != nil {
		return ErrFormConflict
	}
	if t.Entity() != n.sourceEntity {
		return fmt.Errorf("%w: node %q, child %q", ErrEntityMismatch, n.sourceEntity, t.Entity())
	}
	n.children = append(n.children, t)
	return nil
}

// SetPair installs the binary left/right form. It rejects operands of a
// different entity type and nodes already using the child-list form.
func (n *Node) SetPair(left, right Term) error {
	if left == nil || right == nil {
		return errors.New("nil condition operand")
	}
	if len(n.children) > 0 {
		return ErrFormConflict
	}
	if left.Entity() != n.sourceEntity {
		return fmt.Errorf("%w: node %q, left %q", ErrEntityMismatch, n.sourceEntity, left.Entity())
	}
	if right.Entity() != n.sourceEntity {
		return fmt.Errorf("%w: node %q, right %q", ErrEntityMismatch, n.sourceEntity, right.Entity())
	}
	n.left = left
	n.right = right
	return nil
}

// evaluate combines child results depth-first with short-circuiting. A node
// with neither a child list nor a complete pair, or with an unknown operator,
// yields false before NOT.
func (n *Node) evaluate(r FieldResolver) bool {
	raw := false
	switch {
	case len(n.children) > 0:
		switch n.op {
		case OpAnd:
			raw = true
			for _, c := range n.children {
				if !Evaluate(c, r) {
					raw = false
					break
				}
			}
		case OpOr:
			for _, c := range n.children {
				if Evaluate(c, r) {
					raw = true
					break
				}
			}
		}
	case n.left != nil && n.right != nil:
		switch n.op {
		case OpAnd:
			raw = Evaluate(n.left, r) && Evaluate(n.right, r)
		case OpOr:
			raw = Evaluate(n.left, r) || Evaluate(n.right, r)
		}
	}
	if n.not {
		return !raw
	}
	return raw
}
