// Package rule implements the boolean condition engine used to decide
// discount eligibility. A condition is either a Leaf (one scalar comparison
// against an entity field) or a Node combining sub-conditions with AND/OR,
// as an n-ary child list or a binary left/right pair.
//
// Evaluation is pure and fail-closed: malformed structure, unknown operators,
// and unresolved fields all evaluate to false before NOT is applied.
package rule

// EntityType identifies which entity kind supplies source values for a
// condition subtree. A node and all of its descendants share one entity type.
type EntityType string

// Supported entity kinds.
const (
	EntityItem     EntityType = "item"
	EntityShipment EntityType = "shipment"
	EntityCustomer EntityType = "customer"
)

// CompareOp is a scalar comparison operator on a leaf condition.
type CompareOp string

// Supported comparison operators.
const (
	OpEquals            CompareOp = "equals"
	OpEqualsStrict      CompareOp = "equals_strict"
	OpGreaterThan       CompareOp = "gt"
	OpLessThan          CompareOp = "lt"
	OpGreaterThanEquals CompareOp = "gte"
	OpLessThanEquals    CompareOp = "lte"
	OpInArray           CompareOp = "in_array"
	OpArrayIntersect    CompareOp = "array_intersect"
)

// LogicOp combines sub-conditions on a node.
type LogicOp string

// Supported logical operators.
const (
	OpAnd LogicOp = "and"
	OpOr  LogicOp = "or"
)

// Term is a condition tree member: either *Leaf or *Node.
type Term interface {
	Entity() EntityType

	isTerm()
}

// FieldResolver supplies source values for leaf conditions from the entity
// under test. It reports false when the field name is not recognized.
type FieldResolver interface {
	ResolveField(field string) (any, bool)
}

// Evaluate runs a condition term against the entity behind the resolver.
func Evaluate(t Term, r FieldResolver) bool {
	switch v := t.(type) {
	case *Leaf:
		if r == nil {
			return v.Not
		}
		src, ok := r.ResolveField(v.Field)
		if !ok {
			// Unknown field: the raw result is false, NOT still applies.
			return v.Not
		}
		return v.Evaluate(src)
	case *Node:
		return v.evaluate(r)
	}
	return false
}
