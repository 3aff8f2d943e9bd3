package rule

import (
	"errors"
	"testing"
)

type countingResolver struct {
	values map[string]any
	calls  int
}

func (r *countingResolver) ResolveField(field string) (any, bool) {
	r.calls++
	v, ok := r.values[field]
	return v, ok
}

func itemLeaf(field, op, compare string) *Leaf {
	return &Leaf{Op: CompareOp(op), CompareValue: compare, SourceEntity: EntityItem, Field: field}
}

func TestNodeChildListAndOr(t *testing.T) {
	resolver := &countingResolver{values: map[string]any{"price": "25.00", "sku": "SKU-1"}}

	and := NewNode(OpAnd, EntityItem)
	if err := and.AddChild(itemLeaf("price", "gt", "10")); err != nil {
		t.Fatal(err)
	}
	if err := and.AddChild(itemLeaf("sku", "equals", "SKU-1")); err != nil {
		t.Fatal(err)
	}
	if !Evaluate(and, resolver) {
		t.Fatal("expected AND over passing children to be true")
	}

	or := NewNode(OpOr, EntityItem)
	_ = or.AddChild(itemLeaf("price", "lt", "10"))
	_ = or.AddChild(itemLeaf("sku", "equals", "SKU-1"))
	if !Evaluate(or, resolver) {
		t.Fatal("expected OR with one passing child to be true")
	}
}

func TestNodeShortCircuits(t *testing.T) {
	and := NewNode(OpAnd, EntityItem)
	_ = and.AddChild(itemLeaf("price", "gt", "100"))
	_ = and.AddChild(itemLeaf("sku", "equals", "SKU-1"))

	resolver := &countingResolver{values: map[string]any{"price": "25.00", "sku": "SKU-1"}}
	if Evaluate(and, resolver) {
		t.Fatal("expected AND to fail")
	}
	if resolver.calls != 1 {
		t.Fatalf("AND must stop at the first false child, resolver called %d times", resolver.calls)
	}

	or := NewNode(OpOr, EntityItem)
	_ = or.AddChild(itemLeaf("sku", "equals", "SKU-1"))
	_ = or.AddChild(itemLeaf("price", "gt", "100"))

	resolver = &countingResolver{values: map[string]any{"price": "25.00", "sku": "SKU-1"}}
	if !Evaluate(or, resolver) {
		t.Fatal("expected OR to pass")
	}
	if resolver.calls != 1 {
		t.Fatalf("OR must stop at the first true child, resolver called %d times", resolver.calls)
	}
}

func TestNodeBinaryPair(t *testing.T) {
	resolver := &countingResolver{values: map[string]any{"price": "25.00", "sku": "SKU-1"}}

	inner := NewNode(OpOr, EntityItem)
	_ = inner.AddChild(itemLeaf("price", "gt", "100"))
	_ = inner.AddChild(itemLeaf("price", "gt", "20"))

	outer := NewNode(OpAnd, EntityItem)
	if err := outer.SetPair(inner, itemLeaf("sku", "equals", "SKU-1")); err != nil {
		t.Fatal(err)
	}
	if !Evaluate(outer, resolver) {
		t.Fatal("expected nested pair tree to pass")
	}
}

func TestNodeNotAppliesLast(t *testing.T) {
	resolver := &countingResolver{values: map[string]any{"price": "25.00"}}

	n := NewNode(OpAnd, EntityItem).SetNot(true)
	_ = n.AddChild(itemLeaf("price", "gt", "10"))
	if Evaluate(n, resolver) {
		t.Fatal("negated true node must be false")
	}

	// A child's own NOT is untouched by the parent's.
	child := itemLeaf("price", "gt", "10")
	child.Not = true
	inverted := NewNode(OpAnd, EntityItem).SetNot(true)
	_ = inverted.AddChild(child)
	if !Evaluate(inverted, resolver) {
		t.Fatal("parent NOT over a child-negated false must be true")
	}
}

func TestMalformedNodeFailsClosed(t *testing.T) {
	resolver := &countingResolver{values: map[string]any{}}

	empty := NewNode(OpAnd, EntityItem)
	if Evaluate(empty, resolver) {
		t.Fatal("node without children or pair must be false")
	}
	if !Evaluate(NewNode(OpAnd, EntityItem).SetNot(true), resolver) {
		t.Fatal("negated malformed node must be true")
	}

	unknownOp := NewNode(LogicOp("xor"), EntityItem)
	_ = unknownOp.AddChild(itemLeaf("price", "gt", "0"))
	if Evaluate(unknownOp, resolver) {
		t.Fatal("unknown logic op must be false")
	}
}

func TestUnknownFieldFailsClosed(t *testing.T) {
	resolver := &countingResolver{values: map[string]any{}}
	if Evaluate(itemLeaf("color", "equals", "red"), resolver) {
		t.Fatal("unresolved field must evaluate false")
	}
	negated := itemLeaf("color", "equals", "red")
	negated.Not = true
	if !Evaluate(negated, resolver) {
		t.Fatal("NOT still applies to the unresolved-field default")
	}
}

func TestBuilderRejectsMismatchedEntity(t *testing.T) {
	n := NewNode(OpAnd, EntityItem)
	shipmentLeaf := &Leaf{Op: OpEquals, SourceEntity: EntityShipment, Field: "code"}
	if err := n.AddChild(shipmentLeaf); !errors.Is(err, ErrEntityMismatch) {
		t.Fatalf("expected ErrEntityMismatch, got %v", err)
	}
	if err := n.SetPair(itemLeaf("price", "gt", "0"), shipmentLeaf); !errors.Is(err, ErrEntityMismatch) {
		t.Fatalf("expected ErrEntityMismatch, got %v", err)
	}
}

func TestBuilderRejectsMixedForms(t *testing.T) {
	n := NewNode(OpAnd, EntityItem)
	if err := n.AddChild(itemLeaf("price", "gt", "0")); err != nil {
		t.Fatal(err)
	}
	if err := n.SetPair(itemLeaf("price", "gt", "0"), itemLeaf("price", "lt", "9")); !errors.Is(err, ErrFormConflict) {
		t.Fatalf("expected ErrFormConflict, got %v", err)
	}

	pair := NewNode(OpOr, EntityItem)
	if err := pair.SetPair(itemLeaf("price", "gt", "0"), itemLeaf("price", "lt", "9")); err != nil {
		t.Fatal(err)
	}
	if err := pair.AddChild(itemLeaf("price", "gt", "0")); !errors.Is(err, ErrFormConflict) {
		t.Fatalf("expected ErrFormConflict, got %v", err)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	n := NewNode(OpOr, EntityItem)
	_ = n.AddChild(itemLeaf("price", "gt", "10"))
	_ = n.AddChild(itemLeaf("sku", "equals", "SKU-9"))

	resolver := &countingResolver{values: map[string]any{"price": "25.00", "sku": "SKU-1"}}
	first := Evaluate(n, resolver)
	second := Evaluate(n, resolver)
	if first != second {
		t.Fatalf("evaluation not deterministic: %v then %v", first, second)
	}
}

func TestTermJSONRoundTrip(t *testing.T) {
	inner := NewNode(OpOr, EntityItem).SetID("inner")
	_ = inner.AddChild(itemLeaf("price", "gt", "100"))
	_ = inner.AddChild(itemLeaf("category_ids_csv", "array_intersect", "7,9"))

	root := NewNode(OpAnd, EntityItem).SetID("root").SetNot(true)
	if err := root.SetPair(inner, itemLeaf("sku", "in_array", "A,B")); err != nil {
		t.Fatal(err)
	}

	data, err := MarshalTerm(root)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := UnmarshalTerm(data)
	if err != nil {
		t.Fatal(err)
	}
	node, ok := decoded.(*Node)
	if !ok {
		t.Fatalf("expected node, got %T", decoded)
	}
	if node.Op() != OpAnd || !node.IsNot() || node.Entity() != EntityItem {
		t.Fatalf("node header lost in round trip: %+v", node)
	}
	left, right := node.Pair()
	if left == nil || right == nil {
		t.Fatal("pair form lost in round trip")
	}
	if _, ok := left.(*Node); !ok {
		t.Fatalf("expected left to be a node, got %T", left)
	}
	leaf, ok := right.(*Leaf)
	if !ok || leaf.Op != OpInArray || leaf.CompareValue != "A,B" {
		t.Fatalf("leaf lost in round trip: %+v", right)
	}

	resolver := &countingResolver{values: map[string]any{"price": "25.00", "category_ids_csv": "3,9", "sku": "A"}}
	if Evaluate(root, resolver) != Evaluate(decoded, resolver) {
		t.Fatal("decoded tree evaluates differently")
	}
}

func TestUnmarshalRejectsMismatchedEntity(t *testing.T) {
	payload := []byte(`{
		"op": "and",
		"source_entity_type": "item",
		"conditions": [
			{"compare_type": "equals", "compare_value": "x", "source_entity_type": "shipment", "source_entity_field": "code"}
		]
	}`)
	if _, err := UnmarshalTerm(payload); !errors.Is(err, ErrEntityMismatch) {
		t.Fatalf("expected ErrEntityMismatch, got %v", err)
	}
}
