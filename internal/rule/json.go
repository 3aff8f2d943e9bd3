package rule

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Wire form notes: a node always carries "op", a leaf carries "compare_type"
// and never "op". UnmarshalTerm uses that to pick the concrete type, matching
// how persisted condition payloads distinguish the two.

type leafWire struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	CompareType  string `json:"compare_type"`
	CompareValue string `json:"compare_value"`
	IsNot        bool   `json:"is_not,omitempty"`
	SourceType   string `json:"source_entity_type"`
	SourceField  string `json:"source_entity_field"`
}

type nodeWire struct {
	ID         string            `json:"id,omitempty"`
	Op         string            `json:"op"`
	IsNot      bool              `json:"is_not,omitempty"`
	SourceType string            `json:"source_entity_type"`
	Left       json.RawMessage   `json:"left,omitempty"`
	Right      json.RawMessage   `json:"right,omitempty"`
	Conditions []json.RawMessage `json:"conditions,omitempty"`
}

// MarshalTerm encodes a condition leaf or tree to JSON.
func MarshalTerm(t Term) ([]byte, error) {
	switch v := t.(type) {
	case *Leaf:
		return json.Marshal(leafWire{
			ID:           v.ID,
			Name:         v.Name,
			CompareType:  string(v.Op),
			CompareValue: v.CompareValue,
			IsNot:        v.Not,
			SourceType:   string(v.SourceEntity),
			SourceField:  v.Field,
		})
	case *Node:
		return v.MarshalJSON()
	case nil:
		return nil, errors.New("nil condition term")
	}
	return nil, fmt.Errorf("unknown condition term %T", t)
}

// UnmarshalTerm decodes a condition leaf or tree from JSON, re-validating
// the structural invariants through the node builder.
func UnmarshalTerm(data []byte) (Term, error) {
	var probe struct {
		Op string `json:"op"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode condition: %w", err)
	}
	if probe.Op == "" {
		var w leafWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode condition leaf: %w", err)
		}
		return &Leaf{
			ID:           w.ID,
			Name:         w.Name,
			Op:           CompareOp(w.CompareType),
			CompareValue: w.CompareValue,
			Not:          w.IsNot,
			SourceEntity: EntityType(w.SourceType),
			Field:        w.SourceField,
		}, nil
	}

	var w nodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode condition node: %w", err)
	}
	n := NewNode(LogicOp(w.Op), EntityType(w.SourceType)).SetID(w.ID).SetNot(w.IsNot)
	if len(w.Conditions) > 0 {
		for i, raw := range w.Conditions {
			child, err := UnmarshalTerm(raw)
			if err != nil {
				return nil, fmt.Errorf("condition %d: %w", i, err)
			}
			if err := n.AddChild(child); err != nil {
				return nil, err
			}
		}
		return n, nil
	}
	if len(w.Left) > 0 && len(w.Right) > 0 {
		left, err := UnmarshalTerm(w.Left)
		if err != nil {
			return nil, fmt.Errorf("left condition: %w", err)
		}
		right, err := UnmarshalTerm(w.Right)
		if err != nil {
			return nil, fmt.Errorf("right condition: %w", err)
		}
		if err := n.SetPair(left, right); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	w := nodeWire{
		ID:         n.id,
		Op:         string(n.op),
		IsNot:      n.not,
		SourceType: string(n.sourceEntity),
	}
	for _, c := range n.children {
		raw, err := MarshalTerm(c)
		if err != nil {
			return nil, err
		}
		w.Conditions = append(w.Conditions, raw)
	}
	if n.left != nil && n.right != nil {
		left, err := MarshalTerm(n.left)
		if err != nil {
			return nil, err
		}
		right, err := MarshalTerm(n.right)
		if err != nil {
			return nil, err
		}
		w.Left = left
		w.Right = right
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	t, err := UnmarshalTerm(data)
	if err != nil {
		return err
	}
	decoded, ok := t.(*Node)
	if !ok {
		return errors.New("expected a condition node, got a leaf")
	}
	*n = *decoded
	return nil
}
