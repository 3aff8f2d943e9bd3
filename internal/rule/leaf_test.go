package rule

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLeafCompareOps(t *testing.T) {
	cases := []struct {
		name    string
		op      CompareOp
		compare string
		source  any
		want    bool
	}{
		{"equals numeric", OpEquals, "12.50", decimal.RequireFromString("12.5"), true},
		{"equals numeric mismatch", OpEquals, "12.50", "12.51", false},
		{"equals string", OpEquals, "ABC-1", "ABC-1", true},
		{"equals strict match", OpEqualsStrict, "12.50", "12.50", true},
		{"equals strict no numeric coercion", OpEqualsStrict, "12.50", "12.5", false},
		{"equals strict non-string source", OpEqualsStrict, "2", 2, false},
		{"gt", OpGreaterThan, "10", "10.01", true},
		{"gt equal is false", OpGreaterThan, "10", 10, false},
		{"lt", OpLessThan, "10", decimal.RequireFromString("9.99"), true},
		{"gte equal", OpGreaterThanEquals, "10", 10, true},
		{"lte equal", OpLessThanEquals, "10", "10.00", true},
		{"gt non-numeric source", OpGreaterThan, "10", "heavy", false},
		{"in_array member", OpInArray, "a, b ,c", "b", true},
		{"in_array missing", OpInArray, "a,b,c", "d", false},
		{"in_array numeric source", OpInArray, "1,2,3", 2, true},
		{"array_intersect overlap", OpArrayIntersect, "7, 8, 9", "1,9", true},
		{"array_intersect disjoint", OpArrayIntersect, "7,8,9", "1,2", false},
		{"unknown op", CompareOp("between"), "1", 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			leaf := &Leaf{Op: tc.op, CompareValue: tc.compare, SourceEntity: EntityItem, Field: "price"}
			if got := leaf.Evaluate(tc.source); got != tc.want {
				t.Fatalf("op %s source %v: got %v, want %v", tc.op, tc.source, got, tc.want)
			}
		})
	}
}

func TestLeafNotAppliesAfterResult(t *testing.T) {
	alwaysTrue := &Leaf{Op: OpEquals, CompareValue: "x", Not: true}
	if alwaysTrue.Evaluate("x") {
		t.Fatal("is_not on a true comparison must yield false")
	}
	// The unrecognized-op default is false, so NOT flips it to true.
	unknown := &Leaf{Op: CompareOp("nope"), Not: true}
	if !unknown.Evaluate("anything") {
		t.Fatal("is_not on the unknown-op default must yield true")
	}
}

func TestSplitCSVTrims(t *testing.T) {
	got := SplitCSV(" a , b,, c ")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d elements, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("element %d: got %q, want %q", i, got[i], want[i])
		}
	}
	if SplitCSV("  ") != nil {
		t.Fatal("blank input must yield nil")
	}
}
