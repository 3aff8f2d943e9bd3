package rule

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Leaf is a single scalar comparison against one entity field. The source
// value is a transient binding supplied at evaluation time, never stored.
type Leaf struct {
	ID           string
	Name         string
	Op           CompareOp
	Not          bool
	SourceEntity EntityType
	Field        string
	CompareValue string
}

// Entity implements Term.
func (l *Leaf) Entity() EntityType { return l.SourceEntity }

func (l *Leaf) isTerm() {}

// Evaluate compares the bound source value using the configured operator.
// An unrecognized operator yields false before NOT is applied.
func (l *Leaf) Evaluate(source any) bool {
	result := l.compare(source)
	if l.Not {
		return !result
	}
	return result
}

func (l *Leaf) compare(source any) bool {
	switch l.Op {
	case OpEquals:
		return looseEqual(source, l.CompareValue)
	case OpEqualsStrict:
		s, ok := source.(string)
		return ok && s == l.CompareValue
	case OpGreaterThan, OpLessThan, OpGreaterThanEquals, OpLessThanEquals:
		a, aok := toFloat(source)
		b, bok := toFloat(l.CompareValue)
		if !aok || !bok {
			return false
		}
		switch l.Op {
		case OpGreaterThan:
			return a > b
		case OpLessThan:
			return a < b
		case OpGreaterThanEquals:
			return a >= b
		default:
			return a <= b
		}
	case OpInArray:
		needle := toString(source)
		for _, v := range SplitCSV(l.CompareValue) {
			if v == needle {
				return true
			}
		}
		return false
	case OpArrayIntersect:
		compare := SplitCSV(l.CompareValue)
		for _, v := range SplitCSV(toString(source)) {
			for _, c := range compare {
				if v == c {
					return true
				}
			}
		}
		return false
	}
	return false
}

// SplitCSV splits a comma-separated value list, trimming whitespace around
// each element. Empty elements are dropped.
func SplitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// looseEqual compares numerically when both operands coerce to a number,
// otherwise by string form.
func looseEqual(source any, compare string) bool {
	a, aok := toFloat(source)
	b, bok := toFloat(compare)
	if aok && bok {
		return a == b
	}
	return toString(source) == compare
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case decimal.Decimal:
		f, _ := t.Float64()
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case decimal.Decimal:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}
