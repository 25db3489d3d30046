// Package engine evaluates declarative strategies against evaluation
// contexts and tracks signal lifecycle. The evaluation path never panics
// on well-typed input: missing values and type mismatches degrade to
// no-match.
package engine

import (
	"strings"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/pipeline"
)

// EvaluateCondition reports whether a single condition matches the
// context. A nil context value always yields no-match; so does a type
// mismatch between the condition's literal and the context field.
func EvaluateCondition(ctx *pipeline.Context, cond domain.Condition) bool {
	val := pipeline.Lookup(ctx, cond.Field)
	if val == nil {
		return false
	}

	switch v := val.(type) {
	case float64:
		return evalNumeric(v, cond)
	case bool:
		return evalBool(v, cond)
	case string:
		return evalString(v, cond)
	default:
		return false
	}
}

func evalNumeric(v float64, cond domain.Condition) bool {
	want, ok := toFloat(cond.Value)
	if !ok {
		return false
	}
	switch cond.Operator {
	case domain.OpEquals:
		return v == want
	case domain.OpNotEquals:
		return v != want
	case domain.OpGreaterThan:
		return v > want
	case domain.OpLessThan:
		return v < want
	case domain.OpGreaterThanOrEqual:
		return v >= want
	case domain.OpLessThanOrEqual:
		return v <= want
	case domain.OpBetween:
		high, ok2 := toFloat(cond.Value2)
		if !ok2 {
			return false
		}
		return v >= want && v <= high
	default:
		return false
	}
}

func evalBool(v bool, cond domain.Condition) bool {
	want, ok := cond.Value.(bool)
	if !ok {
		return false
	}
	switch cond.Operator {
	case domain.OpEquals:
		return v == want
	case domain.OpNotEquals:
		return v != want
	default:
		return false
	}
}

func evalString(v string, cond domain.Condition) bool {
	want, ok := cond.Value.(string)
	if !ok {
		return false
	}
	switch cond.Operator {
	case domain.OpEquals:
		return v == want
	case domain.OpNotEquals:
		return v != want
	case domain.OpContains:
		return strings.Contains(strings.ToLower(v), strings.ToLower(want))
	default:
		return false
	}
}

// toFloat coerces condition literals to float64. Persistence hands values
// through encoding/json so numbers normally arrive as float64 already;
// integer types are accepted for conditions constructed in code.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
