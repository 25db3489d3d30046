package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/pipeline"
)

func numericCtx(absDiff float64) *pipeline.Context {
	return &pipeline.Context{AbsScoreDifferential: absDiff}
}

func TestEvaluateCondition_NumericOperators(t *testing.T) {
	tests := []struct {
		name  string
		op    domain.Operator
		value interface{}
		ctx   float64
		want  bool
	}{
		{"equals match", domain.OpEquals, 10.0, 10, true},
		{"equals miss", domain.OpEquals, 10.0, 11, false},
		{"not_equals match", domain.OpNotEquals, 10.0, 11, true},
		{"not_equals miss", domain.OpNotEquals, 10.0, 10, false},
		{"greater_than match", domain.OpGreaterThan, 10.0, 11, true},
		{"greater_than boundary", domain.OpGreaterThan, 10.0, 10, false},
		{"less_than match", domain.OpLessThan, 10.0, 9, true},
		{"less_than boundary", domain.OpLessThan, 10.0, 10, false},
		{"gte boundary", domain.OpGreaterThanOrEqual, 10.0, 10, true},
		{"gte below", domain.OpGreaterThanOrEqual, 10.0, 9.5, false},
		{"lte boundary", domain.OpLessThanOrEqual, 10.0, 10, true},
		{"lte above", domain.OpLessThanOrEqual, 10.0, 10.5, false},
		{"int literal coerced", domain.OpGreaterThan, 10, 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := domain.Condition{
				Field:    pipeline.FieldAbsScoreDifferential,
				Operator: tt.op,
				Value:    tt.value,
			}
			assert.Equal(t, tt.want, EvaluateCondition(numericCtx(tt.ctx), cond))
		})
	}
}

func TestEvaluateCondition_BetweenInclusive(t *testing.T) {
	cond := domain.Condition{
		Field:    pipeline.FieldAbsScoreDifferential,
		Operator: domain.OpBetween,
		Value:    3.0,
		Value2:   5.0,
	}

	assert.True(t, EvaluateCondition(numericCtx(3), cond), "low bound inclusive")
	assert.True(t, EvaluateCondition(numericCtx(4), cond))
	assert.True(t, EvaluateCondition(numericCtx(5), cond), "high bound inclusive")
	assert.False(t, EvaluateCondition(numericCtx(2), cond))
	assert.False(t, EvaluateCondition(numericCtx(6), cond))

	// between without a second value degrades to no-match
	cond.Value2 = nil
	assert.False(t, EvaluateCondition(numericCtx(4), cond))
}

func TestEvaluateCondition_BoolOperators(t *testing.T) {
	ctx := &pipeline.Context{HomeLeading: true}

	match := domain.Condition{Field: pipeline.FieldHomeLeading, Operator: domain.OpEquals, Value: true}
	assert.True(t, EvaluateCondition(ctx, match))

	miss := domain.Condition{Field: pipeline.FieldHomeLeading, Operator: domain.OpEquals, Value: false}
	assert.False(t, EvaluateCondition(ctx, miss))

	notEq := domain.Condition{Field: pipeline.FieldHomeLeading, Operator: domain.OpNotEquals, Value: false}
	assert.True(t, EvaluateCondition(ctx, notEq))

	// Ordering operators are undefined for bools: no-match, not a panic.
	ordered := domain.Condition{Field: pipeline.FieldHomeLeading, Operator: domain.OpGreaterThan, Value: true}
	assert.False(t, EvaluateCondition(ctx, ordered))
}

func TestEvaluateCondition_StringOperators(t *testing.T) {
	ctx := &pipeline.Context{LeadingTeam: "Los Angeles Lakers"}

	eq := domain.Condition{Field: pipeline.FieldLeadingTeam, Operator: domain.OpEquals, Value: "Los Angeles Lakers"}
	assert.True(t, EvaluateCondition(ctx, eq))

	contains := domain.Condition{Field: pipeline.FieldLeadingTeam, Operator: domain.OpContains, Value: "lakers"}
	assert.True(t, EvaluateCondition(ctx, contains), "contains is case-insensitive")

	miss := domain.Condition{Field: pipeline.FieldLeadingTeam, Operator: domain.OpContains, Value: "celtics"}
	assert.False(t, EvaluateCondition(ctx, miss))
}

func TestEvaluateCondition_DegradesToNoMatch(t *testing.T) {
	ctx := &pipeline.Context{AbsScoreDifferential: 10}

	// Unknown field
	unknown := domain.Condition{Field: "noSuchField", Operator: domain.OpEquals, Value: 1.0}
	assert.False(t, EvaluateCondition(ctx, unknown))

	// Nil value before player stats arrive
	nilField := domain.Condition{Field: pipeline.FieldWinPctDiff, Operator: domain.OpGreaterThan, Value: 0.1}
	assert.False(t, EvaluateCondition(ctx, nilField))

	// Type mismatch: string literal against a numeric field
	mismatch := domain.Condition{Field: pipeline.FieldAbsScoreDifferential, Operator: domain.OpEquals, Value: "ten"}
	assert.False(t, EvaluateCondition(ctx, mismatch))

	// Bool literal against a string field
	mismatch2 := domain.Condition{Field: pipeline.FieldLeadingTeam, Operator: domain.OpEquals, Value: true}
	assert.False(t, EvaluateCondition(ctx, mismatch2))
}
