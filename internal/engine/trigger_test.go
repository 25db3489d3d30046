package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/pipeline"
)

func TestEvaluateTrigger_AllConditionsMustMatch(t *testing.T) {
	ctx := &pipeline.Context{
		Quarter:              3,
		AbsScoreDifferential: 12,
		HomeLeading:          true,
	}

	trigger := domain.Trigger{
		ID:   "t1",
		Name: "blowout in third",
		Kind: domain.TriggerEntry,
		Conditions: []domain.Condition{
			{Field: pipeline.FieldQuarter, Operator: domain.OpEquals, Value: 3.0},
			{Field: pipeline.FieldAbsScoreDifferential, Operator: domain.OpGreaterThanOrEqual, Value: 10.0},
			{Field: pipeline.FieldHomeLeading, Operator: domain.OpEquals, Value: true},
		},
	}

	res := EvaluateTrigger(ctx, trigger)
	assert.True(t, res.Passed)
	assert.Len(t, res.Matched, 3)
	assert.Empty(t, res.Failed)
}

func TestEvaluateTrigger_PartitionsAllConditions(t *testing.T) {
	// Every condition is evaluated even after a failure; the partition is
	// the diagnostic payload.
	ctx := &pipeline.Context{Quarter: 2, AbsScoreDifferential: 12}

	trigger := domain.Trigger{
		ID:   "t2",
		Name: "third quarter lead",
		Conditions: []domain.Condition{
			{Field: pipeline.FieldQuarter, Operator: domain.OpEquals, Value: 3.0},
			{Field: pipeline.FieldAbsScoreDifferential, Operator: domain.OpGreaterThanOrEqual, Value: 10.0},
			{Field: pipeline.FieldHomeLeading, Operator: domain.OpEquals, Value: true},
		},
	}

	res := EvaluateTrigger(ctx, trigger)
	assert.False(t, res.Passed)
	assert.Len(t, res.Matched, 1)
	assert.Len(t, res.Failed, 2)
	assert.Equal(t, len(trigger.Conditions), len(res.Matched)+len(res.Failed))
}

func TestEvaluateTrigger_EmptyConditionsNeverPass(t *testing.T) {
	res := EvaluateTrigger(&pipeline.Context{}, domain.Trigger{ID: "t3", Name: "empty"})
	assert.False(t, res.Passed)
	assert.Empty(t, res.Matched)
	assert.Empty(t, res.Failed)
}
