package engine

import (
	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/pipeline"
)

// TriggerResult partitions a trigger's conditions into matched and failed
// sets for diagnostics. Matched and Failed are disjoint and their union is
// the trigger's full condition list.
type TriggerResult struct {
	Trigger domain.Trigger     `json:"trigger"`
	Matched []domain.Condition `json:"matched_conditions"`
	Failed  []domain.Condition `json:"failed_conditions"`
	Passed  bool               `json:"passed"`
}

// EvaluateTrigger evaluates every condition in the trigger regardless of
// earlier failures. A trigger with no conditions never passes; that guards
// against an unconditioned signal firing by configuration error.
func EvaluateTrigger(ctx *pipeline.Context, trigger domain.Trigger) TriggerResult {
	res := TriggerResult{
		Trigger: trigger,
		Matched: make([]domain.Condition, 0, len(trigger.Conditions)),
		Failed:  make([]domain.Condition, 0, len(trigger.Conditions)),
	}
	for _, cond := range trigger.Conditions {
		if EvaluateCondition(ctx, cond) {
			res.Matched = append(res.Matched, cond)
		} else {
			res.Failed = append(res.Failed, cond)
		}
	}
	res.Passed = len(res.Failed) == 0 && len(trigger.Conditions) > 0
	return res
}
