package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/pipeline"
)

// rawCondition is the string-encoded condition shape stored by the web
// layer: a JSON list of {field, operator, value, value2?}.
type rawCondition struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
	Value2   interface{} `json:"value2,omitempty"`
}

// ParseConditions decodes and validates a string-encoded condition list
// into the typed model. Definitions referencing unknown fields or
// operators, or missing required parts, are rejected here — fail fast at
// the boundary, never during evaluation.
func ParseConditions(encoded string) ([]domain.Condition, error) {
	if encoded == "" {
		return nil, nil
	}
	var raw []rawCondition
	if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
		return nil, fmt.Errorf("decode conditions: %w", err)
	}

	out := make([]domain.Condition, 0, len(raw))
	for i, rc := range raw {
		cond, err := buildCondition(rc)
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}
		out = append(out, cond)
	}
	return out, nil
}

func buildCondition(rc rawCondition) (domain.Condition, error) {
	field := domain.Field(rc.Field)
	if rc.Field == "" {
		return domain.Condition{}, fmt.Errorf("missing field")
	}
	if !pipeline.IsKnownField(field) {
		return domain.Condition{}, fmt.Errorf("unknown field %q", rc.Field)
	}
	op := domain.Operator(rc.Operator)
	if !op.IsValid() {
		return domain.Condition{}, fmt.Errorf("unknown operator %q", rc.Operator)
	}
	if rc.Value == nil {
		return domain.Condition{}, fmt.Errorf("missing value")
	}
	if err := checkValueType(rc.Value); err != nil {
		return domain.Condition{}, err
	}
	if op == domain.OpBetween {
		if rc.Value2 == nil {
			return domain.Condition{}, fmt.Errorf("between requires value2")
		}
		if err := checkValueType(rc.Value2); err != nil {
			return domain.Condition{}, err
		}
	}
	return domain.Condition{
		Field:    field,
		Operator: op,
		Value:    rc.Value,
		Value2:   rc.Value2,
	}, nil
}

// checkValueType restricts condition literals to the scalar types the
// evaluator understands.
func checkValueType(v interface{}) error {
	switch v.(type) {
	case float64, bool, string:
		return nil
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
}

// ValidateTrigger rejects malformed trigger definitions at the boundary.
func ValidateTrigger(t *domain.Trigger) error {
	if t.Name == "" {
		return fmt.Errorf("trigger %s: missing name", t.ID)
	}
	if t.Kind != domain.TriggerEntry && t.Kind != domain.TriggerClose {
		return fmt.Errorf("trigger %s: unknown kind %q", t.ID, t.Kind)
	}
	for i, cond := range t.Conditions {
		if !pipeline.IsKnownField(cond.Field) {
			return fmt.Errorf("trigger %s condition %d: unknown field %q", t.ID, i, cond.Field)
		}
		if !cond.Operator.IsValid() {
			return fmt.Errorf("trigger %s condition %d: unknown operator %q", t.ID, i, cond.Operator)
		}
	}
	return nil
}
