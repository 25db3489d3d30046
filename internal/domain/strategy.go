package domain

// Field names a single value in the evaluation context. The vocabulary is
// a closed set; unknown names are rejected at the persistence boundary,
// never during evaluation.
type Field string

// Operator compares a context field against a condition's literal value.
type Operator string

const (
	OpEquals             Operator = "equals"
	OpNotEquals          Operator = "not_equals"
	OpGreaterThan        Operator = "greater_than"
	OpLessThan           Operator = "less_than"
	OpGreaterThanOrEqual Operator = "greater_than_or_equal"
	OpLessThanOrEqual    Operator = "less_than_or_equal"
	OpBetween            Operator = "between"
	OpContains           Operator = "contains"
)

// IsValid reports whether op is one of the known operators.
func (op Operator) IsValid() bool {
	switch op {
	case OpEquals, OpNotEquals, OpGreaterThan, OpLessThan,
		OpGreaterThanOrEqual, OpLessThanOrEqual, OpBetween, OpContains:
		return true
	}
	return false
}

// Condition compares one named context field against a literal value.
// Value types are established at the persistence boundary: float64, bool
// or string. Value2 is set only for the between operator (low=Value,
// high=Value2, both inclusive).
type Condition struct {
	Field    Field       `json:"field" yaml:"field"`
	Operator Operator    `json:"operator" yaml:"operator"`
	Value    interface{} `json:"value" yaml:"value"`
	Value2   interface{} `json:"value2,omitempty" yaml:"value2,omitempty"`
}

// TriggerKind marks a trigger as opening or closing a signal.
type TriggerKind string

const (
	TriggerEntry TriggerKind = "entry"
	TriggerClose TriggerKind = "close"
)

// Trigger is a named, ordered set of AND-combined conditions tied to a
// strategy.
type Trigger struct {
	ID         string      `json:"id" db:"id" yaml:"id"`
	StrategyID string      `json:"strategy_id" db:"strategy_id" yaml:"strategy_id"`
	Name       string      `json:"name" db:"name" yaml:"name"`
	Conditions []Condition `json:"conditions" yaml:"conditions"`
	Order      int         `json:"order" db:"position" yaml:"order"`
	Kind       TriggerKind `json:"kind" db:"kind" yaml:"kind"`
	// Odds is the American price taken when this entry trigger opens a
	// signal. Zero means no price was recorded and payouts fall back to
	// flat 1:1 staking.
	Odds int `json:"odds,omitempty" db:"odds" yaml:"odds,omitempty"`
}

// TriggerMode controls how a strategy's triggers become eligible.
type TriggerMode string

const (
	// ModeSequential enforces staged confirmation: a trigger is eligible
	// only once every lower-ordered trigger has already fired for the
	// same signal.
	ModeSequential TriggerMode = "sequential"
	// ModeParallel evaluates all eligible triggers independently each
	// cycle; the lowest-ordered match fires.
	ModeParallel TriggerMode = "parallel"
)

// BetType determines how a strategy's signals are scored at close.
type BetType string

const (
	BetSpread BetType = "spread"
	BetTotal  BetType = "total"
)

// Strategy is a user-defined declarative betting strategy.
type Strategy struct {
	ID          string      `json:"id" db:"id" yaml:"id"`
	Name        string      `json:"name" db:"name" yaml:"name"`
	TriggerMode TriggerMode `json:"trigger_mode" db:"trigger_mode" yaml:"trigger_mode"`
	BetType     BetType     `json:"bet_type" db:"bet_type" yaml:"bet_type"`
	IsActive    bool        `json:"is_active" db:"is_active" yaml:"is_active"`
	Triggers    []Trigger   `json:"triggers" yaml:"triggers"`
}

// EntryTriggers returns the strategy's entry triggers in order.
func (s *Strategy) EntryTriggers() []Trigger {
	return s.triggersOfKind(TriggerEntry)
}

// CloseTriggers returns the strategy's close triggers in order.
func (s *Strategy) CloseTriggers() []Trigger {
	return s.triggersOfKind(TriggerClose)
}

func (s *Strategy) triggersOfKind(kind TriggerKind) []Trigger {
	out := make([]Trigger, 0, len(s.Triggers))
	for _, t := range s.Triggers {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}
