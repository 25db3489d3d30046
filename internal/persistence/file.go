package persistence

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sawpanic/courtside/internal/domain"
)

// strategyFile is the YAML shape of a file-based strategy set, used when
// running without a record store.
type strategyFile struct {
	Strategies []domain.Strategy `yaml:"strategies"`
}

// LoadStrategies reads strategy definitions from a YAML file and
// validates them the same way the record store boundary does.
func LoadStrategies(path string) ([]domain.Strategy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategies %s: %w", path, err)
	}
	var file strategyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse strategies %s: %w", path, err)
	}

	for si := range file.Strategies {
		s := &file.Strategies[si]
		if s.ID == "" {
			return nil, fmt.Errorf("strategy %d: missing id", si)
		}
		if s.TriggerMode == "" {
			s.TriggerMode = domain.ModeParallel
		}
		if s.BetType == "" {
			s.BetType = domain.BetSpread
		}
		for ti := range s.Triggers {
			t := &s.Triggers[ti]
			t.StrategyID = s.ID
			normalizeConditions(t.Conditions)
			if err := ValidateTrigger(t); err != nil {
				return nil, fmt.Errorf("strategy %s: %w", s.ID, err)
			}
		}
	}
	return file.Strategies, nil
}

// normalizeConditions widens YAML integer literals to float64, the only
// numeric type the evaluator compares against.
func normalizeConditions(conds []domain.Condition) {
	for i := range conds {
		conds[i].Value = widen(conds[i].Value)
		conds[i].Value2 = widen(conds[i].Value2)
	}
}

func widen(v interface{}) interface{} {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return v
}

// LoadCorpus reads a historical game corpus from a JSON file.
func LoadCorpus(path string) ([]domain.HistoricalGame, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	var games []domain.HistoricalGame
	if err := json.Unmarshal(raw, &games); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}
	return games, nil
}
