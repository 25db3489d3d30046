package pipeline

import (
	"sort"

	"github.com/sawpanic/courtside/internal/domain"
)

// Field name constants. The vocabulary is closed: conditions referencing
// anything outside this table are rejected when strategy definitions are
// loaded, so evaluation never sees an unknown name.
const (
	FieldQuarter              domain.Field = "quarter"
	FieldTimeRemainingSeconds domain.Field = "timeRemainingSeconds"
	FieldGameStatus           domain.Field = "gameStatus"
	FieldHomeScore            domain.Field = "homeScore"
	FieldAwayScore            domain.Field = "awayScore"
	FieldTotalScore           domain.Field = "totalScore"
	FieldScoreDifferential    domain.Field = "scoreDifferential"
	FieldAbsScoreDifferential domain.Field = "absScoreDifferential"
	FieldCurrentLead          domain.Field = "currentLead"
	FieldHomeLeading          domain.Field = "homeLeading"
	FieldAwayLeading          domain.Field = "awayLeading"
	FieldTied                 domain.Field = "tied"
	FieldHomeTeam             domain.Field = "homeTeam"
	FieldAwayTeam             domain.Field = "awayTeam"
	FieldLeadingTeam          domain.Field = "leadingTeam"
	FieldLosingTeam           domain.Field = "losingTeam"

	FieldQ1Home         domain.Field = "q1Home"
	FieldQ1Away         domain.Field = "q1Away"
	FieldQ1Total        domain.Field = "q1Total"
	FieldQ1Differential domain.Field = "q1Differential"
	FieldQ2Home         domain.Field = "q2Home"
	FieldQ2Away         domain.Field = "q2Away"
	FieldQ2Total        domain.Field = "q2Total"
	FieldQ2Differential domain.Field = "q2Differential"
	FieldQ3Home         domain.Field = "q3Home"
	FieldQ3Away         domain.Field = "q3Away"
	FieldQ3Total        domain.Field = "q3Total"
	FieldQ3Differential domain.Field = "q3Differential"
	FieldQ4Home         domain.Field = "q4Home"
	FieldQ4Away         domain.Field = "q4Away"
	FieldQ4Total        domain.Field = "q4Total"
	FieldQ4Differential domain.Field = "q4Differential"

	FieldHalftimeHome         domain.Field = "halftimeHome"
	FieldHalftimeAway         domain.Field = "halftimeAway"
	FieldHalftimeTotal        domain.Field = "halftimeTotal"
	FieldHalftimeDifferential domain.Field = "halftimeDifferential"
	FieldHalftimeLead         domain.Field = "halftimeLead"
	FieldFirstHalfTotal       domain.Field = "firstHalfTotal"
	FieldSecondHalfTotal      domain.Field = "secondHalfTotal"

	FieldSpread               domain.Field = "spread"
	FieldTotalLine            domain.Field = "totalLine"
	FieldMoneylineHome        domain.Field = "moneylineHome"
	FieldMoneylineAway        domain.Field = "moneylineAway"
	FieldLeadingTeamSpread    domain.Field = "leadingTeamSpread"
	FieldLosingTeamSpread     domain.Field = "losingTeamSpread"
	FieldLeadingTeamMoneyline domain.Field = "leadingTeamMoneyline"
	FieldLosingTeamMoneyline  domain.Field = "losingTeamMoneyline"

	FieldWinPctDiff     domain.Field = "winPctDiff"
	FieldPpmDiff        domain.Field = "ppmDiff"
	FieldExperienceDiff domain.Field = "experienceDiff"
)

// getter extracts one field's value from a context. A nil return means
// the field has no value yet (player comparisons before stats arrive).
type getter func(*Context) interface{}

var fieldGetters = map[domain.Field]getter{
	FieldQuarter:              func(c *Context) interface{} { return c.Quarter },
	FieldTimeRemainingSeconds: func(c *Context) interface{} { return c.TimeRemainingSeconds },
	FieldGameStatus:           func(c *Context) interface{} { return c.GameStatus },
	FieldHomeScore:            func(c *Context) interface{} { return c.HomeScore },
	FieldAwayScore:            func(c *Context) interface{} { return c.AwayScore },
	FieldTotalScore:           func(c *Context) interface{} { return c.TotalScore },
	FieldScoreDifferential:    func(c *Context) interface{} { return c.ScoreDifferential },
	FieldAbsScoreDifferential: func(c *Context) interface{} { return c.AbsScoreDifferential },
	FieldCurrentLead:          func(c *Context) interface{} { return c.CurrentLead },
	FieldHomeLeading:          func(c *Context) interface{} { return c.HomeLeading },
	FieldAwayLeading:          func(c *Context) interface{} { return c.AwayLeading },
	FieldTied:                 func(c *Context) interface{} { return c.Tied },
	FieldHomeTeam:             func(c *Context) interface{} { return c.HomeTeam },
	FieldAwayTeam:             func(c *Context) interface{} { return c.AwayTeam },
	FieldLeadingTeam:          func(c *Context) interface{} { return c.LeadingTeam },
	FieldLosingTeam:           func(c *Context) interface{} { return c.LosingTeam },

	FieldQ1Home:         func(c *Context) interface{} { return c.Q1Home },
	FieldQ1Away:         func(c *Context) interface{} { return c.Q1Away },
	FieldQ1Total:        func(c *Context) interface{} { return c.Q1Total },
	FieldQ1Differential: func(c *Context) interface{} { return c.Q1Differential },
	FieldQ2Home:         func(c *Context) interface{} { return c.Q2Home },
	FieldQ2Away:         func(c *Context) interface{} { return c.Q2Away },
	FieldQ2Total:        func(c *Context) interface{} { return c.Q2Total },
	FieldQ2Differential: func(c *Context) interface{} { return c.Q2Differential },
	FieldQ3Home:         func(c *Context) interface{} { return c.Q3Home },
	FieldQ3Away:         func(c *Context) interface{} { return c.Q3Away },
	FieldQ3Total:        func(c *Context) interface{} { return c.Q3Total },
	FieldQ3Differential: func(c *Context) interface{} { return c.Q3Differential },
	FieldQ4Home:         func(c *Context) interface{} { return c.Q4Home },
	FieldQ4Away:         func(c *Context) interface{} { return c.Q4Away },
	FieldQ4Total:        func(c *Context) interface{} { return c.Q4Total },
	FieldQ4Differential: func(c *Context) interface{} { return c.Q4Differential },

	FieldHalftimeHome:         func(c *Context) interface{} { return c.HalftimeHome },
	FieldHalftimeAway:         func(c *Context) interface{} { return c.HalftimeAway },
	FieldHalftimeTotal:        func(c *Context) interface{} { return c.HalftimeTotal },
	FieldHalftimeDifferential: func(c *Context) interface{} { return c.HalftimeDifferential },
	FieldHalftimeLead:         func(c *Context) interface{} { return c.HalftimeLead },
	FieldFirstHalfTotal:       func(c *Context) interface{} { return c.FirstHalfTotal },
	FieldSecondHalfTotal:      func(c *Context) interface{} { return c.SecondHalfTotal },

	FieldSpread:               func(c *Context) interface{} { return c.Spread },
	FieldTotalLine:            func(c *Context) interface{} { return c.TotalLine },
	FieldMoneylineHome:        func(c *Context) interface{} { return c.MoneylineHome },
	FieldMoneylineAway:        func(c *Context) interface{} { return c.MoneylineAway },
	FieldLeadingTeamSpread:    func(c *Context) interface{} { return c.LeadingTeamSpread },
	FieldLosingTeamSpread:     func(c *Context) interface{} { return c.LosingTeamSpread },
	FieldLeadingTeamMoneyline: func(c *Context) interface{} { return c.LeadingTeamMoneyline },
	FieldLosingTeamMoneyline:  func(c *Context) interface{} { return c.LosingTeamMoneyline },

	FieldWinPctDiff:     func(c *Context) interface{} { return deref(c.WinPctDiff) },
	FieldPpmDiff:        func(c *Context) interface{} { return deref(c.PpmDiff) },
	FieldExperienceDiff: func(c *Context) interface{} { return deref(c.ExperienceDiff) },
}

func deref(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// Lookup returns a field's value from the context, or nil when the field
// currently has no value. Unknown fields also return nil so evaluation
// degrades to no-match rather than failing.
func Lookup(c *Context, f domain.Field) interface{} {
	get, ok := fieldGetters[f]
	if !ok {
		return nil
	}
	return get(c)
}

// IsKnownField reports whether f is part of the closed field vocabulary.
// The persistence boundary uses it to reject bad definitions fast.
func IsKnownField(f domain.Field) bool {
	_, ok := fieldGetters[f]
	return ok
}

// KnownFields returns the field vocabulary in sorted order.
func KnownFields() []domain.Field {
	out := make([]domain.Field, 0, len(fieldGetters))
	for f := range fieldGetters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
