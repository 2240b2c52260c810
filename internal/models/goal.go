package models

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/quotapace/internal/constants"
)

// Goal is a quota target and the amount accumulated toward it for one metric.
type Goal struct {
	Target  float64 `json:"target"`  // quota amount, may be zero
	Current float64 `json:"current"` // progress so far, may exceed Target or be negative
}

// PercentComplete returns Current as a percentage of Target.
//
// A zero target has no meaningful ratio; it reports 0 when nothing has been
// achieved and 100 otherwise. The result is always finite.
func (g Goal) PercentComplete() float64 {
	if g.Target == 0 {
		return zeroTargetPercent(g.Current)
	}
	pct := g.Current / g.Target * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return zeroTargetPercent(g.Current)
	}
	return pct
}

func zeroTargetPercent(current float64) float64 {
	if current <= 0 {
		return 0
	}
	return 100
}

// Remaining returns how much is still needed to reach Target. Never negative
// and always finite.
func (g Goal) Remaining() float64 {
	r := g.Target - g.Current
	if math.IsNaN(r) || r <= 0 {
		return 0
	}
	return math.Min(r, math.MaxFloat64)
}

// maxPaceable is the largest remaining amount Pace will divide. Goals built
// from parsed input stay well below it.
const maxPaceable = 2 * MaxAmount

// Pace returns the amount needed per remaining shift, rounded to the given
// number of decimal places. The second result is false when shifts <= 0 or
// the remaining amount is out of range, in which case pacing is not applicable.
func (g Goal) Pace(shifts int, places int32) (float64, bool) {
	remaining := g.Remaining()
	if shifts <= 0 || remaining > maxPaceable {
		return 0, false
	}
	pace := decimal.NewFromFloat(remaining).
		Div(decimal.NewFromInt(int64(shifts))).
		Round(places)
	return pace.InexactFloat64(), true
}

// Band classifies the goal's progress for display.
func (g Goal) Band() constants.ProgressBand {
	return BandFor(g.PercentComplete())
}

// BandFor classifies a percent-complete value.
func BandFor(pct float64) constants.ProgressBand {
	switch {
	case pct < constants.BehindThreshold:
		return constants.BandBehind
	case pct < constants.OnPaceThreshold:
		return constants.BandOnPace
	default:
		return constants.BandAhead
	}
}

// Set replaces the given field with value.
func (g *Goal) Set(field constants.GoalField, value float64) bool {
	switch field {
	case constants.FieldTarget:
		g.Target = value
	case constants.FieldCurrent:
		g.Current = value
	default:
		return false
	}
	return true
}
