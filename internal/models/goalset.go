package models

import (
	"github.com/julianstephens/quotapace/internal/constants"
)

// GoalSet is the live state of the in-progress period
type GoalSet struct {
	Shifts   int  `json:"shifts"` // remaining scheduled shifts
	Money    Goal `json:"money"`
	Phone    Goal `json:"phone"`
	Internet Goal `json:"internet"`
}

// MetricPace is the derived progress of one metric
type MetricPace struct {
	Metric     constants.Metric
	Goal       Goal
	Percent    float64
	Remaining  float64
	Pace       float64
	Applicable bool // false when there are no shifts left to pace against
	Band       constants.ProgressBand
}

// DefaultGoalSet returns the seed state used on first run.
func DefaultGoalSet() GoalSet {
	return GoalSet{
		Shifts:   constants.DefaultShifts,
		Money:    Goal{Target: constants.DefaultMoneyTarget, Current: constants.DefaultMoneyCurrent},
		Phone:    Goal{Target: constants.DefaultPhoneTarget, Current: constants.DefaultPhoneCurrent},
		Internet: Goal{Target: constants.DefaultInternetTarget, Current: constants.DefaultInternetCurrent},
	}
}

// Goal returns the goal tracked for m.
func (gs GoalSet) Goal(m constants.Metric) (Goal, bool) {
	p := gs.goalPtr(m)
	if p == nil {
		return Goal{}, false
	}
	return *p, true
}

func (gs *GoalSet) goalPtr(m constants.Metric) *Goal {
	switch m {
	case constants.MetricMoney:
		return &gs.Money
	case constants.MetricPhone:
		return &gs.Phone
	case constants.MetricInternet:
		return &gs.Internet
	}
	return nil
}

// SetField parses raw and stores it in the given field of metric m.
// Unparsable input is stored as 0. Returns false for an unknown metric or field.
func (gs *GoalSet) SetField(m constants.Metric, field constants.GoalField, raw string) bool {
	g := gs.goalPtr(m)
	if g == nil {
		return false
	}
	return g.Set(field, ParseAmount(raw))
}

// SetShifts parses raw as a shift count. Negative and unparsable input become 0.
func (gs *GoalSet) SetShifts(raw string) {
	gs.Shifts = ParseShifts(raw)
}

// ResetProgress zeroes every metric's current amount. Targets and shifts are kept.
func (gs *GoalSet) ResetProgress() {
	gs.Money.Current = 0
	gs.Phone.Current = 0
	gs.Internet.Current = 0
}

// Pace returns the per-shift pace for metric m at its display precision.
func (gs GoalSet) Pace(m constants.Metric) (float64, bool) {
	g, ok := gs.Goal(m)
	if !ok {
		return 0, false
	}
	info, _ := Info(m)
	return g.Pace(gs.Shifts, info.Precision)
}

// Progress computes the derived figures for every metric in display order.
func (gs GoalSet) Progress() []MetricPace {
	out := make([]MetricPace, 0, len(metricInfos))
	for _, info := range metricInfos {
		g, _ := gs.Goal(info.Key)
		pace, ok := g.Pace(gs.Shifts, info.Precision)
		out = append(out, MetricPace{
			Metric:     info.Key,
			Goal:       g,
			Percent:    g.PercentComplete(),
			Remaining:  g.Remaining(),
			Pace:       pace,
			Applicable: ok,
			Band:       g.Band(),
		})
	}
	return out
}
