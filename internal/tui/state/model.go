package state

import "github.com/julianstephens/quotapace/internal/constants"

// GoalFormModel backs the edit form for one metric. Values are kept as
// typed so lenient parsing happens in one place.
type GoalFormModel struct {
	Metric  constants.Metric
	Target  string
	Current string
}

type ShiftsFormModel struct {
	Shifts string
}
