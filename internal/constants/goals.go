package constants

const (
	// Seed values for a GoalSet on first run or when stored state is unreadable
	DefaultShifts          = 20
	DefaultMoneyTarget     = 3500.0
	DefaultMoneyCurrent    = 600.0
	DefaultPhoneTarget     = 15.0
	DefaultPhoneCurrent    = 2.0
	DefaultInternetTarget  = 3.0
	DefaultInternetCurrent = 0.0

	// Progress band thresholds, in percent
	BehindThreshold = 30.0
	OnPaceThreshold = 85.0

	// Display precision for per-shift pacing
	MoneyPrecision = 2
	UnitPrecision  = 1

	// Currency used when formatting the money metric
	DefaultCurrency = "USD"

	// ChartLabelLen is the number of characters of the month name used as a chart label
	ChartLabelLen = 3
)

// Metric identifies one of the tracked quota metrics
type Metric string

// GoalField identifies the editable half of a goal
type GoalField string

// ProgressBand classifies a percent-complete figure
type ProgressBand string

const (
	MetricMoney    Metric = "money"
	MetricPhone    Metric = "phone"
	MetricInternet Metric = "internet"

	FieldTarget  GoalField = "target"
	FieldCurrent GoalField = "current"

	BandBehind ProgressBand = "behind"
	BandOnPace ProgressBand = "on-pace"
	BandAhead  ProgressBand = "ahead"
)
