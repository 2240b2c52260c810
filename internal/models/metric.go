package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"

	"github.com/julianstephens/quotapace/internal/constants"
)

// MetricInfo describes how a metric is labelled and displayed
type MetricInfo struct {
	Key       constants.Metric
	Label     string // e.g. "Sales Goal"
	Noun      string // used in "N <noun> remaining"
	Short     string // used in history summaries
	Money     bool
	Precision int32 // decimal places for per-shift pacing
}

var metricInfos = []MetricInfo{
	{Key: constants.MetricMoney, Label: "Sales Goal", Noun: "sales", Short: "Money", Money: true, Precision: constants.MoneyPrecision},
	{Key: constants.MetricPhone, Label: "Phone Sales", Noun: "phone", Short: "Phones", Precision: constants.UnitPrecision},
	{Key: constants.MetricInternet, Label: "Internet Sales", Noun: "internet", Short: "Internet", Precision: constants.UnitPrecision},
}

// Metrics returns the tracked metrics in display order.
func Metrics() []MetricInfo {
	out := make([]MetricInfo, len(metricInfos))
	copy(out, metricInfos)
	return out
}

// Info returns the display metadata for m.
func Info(m constants.Metric) (MetricInfo, bool) {
	for _, info := range metricInfos {
		if info.Key == m {
			return info, true
		}
	}
	return MetricInfo{}, false
}

// ParseMetric parses a metric name, accepting a few common aliases.
func ParseMetric(s string) (constants.Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "money", "sales", "revenue", "$":
		return constants.MetricMoney, nil
	case "phone", "phones", "device", "devices":
		return constants.MetricPhone, nil
	case "internet", "service", "services", "plan", "plans":
		return constants.MetricInternet, nil
	default:
		return "", fmt.Errorf("unknown metric %q (want money, phone or internet)", s)
	}
}

// ParseField parses "target" or "current".
func ParseField(s string) (constants.GoalField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "target", "goal", "quota":
		return constants.FieldTarget, nil
	case "current", "progress", "actual":
		return constants.FieldCurrent, nil
	default:
		return "", fmt.Errorf("unknown field %q (want target or current)", s)
	}
}

// FormatAmount renders v the way the metric is displayed: currency for
// money, a plain number for unit counts.
func (i MetricInfo) FormatAmount(v float64) string {
	if i.Money {
		if math.Abs(v) > maxPaceable {
			return "$" + strconv.FormatFloat(v, 'g', 6, 64)
		}
		return money.NewFromFloat(v, constants.DefaultCurrency).Display()
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPace renders a per-shift pace at the metric's precision.
func (i MetricInfo) FormatPace(v float64) string {
	s := strconv.FormatFloat(v, 'f', int(i.Precision), 64)
	if i.Money {
		return "$" + s
	}
	return s
}
