package models

import (
	"math"
	"testing"

	"github.com/julianstephens/quotapace/internal/constants"
)

func TestPercentComplete(t *testing.T) {
	tests := []struct {
		name string
		goal Goal
		want float64
	}{
		{"seed money", Goal{Target: 3500, Current: 600}, 17.142857142857142},
		{"exactly met", Goal{Target: 15, Current: 15}, 100},
		{"over achieved", Goal{Target: 10, Current: 25}, 250},
		{"negative correction", Goal{Target: 10, Current: -5}, -50},
		{"zero target nothing done", Goal{Target: 0, Current: 0}, 0},
		{"zero target negative current", Goal{Target: 0, Current: -3}, 0},
		{"zero target some progress", Goal{Target: 0, Current: 4}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.goal.PercentComplete()
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("PercentComplete() = %v, want a finite value", got)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PercentComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		goal Goal
		want float64
	}{
		{Goal{Target: 3500, Current: 600}, 2900},
		{Goal{Target: 15, Current: 20}, 0},
		{Goal{Target: 3, Current: 0}, 3},
		{Goal{Target: 10, Current: -2}, 12},
		{Goal{Target: 0, Current: 0}, 0},
	}

	for _, tt := range tests {
		got := tt.goal.Remaining()
		if got != tt.want {
			t.Errorf("Remaining(%+v) = %v, want %v", tt.goal, got, tt.want)
		}
		if got < 0 {
			t.Errorf("Remaining(%+v) = %v, must never be negative", tt.goal, got)
		}
	}
}

func TestPace(t *testing.T) {
	t.Run("money at two places", func(t *testing.T) {
		got, ok := Goal{Target: 3500, Current: 600}.Pace(20, constants.MoneyPrecision)
		if !ok {
			t.Fatal("Pace() reported not applicable with 20 shifts")
		}
		if got != 145.00 {
			t.Errorf("Pace() = %v, want 145.00", got)
		}
	})

	t.Run("units round half away from zero", func(t *testing.T) {
		got, ok := Goal{Target: 15, Current: 2}.Pace(20, constants.UnitPrecision)
		if !ok || got != 0.7 {
			t.Errorf("Pace() = %v, %v, want 0.7, true", got, ok)
		}
	})

	t.Run("met goal paces at zero", func(t *testing.T) {
		got, ok := Goal{Target: 3, Current: 5}.Pace(4, constants.UnitPrecision)
		if !ok || got != 0 {
			t.Errorf("Pace() = %v, %v, want 0, true", got, ok)
		}
	})

	t.Run("no shifts is not applicable", func(t *testing.T) {
		for _, shifts := range []int{0, -1, -20} {
			got, ok := Goal{Target: 3500, Current: 600}.Pace(shifts, constants.MoneyPrecision)
			if ok {
				t.Errorf("Pace(shifts=%d) reported applicable", shifts)
			}
			if got != 0 {
				t.Errorf("Pace(shifts=%d) = %v, want 0", shifts, got)
			}
		}
	})
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want constants.ProgressBand
	}{
		{0, constants.BandBehind},
		{29.9, constants.BandBehind},
		{30, constants.BandOnPace},
		{84.99, constants.BandOnPace},
		{85, constants.BandAhead},
		{250, constants.BandAhead},
	}
	for _, tt := range tests {
		if got := BandFor(tt.pct); got != tt.want {
			t.Errorf("BandFor(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestSeedScenario(t *testing.T) {
	gs := DefaultGoalSet()

	if got := gs.Money.Remaining(); got != 2900 {
		t.Errorf("remaining(money) = %v, want 2900", got)
	}
	if got := math.Round(gs.Money.PercentComplete()*10) / 10; got != 17.1 {
		t.Errorf("percentComplete(money) = %v, want ~17.1", got)
	}
	pace, ok := gs.Pace(constants.MetricMoney)
	if !ok || pace != 145.00 {
		t.Errorf("perShiftPace(money) = %v, %v, want 145.00, true", pace, ok)
	}
}

func TestGoalSetSetField(t *testing.T) {
	gs := DefaultGoalSet()

	if !gs.SetField(constants.MetricPhone, constants.FieldCurrent, "7") {
		t.Fatal("SetField() rejected a valid metric and field")
	}
	if gs.Phone.Current != 7 || gs.Phone.Target != 15 {
		t.Errorf("phone = %+v, want {Target:15 Current:7}", gs.Phone)
	}

	gs.SetField(constants.MetricMoney, constants.FieldTarget, "not a number")
	if gs.Money.Target != 0 {
		t.Errorf("money target = %v, want 0 for invalid input", gs.Money.Target)
	}

	gs.SetField(constants.MetricInternet, constants.FieldTarget, "")
	if gs.Internet.Target != 0 {
		t.Errorf("internet target = %v, want 0 for empty input", gs.Internet.Target)
	}

	if gs.SetField("bogus", constants.FieldTarget, "1") {
		t.Error("SetField() accepted an unknown metric")
	}
	if gs.SetField(constants.MetricMoney, "bogus", "1") {
		t.Error("SetField() accepted an unknown field")
	}
}

func TestGoalSetResetProgress(t *testing.T) {
	gs := DefaultGoalSet()
	gs.ResetProgress()

	want := DefaultGoalSet()
	want.Money.Current, want.Phone.Current, want.Internet.Current = 0, 0, 0
	if gs != want {
		t.Errorf("ResetProgress() = %+v, want %+v", gs, want)
	}
}

func TestExtremeGoalStaysFinite(t *testing.T) {
	g := Goal{Target: 1e308, Current: -1e308}

	if got := g.Remaining(); math.IsInf(got, 0) || math.IsNaN(got) {
		t.Errorf("Remaining() = %v, want a finite value", got)
	}
	if got, ok := g.Pace(20, constants.MoneyPrecision); ok || got != 0 {
		t.Errorf("Pace() = %v, %v, want 0, false", got, ok)
	}

	gs := DefaultGoalSet()
	gs.SetField(constants.MetricMoney, constants.FieldTarget, "1e308")
	gs.SetField(constants.MetricMoney, constants.FieldCurrent, "-1e308")
	for _, p := range gs.Progress() {
		if math.IsInf(p.Remaining, 0) || math.IsInf(p.Pace, 0) {
			t.Errorf("Progress() for %s = %+v, want finite values", p.Metric, p)
		}
	}

	info, _ := Info(constants.MetricMoney)
	if got := info.FormatAmount(math.MaxFloat64); got == "" {
		t.Error("FormatAmount(MaxFloat64) returned an empty string")
	}
}

func TestProgress(t *testing.T) {
	gs := DefaultGoalSet()
	gs.Shifts = 0

	progress := gs.Progress()
	if len(progress) != 3 {
		t.Fatalf("Progress() returned %d metrics, want 3", len(progress))
	}
	wantOrder := []constants.Metric{constants.MetricMoney, constants.MetricPhone, constants.MetricInternet}
	for i, p := range progress {
		if p.Metric != wantOrder[i] {
			t.Errorf("Progress()[%d].Metric = %q, want %q", i, p.Metric, wantOrder[i])
		}
		if p.Applicable {
			t.Errorf("Progress()[%d] pace applicable with zero shifts", i)
		}
	}
}
