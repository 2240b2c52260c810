package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/models"
	"github.com/julianstephens/quotapace/internal/persistence"
	"github.com/julianstephens/quotapace/internal/share"
	"github.com/julianstephens/quotapace/internal/storage"
)

var march2024 = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func openSession(t *testing.T, store *storage.MemoryStore, opts ...Option) *Session {
	t.Helper()
	return Open(persistence.New(store), opts...)
}

func TestOpenSeedsDefaults(t *testing.T) {
	s := openSession(t, storage.NewMemoryStore())

	if !reflect.DeepEqual(s.Goals(), models.DefaultGoalSet()) {
		t.Errorf("Goals() = %+v, want defaults", s.Goals())
	}
	if s.History().Len() != 0 {
		t.Errorf("History().Len() = %d, want 0", s.History().Len())
	}
}

func TestSetField(t *testing.T) {
	store := storage.NewMemoryStore()
	s := openSession(t, store)

	gs, err := s.SetField(constants.MetricMoney, constants.FieldCurrent, "1,250.50")
	if err != nil {
		t.Fatalf("SetField() failed: %v", err)
	}
	if gs.Money.Current != 1250.5 {
		t.Errorf("Money.Current = %v, want 1250.5", gs.Money.Current)
	}

	gs, _ = s.SetField(constants.MetricPhone, constants.FieldTarget, "abc")
	if gs.Phone.Target != 0 {
		t.Errorf("Phone.Target = %v, want 0 for bad input", gs.Phone.Target)
	}

	var saved models.GoalSet
	raw, _ := store.Get(constants.GoalStateKey)
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		t.Fatalf("stored goals unreadable: %v", err)
	}
	if !reflect.DeepEqual(saved, s.Goals()) {
		t.Errorf("stored goals = %+v, want %+v", saved, s.Goals())
	}
	if len(store.Writes) != 2 {
		t.Errorf("got %d writes, want 2", len(store.Writes))
	}
}

func TestSetFieldOutOfRangeAmounts(t *testing.T) {
	s := openSession(t, storage.NewMemoryStore())

	if _, err := s.SetField(constants.MetricMoney, constants.FieldTarget, "1e308"); err != nil {
		t.Fatalf("SetField(target) failed: %v", err)
	}
	gs, err := s.SetField(constants.MetricMoney, constants.FieldCurrent, "-1e308")
	if err != nil {
		t.Fatalf("SetField(current) failed: %v", err)
	}
	if gs.Money.Target != 0 || gs.Money.Current != 0 {
		t.Errorf("Money = %+v, want out-of-range input read as 0", gs.Money)
	}

	for _, p := range s.Goals().Progress() {
		if p.Remaining < 0 || p.Pace < 0 {
			t.Errorf("Progress() for %s = %+v", p.Metric, p)
		}
	}
}

func TestSetShifts(t *testing.T) {
	s := openSession(t, storage.NewMemoryStore())

	tests := []struct {
		raw  string
		want int
	}{
		{"12", 12},
		{"12.7", 12},
		{"-3", 0},
		{"", 0},
	}
	for _, tt := range tests {
		gs, err := s.SetShifts(tt.raw)
		if err != nil {
			t.Fatalf("SetShifts(%q) failed: %v", tt.raw, err)
		}
		if gs.Shifts != tt.want {
			t.Errorf("SetShifts(%q) shifts = %d, want %d", tt.raw, gs.Shifts, tt.want)
		}
	}
}

func TestArchive(t *testing.T) {
	store := storage.NewMemoryStore()
	s := openSession(t, store, WithClock(fixedClock(march2024)), WithIDGenerator(sequentialIDs("id-1")))
	s.SetField(constants.MetricMoney, constants.FieldCurrent, "900")
	before := s.Goals()
	writes := len(store.Writes)

	entry, err := s.Archive()
	if err != nil {
		t.Fatalf("Archive() failed: %v", err)
	}

	if entry.ID != "id-1" || entry.Month != "March" || entry.Year != 2024 {
		t.Errorf("entry = %+v, want id-1 March 2024", entry)
	}
	if entry.Money != before.Money || entry.Shifts != before.Shifts {
		t.Errorf("entry snapshot = %+v, want %+v", entry, before)
	}

	after := s.Goals()
	if after.Money.Current != 0 || after.Phone.Current != 0 || after.Internet.Current != 0 {
		t.Errorf("currents not reset: %+v", after)
	}
	if after.Money.Target != before.Money.Target || after.Shifts != before.Shifts {
		t.Errorf("targets or shifts changed: %+v", after)
	}

	if first := s.History().Entries()[0]; first.ID != "id-1" {
		t.Errorf("newest entry = %s, want id-1", first.ID)
	}

	if len(store.Writes) != writes+1 {
		t.Fatalf("archive made %d writes, want 1", len(store.Writes)-writes)
	}
	w := store.Writes[len(store.Writes)-1]
	if _, ok := w[constants.GoalStateKey]; !ok {
		t.Error("archive did not write goals")
	}
	if _, ok := w[constants.HistoryKey]; !ok {
		t.Error("archive did not write history")
	}
}

func TestArchiveTwiceGivesDistinctIDs(t *testing.T) {
	s := openSession(t, storage.NewMemoryStore())

	a, err := s.Archive()
	if err != nil {
		t.Fatalf("first Archive() failed: %v", err)
	}
	b, err := s.Archive()
	if err != nil {
		t.Fatalf("second Archive() failed: %v", err)
	}

	if a.ID == b.ID {
		t.Errorf("ids collide: %s", a.ID)
	}
	if _, err := uuid.Parse(a.ID); err != nil {
		t.Errorf("id %q is not a uuid: %v", a.ID, err)
	}
	if s.History().Len() != 2 {
		t.Errorf("History().Len() = %d, want 2", s.History().Len())
	}
}

func TestArchiveRegeneratesCollidingID(t *testing.T) {
	s := openSession(t, storage.NewMemoryStore(), WithIDGenerator(sequentialIDs("x", "x", "y")))

	if _, err := s.Archive(); err != nil {
		t.Fatalf("Archive() failed: %v", err)
	}
	entry, err := s.Archive()
	if err != nil {
		t.Fatalf("Archive() failed: %v", err)
	}
	if entry.ID != "y" {
		t.Errorf("second id = %s, want y", entry.ID)
	}
}

func TestArchiveGivesUpOnConstantID(t *testing.T) {
	s := openSession(t, storage.NewMemoryStore(), WithIDGenerator(sequentialIDs("same")))
	s.Archive()

	if _, err := s.Archive(); err == nil {
		t.Error("Archive() should fail when no unique id can be made")
	}
	if s.History().Len() != 1 {
		t.Errorf("History().Len() = %d, want 1", s.History().Len())
	}
}

func TestWriteFailureIsWarning(t *testing.T) {
	store := storage.NewMemoryStore()
	s := openSession(t, store, WithClock(fixedClock(march2024)))
	store.FailWrites = true

	gs, err := s.SetShifts("5")
	var warn *SaveWarning
	if !errors.As(err, &warn) {
		t.Fatalf("SetShifts() error = %v, want SaveWarning", err)
	}
	if warn.Key != constants.GoalStateKey || !errors.Is(err, storage.ErrWriteFailed) {
		t.Errorf("warning = %+v", warn)
	}
	if gs.Shifts != 5 || s.Goals().Shifts != 5 {
		t.Errorf("in-memory change lost: %d", s.Goals().Shifts)
	}

	entry, err := s.Archive()
	if !errors.As(err, &warn) {
		t.Fatalf("Archive() error = %v, want SaveWarning", err)
	}
	if _, ok := s.History().Get(entry.ID); !ok {
		t.Error("archived entry missing from memory")
	}

	ok, err := s.Delete(entry.ID)
	if !ok || !errors.As(err, &warn) {
		t.Errorf("Delete() = %v, %v, want true with SaveWarning", ok, err)
	}
	if s.History().Len() != 0 {
		t.Errorf("History().Len() = %d, want 0", s.History().Len())
	}
}

func TestDelete(t *testing.T) {
	store := storage.NewMemoryStore()
	s := openSession(t, store, WithIDGenerator(sequentialIDs("a", "b", "c")))
	for i := 0; i < 3; i++ {
		s.Archive()
	}
	writes := len(store.Writes)

	ok, err := s.Delete("missing")
	if ok || err != nil {
		t.Errorf("Delete(missing) = %v, %v, want false, nil", ok, err)
	}
	if s.History().Len() != 3 {
		t.Errorf("History().Len() = %d, want 3", s.History().Len())
	}
	if len(store.Writes) != writes {
		t.Error("Delete(missing) wrote to storage")
	}

	ok, err = s.Delete("b")
	if !ok || err != nil {
		t.Fatalf("Delete(b) = %v, %v", ok, err)
	}
	var ids []string
	for _, e := range s.History().Entries() {
		ids = append(ids, e.ID)
	}
	if !reflect.DeepEqual(ids, []string{"c", "a"}) {
		t.Errorf("ids = %v, want [c a]", ids)
	}
}

func TestReopenRestoresState(t *testing.T) {
	store := storage.NewMemoryStore()
	s := openSession(t, store, WithClock(fixedClock(march2024)))
	s.SetShifts("9")
	s.SetField(constants.MetricInternet, constants.FieldCurrent, "2")
	s.Archive()

	again := openSession(t, store)
	if !reflect.DeepEqual(again.Goals(), s.Goals()) {
		t.Errorf("reopened goals = %+v, want %+v", again.Goals(), s.Goals())
	}
	if !reflect.DeepEqual(again.History().Entries(), s.History().Entries()) {
		t.Errorf("reopened history differs")
	}
}

func TestReadModels(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	i := 0
	clock := func() time.Time {
		d := dates[i]
		i++
		return d
	}
	s := openSession(t, storage.NewMemoryStore(), WithClock(clock))
	for range dates {
		s.SetField(constants.MetricMoney, constants.FieldCurrent, "1750")
		s.Archive()
	}

	if got := s.DistinctYears(); !reflect.DeepEqual(got, []int{2025, 2024}) {
		t.Errorf("DistinctYears() = %v", got)
	}
	if got := s.DistinctMonths(2024); !reflect.DeepEqual(got, []string{"December", "March"}) {
		t.Errorf("DistinctMonths(2024) = %v", got)
	}
	if got := len(s.Filter(0, "")); got != 3 {
		t.Errorf("Filter(0, \"\") returned %d entries, want 3", got)
	}
	if got := len(s.Filter(2024, "March")); got != 1 {
		t.Errorf("Filter(2024, March) returned %d entries, want 1", got)
	}

	points := s.ChartSeries(2024, "", constants.MetricMoney)
	if len(points) != 2 || points[0].Label != "Dec" || points[1].Label != "Mar" {
		t.Fatalf("ChartSeries() = %+v", points)
	}
	if points[0].Value != 50 {
		t.Errorf("point value = %v, want 50", points[0].Value)
	}
}

type failingSharer struct{}

func (failingSharer) Share(context.Context, string, string) error {
	return fmt.Errorf("share sheet dismissed")
}

func TestExport(t *testing.T) {
	s := openSession(t, storage.NewMemoryStore(), WithClock(fixedClock(march2024)), WithIDGenerator(sequentialIDs("only")))
	s.Archive()

	var buf bytes.Buffer
	if err := s.Export(context.Background(), share.Writer{W: &buf, Header: true}, 2024, "March"); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("# Goals History Export\n[\n  {\n    \"id\": \"only\"")) {
		t.Errorf("export output = %q", buf.String())
	}

	buf.Reset()
	if err := s.Export(context.Background(), share.Writer{W: &buf}, 1999, ""); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("empty export = %q, want []", buf.String())
	}

	if err := s.Export(context.Background(), failingSharer{}, 0, ""); err == nil {
		t.Error("Export() should report share failure")
	}
	if s.History().Len() != 1 {
		t.Error("failed export changed history")
	}
}

func TestExportXLSX(t *testing.T) {
	s := openSession(t, storage.NewMemoryStore(), WithClock(fixedClock(march2024)))
	s.Archive()

	var buf bytes.Buffer
	if err := s.ExportXLSX(&buf, 0, ""); err != nil {
		t.Fatalf("ExportXLSX() failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Error("output is not a zip container")
	}
}
