package goals

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/models"
)

func press(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestView(t *testing.T) {
	m := New(models.DefaultGoalSet(), 80, 30)
	view := m.View()
	for _, want := range []string{
		"$600.00 / $3,500.00",
		"$2,900.00 sales remaining · Need $145.00 per shift",
		"13 phone remaining · Need 0.7 per shift",
		"Shifts remaining: 20",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	gs := models.DefaultGoalSet()
	gs.Shifts = 0
	m.SetGoals(gs)
	if strings.Contains(m.View(), "per shift") {
		t.Error("pace shown with no shifts left")
	}
}

func TestCursorAndMessages(t *testing.T) {
	m := New(models.DefaultGoalSet(), 80, 30)
	m, _ = m.Update(press("k"))
	if m.Selected() != constants.MetricMoney {
		t.Errorf("cursor moved above the first metric")
	}
	for i := 0; i < 5; i++ {
		m, _ = m.Update(press("j"))
	}
	if m.Selected() != constants.MetricInternet {
		t.Errorf("got %s, want internet", m.Selected())
	}

	_, cmd := m.Update(press("e"))
	if msg, ok := cmd().(EditGoalMsg); !ok || msg.Metric != constants.MetricInternet {
		t.Errorf("got %#v", cmd())
	}
	_, cmd = m.Update(press("s"))
	if _, ok := cmd().(EditShiftsMsg); !ok {
		t.Error("expected EditShiftsMsg")
	}
	_, cmd = m.Update(press("a"))
	if _, ok := cmd().(ArchiveMsg); !ok {
		t.Error("expected ArchiveMsg")
	}
}
