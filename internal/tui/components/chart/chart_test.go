package chart

import (
	"strings"
	"testing"

	"github.com/julianstephens/quotapace/internal/history"
)

func TestBarWidth(t *testing.T) {
	tests := []struct {
		value float64
		width int
		want  int
	}{
		{0, 20, 0},
		{50, 20, 10},
		{17.1, 20, 3},
		{100, 20, 20},
		{250, 20, 20},
		{-40, 20, 0},
	}
	for _, tt := range tests {
		if got := BarWidth(tt.value, tt.width); got != tt.want {
			t.Errorf("BarWidth(%v, %d) = %d, want %d", tt.value, tt.width, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	if got := Render(nil, 40); got != "No data to chart." {
		t.Errorf("got %q", got)
	}

	out := Render([]history.ChartPoint{
		{Label: "Mar", Value: 17.1},
		{Label: "Feb", Value: 100},
	}, 40)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Mar ") || !strings.HasSuffix(lines[0], "17.1%") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Feb ") || !strings.HasSuffix(lines[1], "100.0%") {
		t.Errorf("second line = %q", lines[1])
	}
}
