package cli

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stavekit/stavekit/pkg/format"
	"github.com/stavekit/stavekit/pkg/score"
)

func formattedFormatter(t *testing.T) *format.Formatter {
	t.Helper()
	v := score.NewVoice(score.CommonTime)
	for _, d := range []string{"2", "4", "8", "8"} {
		n, err := score.NewNote([]string{"c/4"}, d, 0)
		if err != nil {
			t.Fatalf("NewNote: %v", err)
		}
		if err := v.AddTickable(n); err != nil {
			t.Fatalf("AddTickable: %v", err)
		}
	}
	f := format.New()
	if err := f.JoinVoices([]*score.Voice{v}); err != nil {
		t.Fatalf("JoinVoices: %v", err)
	}
	if err := f.Format([]*score.Voice{v}, 400, format.FormatParams{}); err != nil {
		t.Fatalf("Format: %v", err)
	}
	return f
}

func TestTuneModelStep(t *testing.T) {
	m := newTuneModel(formattedFormatter(t), 0.5)
	if len(m.costs) != 1 {
		t.Fatalf("seeded with %d costs, want 1", len(m.costs))
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	stepped := next.(tuneModel)
	if len(stepped.costs) != 2 {
		t.Fatalf("after one step got %d costs, want 2", len(stepped.costs))
	}
	if math.IsNaN(stepped.costs[1]) || math.IsInf(stepped.costs[1], 0) {
		t.Errorf("cost after step is not finite: %f", stepped.costs[1])
	}
	if stepped.err != nil {
		t.Errorf("unexpected tune error: %v", stepped.err)
	}
}

func TestTuneModelQuit(t *testing.T) {
	m := newTuneModel(formattedFormatter(t), 0.5)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestCostTable(t *testing.T) {
	out := costTable([]float64{3.0, 2.5, 2.4})
	if !strings.Contains(out, "format") {
		t.Error("first row should be labeled format")
	}
	if !strings.Contains(out, "pass 2") {
		t.Error("later rows should be labeled by pass")
	}
	if !strings.Contains(out, "-0.500") {
		t.Errorf("delta column missing: %s", out)
	}
}
