package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/stavekit/stavekit/pkg/format"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// tuneModel - Interactive tuning stepper
// =============================================================================

// tuneModel is the bubbletea model for stepping through tuning passes one
// keypress at a time while watching the spacing cost evolve.
type tuneModel struct {
	f     *format.Formatter
	alpha float64
	costs []float64
	err   error
}

// newTuneModel creates a tuning stepper seeded with the formatter's
// current cost.
func newTuneModel(f *format.Formatter, alpha float64) tuneModel {
	return tuneModel{
		f:     f,
		alpha: alpha,
		costs: []float64{f.TotalCost()},
	}
}

func (m tuneModel) Init() tea.Cmd {
	return nil
}

func (m tuneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter", " ", "t":
			cost, err := m.f.Tune(m.alpha)
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.costs = append(m.costs, cost)
		}
	}
	return m, nil
}

func (m tuneModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tune Layout"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⏎/space tune pass  q quit"))
	b.WriteString("\n\n")

	b.WriteString(costTable(m.costs))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("  tuning failed: %v", m.err)))
	} else {
		current := m.costs[len(m.costs)-1]
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  pass %d · cost ", len(m.costs)-1)))
		b.WriteString(StyleNumber.Render(fmt.Sprintf("%.3f", current)))
	}
	b.WriteString("\n")

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// costTable renders the cost history as a bordered table. The first entry
// is the cost right after formatting; each following row is one pass.
func costTable(costs []float64) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(costs))
	for i, cost := range costs {
		label := "format"
		if i > 0 {
			label = fmt.Sprintf("pass %d", i)
		}
		delta := "—"
		if i > 0 {
			delta = fmt.Sprintf("%+.3f", cost-costs[i-1])
		}
		rows[i] = []string{label, fmt.Sprintf("%.3f", cost), delta}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Step", "Cost", "Δ").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	return t.Render()
}
