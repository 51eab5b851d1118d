package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/haskel/calburn/internal/features"
	"github.com/haskel/calburn/internal/report"
)

// Messages for tea.Cmd
type predictMsg struct {
	data *report.Assessment
	err  error
}

// predict runs the assessor off the UI goroutine.
func predict(a Assessor, rec features.FeatureRecord) tea.Cmd {
	return func() tea.Msg {
		data, err := a.Assess(rec)
		return predictMsg{data: data, err: err}
	}
}
