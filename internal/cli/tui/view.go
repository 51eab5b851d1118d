package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/haskel/calburn/internal/benchmark"
	"github.com/haskel/calburn/internal/report"
)

const (
	labelWidth = 18
	barWidth   = 30
)

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderTitleBar())
	sections = append(sections, m.renderForm())
	sections = append(sections, m.renderBMI())

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.loading {
		sections = append(sections, helpStyle.Render("  predicting..."))
	} else if m.result != nil {
		sections = append(sections, m.renderResult(m.result))
	}

	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar() string {
	title := titleStyle.Render("CALBURN · Calorie Burn Predictor")

	source := helpStyle.Render(m.config.Source)
	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(source) - 2
	if spacing < 1 {
		spacing = 1
	}

	return fmt.Sprintf("%s%s%s", title, strings.Repeat(" ", spacing), source)
}

func (m Model) renderForm() string {
	var lines []string

	lines = append(lines, m.renderRow(0, "Gender", fmt.Sprintf("◀ %s ▶", m.gender.Label()), "m/f"))

	for i, f := range m.fields {
		value := formatValue(f.value, f.decimals)
		if m.cursor == i+1 && m.input != "" {
			value = m.input + "_"
		}
		hint := fmt.Sprintf("%s-%s", formatValue(f.bounds.Min, 0), formatValue(f.bounds.Max, 0))
		lines = append(lines, m.renderRow(i+1, f.label, value, hint))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderRow(idx int, label, value, hint string) string {
	cursor := "  "
	labelText := labelStyle.Render(fmt.Sprintf("%-*s", labelWidth, label))
	if m.cursor == idx {
		cursor = focusedStyle.Render("> ")
		labelText = focusedStyle.Render(fmt.Sprintf("%-*s", labelWidth, label))
	}
	return fmt.Sprintf("%s%s %s  %s", cursor, labelText, valueStyle.Render(fmt.Sprintf("%-10s", value)), boundsStyle.Render(hint))
}

func (m Model) renderBMI() string {
	bmi := m.liveBMI()
	category := benchmark.Classify(bmi)
	label := lipgloss.NewStyle().Foreground(categoryColor(category)).Render(category.String())
	return fmt.Sprintf("\n  BMI: %.2f (%s)", bmi, label)
}

func (m Model) renderResult(a *report.Assessment) string {
	lines := a.Lines()
	lines[0] = kcalStyle.Render(lines[0])

	lines = append(lines, "", sectionHeaderStyle.Render("Your Burn vs Athlete Benchmark"))
	lines = append(lines, renderBars(a.PredictedKcal, a.Comparison.Reference, barWidth)...)

	return resultBoxStyle.Render(strings.Join(lines, "\n"))
}

// renderBars draws the two-bar comparison scaled to the larger value.
func renderBars(you, reference float64, width int) []string {
	scale := math.Max(math.Max(you, reference), 1)

	bar := func(v float64) string {
		n := int(math.Round(math.Max(v, 0) / scale * float64(width)))
		return strings.Repeat("█", n) + strings.Repeat(" ", width-n)
	}

	return []string{
		fmt.Sprintf("%-12s %s %.1f kcal", "You", youBarStyle.Render(bar(you)), you),
		fmt.Sprintf("%-12s %s %.1f kcal", "Athlete Avg", benchmarkBarStyle.Render(bar(reference)), reference),
	}
}

func (m Model) renderFooter() string {
	return helpStyle.Render("\n  ↑↓ move · ←→ adjust · [ ] big step · type digits · enter predict · q quit")
}

func formatValue(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
