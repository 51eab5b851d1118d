package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haskel/calburn/internal/features"
)

// maxInputLen bounds typed numbers.
const maxInputLen = 6

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case predictMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.result = nil
		} else {
			m.err = nil
			m.result = msg.data
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit

	case "up", "shift+tab", "k":
		m.commit()
		m.cursor = (m.cursor - 1 + m.numFocus()) % m.numFocus()
		return m, nil

	case "down", "tab", "j":
		m.commit()
		m.cursor = (m.cursor + 1) % m.numFocus()
		return m, nil

	case "left", "h":
		m.adjust(-1, false)
		return m, nil

	case "right", "l":
		m.adjust(1, false)
		return m, nil

	case "[", "pgdown":
		m.adjust(-1, true)
		return m, nil

	case "]", "pgup":
		m.adjust(1, true)
		return m, nil

	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil

	case "enter":
		if m.input != "" {
			m.commit()
			return m, nil
		}
		return m.submit()
	}

	if m.cursor == 0 {
		switch key {
		case "m":
			m.setGender(features.GenderMale)
		case "f":
			m.setGender(features.GenderFemale)
		}
		return m, nil
	}

	if isNumberKey(key) && len(m.input) < maxInputLen {
		m.input += key
	}
	return m, nil
}

func isNumberKey(key string) bool {
	return len(key) == 1 && (key[0] >= '0' && key[0] <= '9' || key[0] == '.')
}

func (m *Model) setGender(g features.Gender) {
	if m.gender != g {
		m.gender = g
		m.result = nil
	}
}

// adjust steps the focused widget, clamping at its bounds.
func (m *Model) adjust(dir float64, big bool) {
	m.input = ""
	f := m.focusedField()
	if f == nil {
		if m.gender == features.GenderMale {
			m.setGender(features.GenderFemale)
		} else {
			m.setGender(features.GenderMale)
		}
		return
	}

	step := f.step
	if big {
		step = f.bigStep
	}
	before := f.value
	f.set(f.value + dir*step)
	if f.value != before {
		m.result = nil
	}
}

// commit applies typed digits to the focused field.
func (m *Model) commit() {
	if m.input == "" {
		return
	}
	raw := m.input
	m.input = ""

	f := m.focusedField()
	if f == nil {
		return
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		m.err = fmt.Errorf("invalid %s: %q", f.label, raw)
		return
	}
	m.err = nil
	f.set(v)
	m.result = nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.loading || m.config.Assessor == nil {
		return m, nil
	}

	rec, err := m.record()
	if err != nil {
		m.err = err
		return m, nil
	}

	m.loading = true
	m.err = nil
	return m, predict(m.config.Assessor, rec)
}
