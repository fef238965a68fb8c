package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spacearound404/planboard/internal/config"
	"github.com/spacearound404/planboard/internal/model"
)

// settingsWeekdays is the display order: Monday first, like the grids.
var settingsWeekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// settingsModel edits the per-weekday capacity ceilings and the
// assistant fields. Hours are pushed to the backend on save; the
// assistant model and token only live in the local config.
type settingsModel struct {
	deps Deps

	settings model.UserSettings
	loaded   bool
	dirty    bool

	cursor     int // 0..6 weekdays, 7 model, 8 token
	modelInput textinput.Model
	tokenInput textinput.Model
}

func newSettingsModel(deps Deps) settingsModel {
	mi := textinput.New()
	mi.Placeholder = "model name"
	mi.CharLimit = 64
	mi.Width = 24
	mi.SetValue(deps.Config.AssistantModel)

	ti := textinput.New()
	ti.Placeholder = "api token"
	ti.CharLimit = 256
	ti.Width = 24
	ti.EchoMode = textinput.EchoPassword
	ti.SetValue(deps.Config.AssistantToken)

	return settingsModel{deps: deps, modelInput: mi, tokenInput: ti}
}

func (m settingsModel) load() tea.Cmd {
	return m.deps.loadSettings
}

func (m *settingsModel) setWidth(w int) {
	w -= 12
	if w < 16 {
		w = 16
	}
	if w > 48 {
		w = 48
	}
	m.modelInput.Width = w
	m.tokenInput.Width = w
}

func (m *settingsModel) setData(msg settingsDataMsg) {
	// Local unsaved edits win over a background refresh.
	if !m.dirty {
		m.settings = msg.settings
	}
	m.loaded = true
}

func (m *settingsModel) syncFocus() tea.Cmd {
	m.modelInput.Blur()
	m.tokenInput.Blur()
	switch m.cursor {
	case 7:
		return m.modelInput.Focus()
	case 8:
		return m.tokenInput.Focus()
	}
	return nil
}

func (m settingsModel) Update(msg tea.Msg) (settingsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := keyMsg.String()
	onInputs := m.cursor >= 7

	switch key {
	case "down", "tab":
		if m.cursor < 8 {
			m.cursor++
		}
		return m, m.syncFocus()
	case "up", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, m.syncFocus()
	case "enter":
		m.deps.Config.AssistantModel = strings.TrimSpace(m.modelInput.Value())
		m.deps.Config.AssistantToken = strings.TrimSpace(m.tokenInput.Value())
		if err := config.Save(m.deps.Config); err != nil {
			return m, func() tea.Msg { return errMsg{err} }
		}
		m.dirty = false
		return m, m.deps.saveSettings(m.settings)
	}

	if !onInputs {
		adjust := func(delta float64) {
			wd := settingsWeekdays[m.cursor]
			h := m.settings.HoursFor(wd) + delta
			if h < 0 {
				h = 0
			}
			if h > 24 {
				h = 24
			}
			m.settings.SetHoursFor(wd, h)
			m.dirty = true
		}
		switch key {
		case "j":
			if m.cursor < 8 {
				m.cursor++
			}
			return m, m.syncFocus()
		case "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, m.syncFocus()
		case "left", "-":
			adjust(-1)
			return m, nil
		case "right", "+":
			adjust(1)
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.cursor {
	case 7:
		m.modelInput, cmd = m.modelInput.Update(msg)
	case 8:
		m.tokenInput, cmd = m.tokenInput.Update(msg)
	}
	return m, cmd
}

func (m settingsModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Settings"))
	sb.WriteString("\n\n")
	sb.WriteString(sectionStyle.Render("Capacity hours per day"))
	sb.WriteString("\n")

	if !m.loaded {
		sb.WriteString(statusStyle.Render("loading..."))
		return sb.String()
	}

	for i, wd := range settingsWeekdays {
		marker := "  "
		if m.cursor == i {
			marker = "> "
		}
		sb.WriteString(fmt.Sprintf("%s%-10s ‹ %2.0fh ›\n", marker, wd.String(), m.settings.HoursFor(wd)))
	}

	sb.WriteString("\n" + sectionStyle.Render("Assistant") + "\n")
	marker := "  "
	if m.cursor == 7 {
		marker = "> "
	}
	sb.WriteString(marker + fieldLabelSt.Render("model ") + " " + m.modelInput.View() + "\n")
	marker = "  "
	if m.cursor == 8 {
		marker = "> "
	}
	sb.WriteString(marker + fieldLabelSt.Render("token ") + " " + m.tokenInput.View() + "\n")

	if m.dirty {
		sb.WriteString("\n" + confirmStyle.Render("unsaved changes"))
	}
	sb.WriteString("\n" + statusStyle.Render("←/→: adjust hours • enter: save"))
	return sb.String()
}
