package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spacearound404/planboard/internal/bus"
	"github.com/spacearound404/planboard/internal/model"
	"github.com/spacearound404/planboard/internal/selection"
)

type page int

const (
	pageToday page = iota
	pageDay
	pageMonth
	pageProjects
	pageSettings
)

var pageTitles = []string{"Today", "Day", "Month", "Projects", "Settings"}

// Frame geometry: app padding plus the tab bar and its blank line.
const (
	contentOffsetY = 3
	contentOffsetX = 2
)

// Model is the top-level BubbleTea model for the planboard TUI.
type Model struct {
	deps Deps

	page     page
	today    todayModel
	day      dayModel
	month    monthModel
	projects projectsModel
	settings settingsModel

	sheet *sheetModel

	busCh  chan string
	status string
	err    error
	width  int
	height int
}

// NewModel wires the pages and subscribes to change notifications.
// Topics flow through busCh into the program's message loop so cache
// revalidation goroutines never touch the model directly.
func NewModel(deps Deps) Model {
	ch := make(chan string, 16)
	notify := func(topic string) {
		select {
		case ch <- topic:
		default:
		}
	}
	deps.Bus.Subscribe(bus.TopicTasksChanged, notify)
	deps.Bus.Subscribe(bus.TopicProjectsChanged, notify)

	return Model{
		deps:     deps,
		today:    newTodayModel(deps),
		day:      newDayModel(deps),
		month:    newMonthModel(deps),
		projects: newProjectsModel(deps),
		settings: newSettingsModel(deps),
		busCh:    ch,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.today.load(), waitForBus(m.busCh))
}

// typing reports whether a free-text input currently owns the
// keyboard, in which case global shortcuts must not fire.
func (m Model) typing() bool {
	if m.sheet != nil {
		return true
	}
	switch m.page {
	case pageProjects:
		return m.projects.creating
	case pageSettings:
		return m.settings.cursor >= 7
	}
	return false
}

func (m Model) reloadActive() tea.Cmd {
	switch m.page {
	case pageToday:
		return m.today.load()
	case pageDay:
		return m.day.load()
	case pageMonth:
		return m.month.load()
	case pageProjects:
		return m.projects.load()
	case pageSettings:
		return m.settings.load()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		cw := msg.Width - h
		m.day.width = cw
		m.day.height = msg.Height - v - 2
		m.day.offsetY = contentOffsetY
		m.day.offsetX = contentOffsetX
		m.today.setWidth(cw)
		m.projects.setWidth(cw)
		m.settings.setWidth(cw)
		if m.sheet != nil {
			m.sheet.setSize(cw)
		}
		return m, nil

	case busNotifyMsg:
		return m, tea.Batch(m.reloadActive(), waitForBus(m.busCh))

	case statusMsg:
		m.status = string(msg)
		m.err = nil
		return m, nil

	case errMsg:
		m.err = msg.error
		return m, nil

	case todayDataMsg:
		m.today.setData(msg)
		return m, nil
	case dayDataMsg:
		m.day.setData(msg)
		return m, nil
	case monthDataMsg:
		m.month.setData(msg)
		return m, nil
	case projectsDataMsg:
		m.projects.setData(msg)
		return m, nil
	case settingsDataMsg:
		m.settings.setData(msg)
		return m, nil

	case openSheetMsg:
		s := msg.sheet
		if m.width > 0 {
			h, _ := appStyle.GetFrameSize()
			s.setSize(m.width - h)
		}
		m.sheet = &s
		return m, nil

	case openDayMsg:
		m.page = pageDay
		cmd := m.day.gotoDay(msg.day)
		return m, cmd
	}

	if m.sheet != nil {
		return m.updateSheet(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if !m.typing() {
				return m, tea.Quit
			}
		case "1", "2", "3", "4", "5":
			if !m.typing() {
				return m.switchPage(page(keyMsg.String()[0] - '1'))
			}
		}
	}

	return m.updatePage(msg)
}

func (m Model) switchPage(p page) (tea.Model, tea.Cmd) {
	if p == m.page {
		return m, nil
	}
	if m.page == pageDay {
		// Leaving the day grid abandons any pending selection.
		m.day.timerSeq++
		m.day.machine.Transition(selection.Reset{})
	}
	m.page = p
	m.status = ""
	m.err = nil
	return m, m.reloadActive()
}

func (m Model) updateSheet(msg tea.Msg) (tea.Model, tea.Cmd) {
	sheet, cmd, result := m.sheet.Update(msg)
	switch result {
	case sheetOpen:
		m.sheet = &sheet
		return m, cmd

	case sheetCancelled:
		if sheet.fromSelection {
			// Closing the event form without saving discards the draft
			// interval along with it.
			m.day.timerSeq++
			m.day.machine.Transition(selection.Dismiss{})
		}
		m.sheet = nil
		return m, nil

	case sheetSubmitted:
		t, err := sheet.Task()
		if err != nil {
			sheet.err = err
			m.sheet = &sheet
			return m, nil
		}
		m.sheet = nil

		var mutate tea.Cmd
		switch {
		case sheet.editing != nil:
			mutate = m.deps.updateTask(sheet.editing.ID, t)
		case t.Kind == model.KindEvent:
			mutate = m.deps.createEvent(t)
			m.day.timerSeq++
			m.day.machine.Transition(selection.Reset{})
		default:
			mutate = m.deps.createTask(t)
		}
		return m, tea.Batch(mutate, m.reloadActive())
	}
	return m, cmd
}

func (m Model) updatePage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.page {
	case pageToday:
		m.today, cmd = m.today.Update(msg)
	case pageDay:
		m.day, cmd = m.day.Update(msg)
	case pageMonth:
		m.month, cmd = m.month.Update(msg)
	case pageProjects:
		m.projects, cmd = m.projects.Update(msg)
	case pageSettings:
		m.settings, cmd = m.settings.Update(msg)
	}
	return m, cmd
}

func (m Model) tabBar() string {
	var tabs []string
	for i, title := range pageTitles {
		if page(i) == m.page {
			tabs = append(tabs, tabActiveStyle.Render(title))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(title))
		}
	}
	return strings.Join(tabs, " ") + "  " + statusStyle.Render("1-5: switch • q: quit")
}

func (m Model) View() string {
	var body string
	if m.sheet != nil {
		body = m.sheet.View()
	} else {
		switch m.page {
		case pageToday:
			body = m.today.View()
		case pageDay:
			body = m.day.View()
		case pageMonth:
			body = m.month.View()
		case pageProjects:
			body = m.projects.View()
		case pageSettings:
			body = m.settings.View()
		}
	}

	footer := ""
	if m.err != nil {
		footer = "\n" + errorStyle.Render("Error: "+m.err.Error())
	} else if m.status != "" {
		footer = "\n" + statusStyle.Render(m.status)
	}

	return appStyle.Render(m.tabBar() + "\n\n" + body + footer)
}
