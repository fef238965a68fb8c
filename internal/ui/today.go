package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spacearound404/planboard/internal/capacity"
	"github.com/spacearound404/planboard/internal/model"
	"github.com/spacearound404/planboard/internal/prompt"
)

// openSheetMsg asks the top-level model to overlay the task sheet.
type openSheetMsg struct{ sheet sheetModel }

func openSheet(s sheetModel) tea.Cmd {
	return func() tea.Msg { return openSheetMsg{sheet: s} }
}

type todayEntry struct {
	header string
	task   model.Task
}

// todayModel is the landing page: the day's capacity bar plus the
// Overdue / Today / Upcoming task sections.
type todayModel struct {
	deps Deps

	tasks    []model.Task
	events   []model.Task
	settings model.UserSettings
	projects []model.Project

	entries []todayEntry
	cursor  int
	confirm bool
	width   int
}

func newTodayModel(deps Deps) todayModel {
	return todayModel{deps: deps}
}

func (m todayModel) load() tea.Cmd {
	return m.deps.loadToday
}

func (m *todayModel) setWidth(w int) { m.width = w }

func (m *todayModel) setData(msg todayDataMsg) {
	m.tasks = msg.tasks
	m.events = msg.events
	m.settings = msg.settings
	m.projects = msg.projects
	m.rebuild()
}

// rebuild flattens the three sections into a cursor-addressable list.
// Each section is sorted by deadline, then priority, then importance;
// today's events are interleaved by start time ahead of the tasks.
func (m *todayModel) rebuild() {
	now := m.deps.Now()

	var overdue, today, upcoming []model.Task
	for _, t := range m.tasks {
		if t.IsEvent() {
			continue
		}
		switch {
		case t.IsOverdue(now):
			overdue = append(overdue, t)
		case t.IsDueOn(now):
			today = append(today, t)
		default:
			upcoming = append(upcoming, t)
		}
	}
	model.SortTasks(overdue)
	model.SortTasks(today)
	model.SortTasks(upcoming)

	events := make([]model.Task, 0, len(m.events))
	for _, e := range m.events {
		if e.StartsOn(now) {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventStart.Before(*events[j].EventStart)
	})

	m.entries = m.entries[:0]
	add := func(header string, tasks []model.Task) {
		if len(tasks) == 0 {
			return
		}
		m.entries = append(m.entries, todayEntry{header: fmt.Sprintf("%s (%d)", header, len(tasks))})
		for _, t := range tasks {
			m.entries = append(m.entries, todayEntry{task: t})
		}
	}
	add("Overdue", overdue)
	add("Today", append(events, today...))
	add("Upcoming", upcoming)

	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.snapCursor(1)
}

// snapCursor moves the cursor off header rows in the given direction.
func (m *todayModel) snapCursor(dir int) {
	for m.cursor >= 0 && m.cursor < len(m.entries) && m.entries[m.cursor].header != "" {
		m.cursor += dir
	}
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		m.cursor = 0
		if len(m.entries) > 1 {
			m.cursor = 1
		}
	}
}

func (m todayModel) selected() (model.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) || m.entries[m.cursor].header != "" {
		return model.Task{}, false
	}
	return m.entries[m.cursor].task, true
}

func (m todayModel) projectColor(id *int) string {
	if id == nil {
		return ""
	}
	for _, p := range m.projects {
		if p.ID == *id {
			return p.Color
		}
	}
	return ""
}

func (m todayModel) Update(msg tea.Msg) (todayModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.confirm {
		switch keyMsg.String() {
		case "y":
			m.confirm = false
			if t, ok := m.selected(); ok {
				return m, m.deps.deleteTask(t.ID, "task deleted")
			}
		case "n", "esc":
			m.confirm = false
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
			m.snapCursor(1)
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.snapCursor(-1)
		}
	case "a", "n":
		day := m.deps.Now()
		s := newTaskSheet(m.projects, &day)
		s.setContext(m.tasks, m.events, m.settings, day)
		return m, openSheet(s)
	case "e":
		if t, ok := m.selected(); ok {
			s := editSheet(m.projects, t)
			s.setContext(m.tasks, m.events, m.settings, m.deps.Now())
			return m, openSheet(s)
		}
	case "enter", "x":
		if t, ok := m.selected(); ok && !t.IsEvent() {
			return m, m.deps.deleteTask(t.ID, "task completed")
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.confirm = true
		}
	case "y":
		if t, ok := m.selected(); ok && !t.IsEvent() {
			if err := clipboard.WriteAll(prompt.Breakdown(t)); err != nil {
				return m, func() tea.Msg { return errMsg{err} }
			}
			return m, func() tea.Msg { return statusMsg("breakdown prompt copied") }
		}
	}
	return m, nil
}

// capacityBar renders the day's load as a labelled meter.
func capacityBar(load capacity.Load, width int) string {
	if width < 10 {
		width = 10
	}
	label := fmt.Sprintf(" %.0f%% (%.1f/%.1fh)", load.Percent, load.UsedHours, load.LimitHours)
	if load.LimitHours <= 0 {
		return statusStyle.Render("no capacity limit set for this day")
	}
	filled := int(load.Percent / 100 * float64(width))
	bar := strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
	return capacityStyleFor(load.Percent).Render(bar + label)
}

func (m todayModel) View() string {
	now := m.deps.Now()
	load := capacity.DayLoad(now, m.tasks, m.events, m.settings)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(now.Format("Monday, 2 January")))
	sb.WriteString("\n")
	barWidth := 20
	if m.width > 52 {
		barWidth = m.width - 32
		if barWidth > 40 {
			barWidth = 40
		}
	}
	sb.WriteString(capacityBar(load, barWidth))
	sb.WriteString("\n\n")

	if len(m.entries) == 0 {
		sb.WriteString(statusStyle.Render("Nothing planned. Press a to add a task."))
		return sb.String()
	}

	for i, e := range m.entries {
		if e.header != "" {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(sectionStyle.Render(e.header))
			sb.WriteString("\n")
			continue
		}
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		line := taskItem{Task: e.task, ProjectColor: m.projectColor(e.task.ProjectID)}.Title()
		if e.task.IsEvent() && e.task.EventStart != nil && e.task.EventEnd != nil {
			line = fmt.Sprintf("%s–%s %s",
				e.task.EventStart.Format("15:04"), e.task.EventEnd.Format("15:04"), e.task.Title)
		}
		sb.WriteString(marker + line + "\n")
	}

	if m.confirm {
		if t, ok := m.selected(); ok {
			sb.WriteString("\n" + confirmStyle.Render(fmt.Sprintf("Delete %q? y/n", t.Title)))
		}
	}
	sb.WriteString("\n" + statusStyle.Render("a: add • e: edit • x: complete • d: delete • y: breakdown prompt"))
	return sb.String()
}
