package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spacearound404/planboard/internal/capacity"
	"github.com/spacearound404/planboard/internal/model"
)

// openDayMsg asks the top-level model to switch to the day grid.
type openDayMsg struct{ day time.Time }

const (
	monthWeeks = 6
	monthCellW = 10
	maxDayDots = 4
)

// monthModel renders a Monday-first 6x7 calendar with per-day task
// dots and capacity percentages, plus a month scroller strip.
type monthModel struct {
	deps Deps

	month    time.Time // first day of the visible month
	selected time.Time
	tasks    []model.Task
	events   []model.Task
	settings model.UserSettings
	loaded   bool
}

func newMonthModel(deps Deps) monthModel {
	now := deps.Now()
	return monthModel{
		deps:     deps,
		month:    time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		selected: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
	}
}

func (m monthModel) load() tea.Cmd {
	return m.deps.loadMonth(m.month)
}

func (m *monthModel) setData(msg monthDataMsg) {
	if !msg.month.Equal(m.month) {
		return
	}
	m.tasks = msg.tasks
	m.events = msg.events
	m.settings = msg.settings
	m.loaded = true
}

// gridStart is the Monday on or before the first of the month.
func (m monthModel) gridStart() time.Time {
	offset := (int(m.month.Weekday()) + 6) % 7
	return m.month.AddDate(0, 0, -offset)
}

func (m *monthModel) setSelected(day time.Time) tea.Cmd {
	m.selected = day
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	if !first.Equal(m.month) {
		m.month = first
		m.loaded = false
		return m.load()
	}
	return nil
}

func (m *monthModel) shiftMonth(months int) tea.Cmd {
	return m.setSelected(m.selected.AddDate(0, months, 0))
}

func (m monthModel) dayStats(day time.Time) (taskCount, eventCount int, load capacity.Load) {
	for _, t := range m.tasks {
		if !t.IsEvent() && t.IsDueOn(day) {
			taskCount++
		}
	}
	for _, e := range m.events {
		if e.StartsOn(day) {
			eventCount++
		}
	}
	load = capacity.DayLoad(day, m.tasks, m.events, m.settings)
	return taskCount, eventCount, load
}

func (m monthModel) Update(msg tea.Msg) (monthModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "left", "h":
		return m, m.setSelected(m.selected.AddDate(0, 0, -1))
	case "right", "l":
		return m, m.setSelected(m.selected.AddDate(0, 0, 1))
	case "up", "k":
		return m, m.setSelected(m.selected.AddDate(0, 0, -7))
	case "down", "j":
		return m, m.setSelected(m.selected.AddDate(0, 0, 7))
	case "[", "pgup":
		return m, m.shiftMonth(-1)
	case "]", "pgdown":
		return m, m.shiftMonth(1)
	case "t":
		return m, m.setSelected(m.deps.Now())
	case "enter":
		day := m.selected
		return m, func() tea.Msg { return openDayMsg{day: day} }
	case "a":
		day := m.selected
		s := newTaskSheet(nil, &day)
		s.setContext(m.tasks, m.events, m.settings, m.deps.Now())
		return m, openSheet(s)
	}
	return m, nil
}

// monthScroller renders the strip of surrounding months with the
// visible one centered and highlighted.
func (m monthModel) monthScroller() string {
	var parts []string
	for off := -2; off <= 2; off++ {
		mo := m.month.AddDate(0, off, 0)
		label := mo.Format("Jan")
		if mo.Month() == time.January || off == 0 {
			label = mo.Format("Jan 06")
		}
		if off == 0 {
			parts = append(parts, tabActiveStyle.Render(label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(label))
		}
	}
	return "‹ " + strings.Join(parts, " ") + " ›"
}

func (m monthModel) View() string {
	now := m.deps.Now()
	today := now.Format(model.DateLayout)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.month.Format("January 2006")))
	sb.WriteString("   " + m.monthScroller())
	sb.WriteString("\n\n")

	for _, wd := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		sb.WriteString(sectionStyle.Render(padRight(wd, monthCellW)))
	}
	sb.WriteString("\n")

	start := m.gridStart()
	for week := 0; week < monthWeeks; week++ {
		var top, bottom []string
		for dow := 0; dow < 7; dow++ {
			day := start.AddDate(0, 0, week*7+dow)
			inMonth := day.Month() == m.month.Month()
			taskCount, eventCount, load := m.dayStats(day)

			num := fmt.Sprintf("%2d", day.Day())
			switch {
			case day.Format(model.DateLayout) == today:
				num = todayMarkSt.Render(num)
			case !inMonth:
				num = dimStyle.Render(num)
			}
			if day.Equal(m.selected) {
				num = "[" + num + "]"
			} else {
				num = " " + num + " "
			}
			top = append(top, padANSI(num, monthCellW))

			detail := ""
			if total := taskCount + eventCount; total > 0 {
				dots := total
				if dots > maxDayDots {
					dots = maxDayDots
				}
				detail = strings.Repeat("•", dots) + fmt.Sprintf(" %d", total)
				if !inMonth {
					detail = dimStyle.Render(detail)
				}
			}
			if load.LimitHours > 0 && load.UsedHours > 0 {
				detail = padANSI(detail, monthCellW-5) +
					capacityStyleFor(load.Percent).Render(fmt.Sprintf("%3.0f%%", load.Percent))
			}
			bottom = append(bottom, padANSI(detail, monthCellW))
		}
		sb.WriteString(strings.Join(top, ""))
		sb.WriteString("\n")
		sb.WriteString(strings.Join(bottom, ""))
		sb.WriteString("\n")
	}

	sb.WriteString("\n" + statusStyle.Render("arrows: move • [/]: month • enter: open day • a: add task • t: today"))
	return sb.String()
}

// padANSI pads by printable width, ignoring ANSI sequences.
func padANSI(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
