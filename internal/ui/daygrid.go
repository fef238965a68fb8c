package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spacearound404/planboard/internal/capacity"
	"github.com/spacearound404/planboard/internal/layout"
	"github.com/spacearound404/planboard/internal/model"
	"github.com/spacearound404/planboard/internal/selection"
)

// Screen geometry of the day grid. The page sits under the tab bar
// inside the app frame, and three header lines precede the grid.
const (
	dayHeaderRows = 3
	hourLabelCols = 7
)

// Swipe thresholds for horizontal day navigation with the mouse.
const (
	swipeMinCols    = 6
	swipeMaxElapsed = 600 * time.Millisecond
)

// longPressMsg delivers the selection gesture's long-press timer. seq
// guards against stale ticks: every arm/disarm bumps the counter and
// ticks carrying an old value are dropped.
type longPressMsg struct{ seq int }

// dayModel renders one day as a 24-hour grid with events placed into
// overlap columns, and drives the interval-selection gesture.
type dayModel struct {
	deps Deps

	day      time.Time
	events   []model.Task
	tasks    []model.Task
	settings model.UserSettings
	projects []model.Project
	placed   []layout.Placed
	loaded   bool

	machine  *selection.Machine
	timerSeq int

	scrollRow    int
	width        int
	height       int
	offsetY      int // screen row where the page content starts
	offsetX      int
	autoScrolled bool

	pressX  int
	pressY  int
	pressAt time.Time
}

func newDayModel(deps Deps) dayModel {
	day := deps.Now()
	return dayModel{
		deps:    deps,
		day:     time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()),
		machine: selection.New(float64(deps.Config.HourRows)),
	}
}

func (m dayModel) hourRows() int { return m.deps.Config.HourRows }

func (m dayModel) totalRows() int { return 24 * m.hourRows() }

func (m dayModel) minutesPerRow() int { return 60 / m.hourRows() }

func (m dayModel) gridRows() int {
	rows := m.height - dayHeaderRows
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m dayModel) load() tea.Cmd {
	return m.deps.loadDay(m.day)
}

func (m *dayModel) setData(msg dayDataMsg) {
	if msg.day.Format(model.DateLayout) != m.day.Format(model.DateLayout) {
		return
	}
	m.events = msg.events
	m.tasks = msg.tasks
	m.settings = msg.settings
	m.projects = msg.projects
	m.placed = layout.Assign(msg.events)
	m.loaded = true
	if !m.autoScrolled {
		m.autoScroll()
		m.autoScrolled = true
	}
}

// autoScroll brings the most relevant row into view once per day
// visit: the current time on today, otherwise the first event.
func (m *dayModel) autoScroll() {
	now := m.deps.Now()
	target := -1
	if m.day.Format(model.DateLayout) == now.Format(model.DateLayout) {
		target = (now.Hour()*60 + now.Minute()) / m.minutesPerRow()
	} else if len(m.placed) > 0 {
		first := m.placed[0]
		target = minuteOfDay(*first.Event.EventStart) / m.minutesPerRow()
	}
	if target < 0 {
		return
	}
	m.scrollTo(target - 2)
}

func (m *dayModel) scrollTo(row int) {
	max := m.totalRows() - m.gridRows()
	if max < 0 {
		max = 0
	}
	if row > max {
		row = max
	}
	if row < 0 {
		row = 0
	}
	m.scrollRow = row
}

func (m *dayModel) gotoDay(day time.Time) tea.Cmd {
	m.day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	m.loaded = false
	m.autoScrolled = false
	m.timerSeq++
	m.machine.Transition(selection.Reset{})
	return m.load()
}

// applyEffect performs the machine's requested side effect. Timers are
// modelled with tea.Tick plus a sequence number; pointer capture has no
// terminal equivalent beyond the machine consuming motion itself.
func (m *dayModel) applyEffect(eff selection.Effect) tea.Cmd {
	switch eff {
	case selection.EffectStartTimer:
		m.timerSeq++
		seq := m.timerSeq
		return tea.Tick(selection.LongPress, func(time.Time) tea.Msg {
			return longPressMsg{seq: seq}
		})
	case selection.EffectStopTimer:
		m.timerSeq++
	}
	return nil
}

// gridY converts a screen row to a machine coordinate (grid rows from
// midnight, fractional not needed at cell resolution).
func (m dayModel) gridY(screenY int) float64 {
	return float64(screenY - m.offsetY - dayHeaderRows + m.scrollRow)
}

func (m dayModel) onGrid(msg tea.MouseMsg) bool {
	return msg.Y >= m.offsetY+dayHeaderRows && msg.X >= m.offsetX
}

// edgeAt reports whether the grid row under y holds a handle of the
// committed selection.
func (m dayModel) edgeAt(y float64) selection.Edge {
	iv, err := m.machine.Interval()
	if err != nil {
		return selection.EdgeNone
	}
	row := int(y)
	if row == iv.StartMinutes/m.minutesPerRow() {
		return selection.EdgeTop
	}
	if row == (iv.EndMinutes-1)/m.minutesPerRow() {
		return selection.EdgeBottom
	}
	return selection.EdgeNone
}

func (m dayModel) Update(msg tea.Msg) (dayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case longPressMsg:
		if msg.seq != m.timerSeq {
			return m, nil
		}
		eff := m.machine.Transition(selection.TimerFired{})
		return m, m.applyEffect(eff)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m dayModel) updateMouse(msg tea.MouseMsg) (dayModel, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if !m.machine.Active() {
			m.scrollTo(m.scrollRow - 1)
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if !m.machine.Active() {
			m.scrollTo(m.scrollRow + 1)
		}
		return m, nil
	}

	y := m.gridY(msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.onGrid(msg) {
			return m, nil
		}
		m.pressX, m.pressY = msg.X, msg.Y
		m.pressAt = m.deps.Now()
		if edge := m.edgeAt(y); edge != selection.EdgeNone {
			eff := m.machine.Transition(selection.PressResize{Edge: edge})
			return m, m.applyEffect(eff)
		}
		eff := m.machine.Transition(selection.Press{Y: y, Day: m.day})
		return m, m.applyEffect(eff)

	case tea.MouseActionMotion:
		eff := m.machine.Transition(selection.Move{Y: y})
		return m, m.applyEffect(eff)

	case tea.MouseActionRelease:
		eff := m.machine.Transition(selection.Release{})
		cmd := m.applyEffect(eff)
		if eff == selection.EffectCommit {
			return m, cmd
		}
		// A fast, mostly horizontal drag is day navigation.
		dx, dy := msg.X-m.pressX, msg.Y-m.pressY
		if absInt(dx) >= swipeMinCols && absInt(dx) > absInt(dy) &&
			m.deps.Now().Sub(m.pressAt) < swipeMaxElapsed && !m.machine.Active() {
			if dx < 0 {
				return m, m.gotoDay(m.day.AddDate(0, 0, 1))
			}
			return m, m.gotoDay(m.day.AddDate(0, 0, -1))
		}
		return m, cmd
	}
	return m, nil
}

func (m dayModel) updateKeys(msg tea.KeyMsg) (dayModel, tea.Cmd) {
	// While a selection awaits confirmation, enter opens the sheet and
	// esc discards the draft.
	if m.machine.State() == selection.Committing {
		switch msg.String() {
		case "enter":
			iv, err := m.machine.Interval()
			if err != nil {
				return m, nil
			}
			s := newEventSheet(m.projects, iv)
			s.setContext(m.tasks, m.events, m.settings, m.deps.Now())
			return m, openSheet(s)
		case "esc":
			m.timerSeq++
			m.machine.Transition(selection.Dismiss{})
			return m, nil
		}
	}

	switch msg.String() {
	case "up", "k":
		m.scrollTo(m.scrollRow - 1)
	case "down", "j":
		m.scrollTo(m.scrollRow + 1)
	case "pgup":
		m.scrollTo(m.scrollRow - m.gridRows())
	case "pgdown":
		m.scrollTo(m.scrollRow + m.gridRows())
	case "left", "h":
		return m, m.gotoDay(m.day.AddDate(0, 0, -1))
	case "right", "l":
		return m, m.gotoDay(m.day.AddDate(0, 0, 1))
	case "t":
		return m, m.gotoDay(m.deps.Now())
	case "n":
		vis := m.visibility()
		if vis.NextMinutes >= 0 {
			m.scrollTo(vis.NextMinutes / m.minutesPerRow())
		}
	case "p":
		vis := m.visibility()
		if vis.PrevMinutes >= 0 {
			m.scrollTo(vis.PrevMinutes / m.minutesPerRow())
		}
	case "a":
		day := m.day
		s := newTaskSheet(m.projects, &day)
		s.setContext(m.tasks, m.events, m.settings, m.deps.Now())
		return m, openSheet(s)
	case "y":
		if err := clipboard.WriteAll(m.agenda()); err != nil {
			return m, func() tea.Msg { return errMsg{err} }
		}
		return m, func() tea.Msg { return statusMsg("day agenda copied") }
	case "esc":
		m.timerSeq++
		m.machine.Transition(selection.Reset{})
	}
	return m, nil
}

func (m dayModel) visibility() layout.Visibility {
	return layout.Visible(m.placed, float64(m.scrollRow), float64(m.gridRows()), float64(m.hourRows()))
}

// agenda is the plain-text export of the day for the clipboard.
func (m dayModel) agenda() string {
	var sb strings.Builder
	sb.WriteString(m.day.Format("Monday, 2 January 2006") + "\n")
	sorted := make([]layout.Placed, len(m.placed))
	copy(sorted, m.placed)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Event.EventStart.Before(*sorted[j].Event.EventStart)
	})
	for _, p := range sorted {
		sb.WriteString(fmt.Sprintf("%s–%s %s\n",
			p.Event.EventStart.Format("15:04"), p.Event.EventEnd.Format("15:04"), p.Event.Title))
	}
	for _, t := range m.tasks {
		if !t.IsEvent() && t.IsDueOn(m.day) {
			sb.WriteString(fmt.Sprintf("due: %s\n", t.Title))
		}
	}
	return sb.String()
}

func (m dayModel) projectColor(id *int) string {
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

func (m dayModel) View() string {
	load := capacity.DayLoad(m.day, m.tasks, m.events, m.settings)
	vis := m.visibility()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.day.Format("Monday, 2 January 2006")))
	sb.WriteString("\n")
	sb.WriteString(capacityBar(load, 20))
	sb.WriteString("\n")
	indicator := ""
	if vis.Above > 0 {
		indicator += fmt.Sprintf("↑ %d earlier (p)  ", vis.Above)
	}
	if vis.Below > 0 {
		indicator += fmt.Sprintf("↓ %d later (n)", vis.Below)
	}
	if m.machine.State() == selection.Committing {
		if iv, err := m.machine.Interval(); err == nil {
			indicator = fmt.Sprintf("new event %s–%s  enter: confirm • esc: discard • drag edges to resize",
				iv.Start().Format("15:04"), iv.End().Format("15:04"))
		}
	}
	sb.WriteString(statusStyle.Render(indicator))
	sb.WriteString("\n")

	sb.WriteString(m.renderGrid())
	return sb.String()
}

func (m dayModel) renderGrid() string {
	contentW := m.width - hourLabelCols
	if contentW < 10 {
		contentW = 10
	}
	tracks := layout.Columns(m.placed)
	if tracks < 1 {
		tracks = 1
	}
	trackW := contentW / tracks
	if trackW < 4 {
		trackW = 4
		tracks = contentW / trackW
		if tracks < 1 {
			tracks = 1
		}
	}

	now := m.deps.Now()
	isToday := m.day.Format(model.DateLayout) == now.Format(model.DateLayout)
	nowRow := -1
	if isToday {
		nowRow = (now.Hour()*60 + now.Minute()) / m.minutesPerRow()
	}

	iv, ivErr := m.machine.Interval()
	hasSel := ivErr == nil

	var rows []string
	last := m.scrollRow + m.gridRows()
	if last > m.totalRows() {
		last = m.totalRows()
	}
	for row := m.scrollRow; row < last; row++ {
		startMin := row * m.minutesPerRow()
		label := strings.Repeat(" ", hourLabelCols-2)
		if startMin%60 == 0 {
			label = fmt.Sprintf("%02d:00", startMin/60)
		}
		line := hourLabelSt.Render(label) + gridLineSt.Render("│")

		switch {
		case hasSel && startMin >= iv.StartMinutes && startMin < iv.EndMinutes:
			line += m.renderSelectionRow(iv, startMin, contentW)
		case nowRow == row:
			line += nowLineStyle.Render(strings.Repeat("─", contentW))
		default:
			line += m.renderEventRow(row, startMin, tracks, trackW)
		}
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

func (m dayModel) renderSelectionRow(iv selection.Interval, startMin, width int) string {
	firstRow := iv.StartMinutes / m.minutesPerRow()
	lastRow := (iv.EndMinutes - 1) / m.minutesPerRow()
	row := startMin / m.minutesPerRow()
	switch row {
	case firstRow:
		text := " ▲ " + iv.Start().Format("15:04")
		return selectionSt.Render(padRight(text, width))
	case lastRow:
		text := " ▼ " + iv.End().Format("15:04")
		return selectionSt.Render(padRight(text, width))
	default:
		return selectionSt.Render(strings.Repeat(" ", width))
	}
}

func (m dayModel) renderEventRow(row, startMin, tracks, trackW int) string {
	var cells []string
	for track := 0; track < tracks; track++ {
		cell := gridLineSt.Render(strings.Repeat("·", trackW))
		if startMin%60 != 0 {
			cell = strings.Repeat(" ", trackW)
		}
		for _, p := range m.placed {
			if p.Column != track {
				continue
			}
			sMin := minuteOfDay(*p.Event.EventStart)
			eMin := minuteOfDay(*p.Event.EventEnd)
			if eMin <= sMin {
				eMin = selection.MinutesPerDay
			}
			if startMin < sMin || startMin >= eMin {
				continue
			}
			style := eventCellStyle(m.projectColor(p.Event.ProjectID))
			text := strings.Repeat(" ", trackW)
			firstVisible := sMin/m.minutesPerRow() == row || (row == m.scrollRow && sMin < m.scrollRow*m.minutesPerRow())
			if firstVisible {
				text = padRight(" "+p.Event.Title, trackW)
			}
			cell = style.Render(text)
			break
		}
		cells = append(cells, cell)
	}
	return strings.Join(cells, "")
}

func eventCellStyle(color string) lipgloss.Style {
	if color == "" {
		color = "#BFDBFE"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color(color))
}

func padRight(s string, width int) string {
	if len([]rune(s)) >= width {
		return string([]rune(s)[:width])
	}
	return s + strings.Repeat(" ", width-len([]rune(s)))
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
