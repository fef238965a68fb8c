package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spacearound404/planboard/internal/capacity"
	"github.com/spacearound404/planboard/internal/model"
	"github.com/spacearound404/planboard/internal/selection"
)

// sheetField indexes the focusable rows of the task sheet. Which rows
// exist depends on the current kind.
type sheetField int

const (
	fieldTitle sheetField = iota
	fieldDesc
	fieldKind
	fieldProject
	fieldDate
	fieldDuration
	fieldStart
	fieldEnd
	fieldPriority
	fieldImportance
)

type sheetResult int

const (
	sheetOpen sheetResult = iota
	sheetCancelled
	sheetSubmitted
)

var levelCycle = []model.Level{model.LevelLow, model.LevelMedium, model.LevelHigh}

// sheetModel is the create/edit form for tasks and events. The kind
// toggle switches the visible rows between deadline+duration and
// start+end time.
type sheetModel struct {
	editing *model.Task

	kind       model.Kind
	kindLocked bool

	// fromSelection marks an event sheet opened from a grid gesture;
	// dismissing it must also discard the draft interval.
	fromSelection bool

	title    textinput.Model
	desc     textarea.Model
	date     dateInput
	duration textinput.Model
	start    textinput.Model
	end      textinput.Model

	projects   []model.Project
	projectIdx int // 0 = no project, i>0 = projects[i-1]

	priority   model.Level
	importance model.Level

	focus sheetField
	err   error

	// Context for the capacity preview line.
	tasks    []model.Task
	events   []model.Task
	settings model.UserSettings
	now      time.Time
}

func newSheet(projects []model.Project) sheetModel {
	ti := textinput.New()
	ti.Placeholder = "Title..."
	ti.CharLimit = 256

	ta := textarea.New()
	ta.Placeholder = "Description..."
	ta.CharLimit = 4096
	ta.SetHeight(3)

	dur := textinput.New()
	dur.Placeholder = "1.5"
	dur.CharLimit = 5
	dur.Width = 7

	timeInput := func() textinput.Model {
		t := textinput.New()
		t.Placeholder = "HH:MM"
		t.CharLimit = 5
		t.Width = 7
		return t
	}

	return sheetModel{
		kind:       model.KindTask,
		title:      ti,
		desc:       ta,
		date:       newDateInput(),
		duration:   dur,
		start:      timeInput(),
		end:        timeInput(),
		projects:   projects,
		priority:   model.LevelMedium,
		importance: model.LevelMedium,
	}
}

// newTaskSheet opens an empty task form. day, when non-nil, prefills
// the deadline.
func newTaskSheet(projects []model.Project, day *time.Time) sheetModel {
	s := newSheet(projects)
	if day != nil {
		s.date.SetTime(*day)
	}
	s.focus = fieldTitle
	s.title.Focus()
	return s
}

// newEventSheet opens the form for a freshly selected interval: kind is
// locked to event and the times are prefilled from the gesture.
func newEventSheet(projects []model.Project, iv selection.Interval) sheetModel {
	s := newSheet(projects)
	s.kind = model.KindEvent
	s.kindLocked = true
	s.fromSelection = true
	s.date.SetTime(iv.Day)
	s.start.SetValue(iv.Start().Format("15:04"))
	s.end.SetValue(iv.End().Format("15:04"))
	s.focus = fieldTitle
	s.title.Focus()
	return s
}

// editSheet opens the form prefilled from an existing entity.
func editSheet(projects []model.Project, t model.Task) sheetModel {
	s := newSheet(projects)
	s.editing = &t
	s.kind = t.Kind
	if s.kind == "" {
		s.kind = model.KindTask
	}
	s.kindLocked = true
	s.title.SetValue(t.Title)
	s.desc.SetValue(t.Description)
	s.priority = t.Priority
	s.importance = t.Importance
	if s.priority == "" {
		s.priority = model.LevelMedium
	}
	if s.importance == "" {
		s.importance = model.LevelMedium
	}
	if t.ProjectID != nil {
		for i, p := range projects {
			if p.ID == *t.ProjectID {
				s.projectIdx = i + 1
				break
			}
		}
	}
	if t.IsEvent() {
		if t.EventStart != nil {
			s.date.SetTime(*t.EventStart)
			s.start.SetValue(t.EventStart.Format("15:04"))
		}
		if t.EventEnd != nil {
			s.end.SetValue(t.EventEnd.Format("15:04"))
		}
	} else {
		if d, ok := t.DeadlineDate(); ok {
			s.date.SetTime(d)
		}
		if t.DurationHours > 0 {
			s.duration.SetValue(strconv.FormatFloat(t.DurationHours, 'g', -1, 64))
		}
	}
	s.focus = fieldTitle
	s.title.Focus()
	return s
}

// setContext supplies the data behind the capacity preview.
func (s *sheetModel) setContext(tasks, events []model.Task, settings model.UserSettings, now time.Time) {
	s.tasks = tasks
	s.events = events
	s.settings = settings
	s.now = now
	s.date.now = now
}

// setSize fits the free-text inputs to the terminal width. The offset
// covers the sheet box frame plus the marker and label column.
func (s *sheetModel) setSize(width int) {
	w := width - 20
	if w < 20 {
		w = 20
	}
	if w > 60 {
		w = 60
	}
	s.title.Width = w
	s.desc.SetWidth(w)
}

// fields returns the focus order for the current kind.
func (s sheetModel) fields() []sheetField {
	common := []sheetField{fieldTitle, fieldDesc}
	if !s.kindLocked {
		common = append(common, fieldKind)
	}
	common = append(common, fieldProject, fieldDate)
	if s.kind == model.KindEvent {
		return append(common, fieldStart, fieldEnd)
	}
	return append(common, fieldDuration, fieldPriority, fieldImportance)
}

func (s *sheetModel) setFocus(f sheetField) tea.Cmd {
	s.focus = f
	s.title.Blur()
	s.desc.Blur()
	s.date.Blur()
	s.duration.Blur()
	s.start.Blur()
	s.end.Blur()
	switch f {
	case fieldTitle:
		return s.title.Focus()
	case fieldDesc:
		return s.desc.Focus()
	case fieldDate:
		s.date.Focus()
	case fieldDuration:
		return s.duration.Focus()
	case fieldStart:
		return s.start.Focus()
	case fieldEnd:
		return s.end.Focus()
	}
	return nil
}

func (s *sheetModel) moveFocus(delta int) tea.Cmd {
	order := s.fields()
	cur := 0
	for i, f := range order {
		if f == s.focus {
			cur = i
			break
		}
	}
	next := (cur + delta + len(order)) % len(order)
	return s.setFocus(order[next])
}

func cycleLevel(l model.Level, delta int) model.Level {
	idx := 0
	for i, v := range levelCycle {
		if v == l {
			idx = i
			break
		}
	}
	return levelCycle[(idx+delta+len(levelCycle))%len(levelCycle)]
}

// Task assembles the entity from the form. Kind-specific required
// fields are enforced through the model constructors.
func (s sheetModel) Task() (model.Task, error) {
	title := strings.TrimSpace(s.title.Value())

	var projectID *int
	if s.projectIdx > 0 && s.projectIdx <= len(s.projects) {
		id := s.projects[s.projectIdx-1].ID
		projectID = &id
	}

	if s.kind == model.KindEvent {
		if title == "" {
			return model.Task{}, model.ErrEmptyTitle
		}
		day, err := s.date.Value()
		if err != nil {
			return model.Task{}, fmt.Errorf("event day: %w", err)
		}
		start, err := parseClock(day, s.start.Value())
		if err != nil {
			return model.Task{}, fmt.Errorf("start time: %w", err)
		}
		end, err := parseClock(day, s.end.Value())
		if err != nil {
			return model.Task{}, fmt.Errorf("end time: %w", err)
		}
		ev, err := model.NewEvent(title, start, end, projectID)
		if err != nil {
			return model.Task{}, err
		}
		ev.Description = s.desc.Value()
		return ev, nil
	}

	var deadline *time.Time
	if !s.date.IsEmpty() {
		d, err := s.date.Value()
		if err != nil {
			return model.Task{}, err
		}
		deadline = &d
	}
	hours, err := parseHours(s.duration.Value())
	if err != nil {
		return model.Task{}, err
	}
	t, err := model.NewTask(title, deadline, hours, s.priority, s.importance, projectID)
	if err != nil {
		return model.Task{}, err
	}
	t.Description = s.desc.Value()
	return t, nil
}

func parseClock(day time.Time, v string) (time.Time, error) {
	c, err := time.Parse("15:04", strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("want HH:MM, got %q", v)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, day.Location()), nil
}

func parseHours(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	h, err := strconv.ParseFloat(v, 64)
	if err != nil || h < 0 {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return h, nil
}

func (s sheetModel) Update(msg tea.Msg) (sheetModel, tea.Cmd, sheetResult) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return s, nil, sheetCancelled
		case "tab", "down":
			if s.focus == fieldDesc && keyMsg.String() == "down" {
				break
			}
			cmd := s.moveFocus(1)
			return s, cmd, sheetOpen
		case "shift+tab", "up":
			if s.focus == fieldDesc && keyMsg.String() == "up" {
				break
			}
			cmd := s.moveFocus(-1)
			return s, cmd, sheetOpen
		case "enter":
			if s.focus == fieldDesc {
				break
			}
			if _, err := s.Task(); err != nil {
				s.err = err
				return s, nil, sheetOpen
			}
			return s, nil, sheetSubmitted
		case "left", "right":
			delta := 1
			if keyMsg.String() == "left" {
				delta = -1
			}
			switch s.focus {
			case fieldKind:
				if s.kind == model.KindTask {
					s.kind = model.KindEvent
				} else {
					s.kind = model.KindTask
				}
				return s, nil, sheetOpen
			case fieldProject:
				n := len(s.projects) + 1
				s.projectIdx = (s.projectIdx + delta + n) % n
				return s, nil, sheetOpen
			case fieldPriority:
				s.priority = cycleLevel(s.priority, delta)
				return s, nil, sheetOpen
			case fieldImportance:
				s.importance = cycleLevel(s.importance, delta)
				return s, nil, sheetOpen
			}
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case fieldTitle:
		s.title, cmd = s.title.Update(msg)
	case fieldDesc:
		s.desc, cmd = s.desc.Update(msg)
	case fieldDate:
		s.date, cmd = s.date.Update(msg)
	case fieldDuration:
		s.duration, cmd = s.duration.Update(msg)
	case fieldStart:
		s.start, cmd = s.start.Update(msg)
	case fieldEnd:
		s.end, cmd = s.end.Update(msg)
	}
	return s, cmd, sheetOpen
}

// capacityPreview renders the post-save workload of the chosen day for
// tasks with a deadline and a duration.
func (s sheetModel) capacityPreview() string {
	if s.kind != model.KindTask || s.date.IsEmpty() {
		return ""
	}
	day, err := s.date.Value()
	if err != nil {
		return ""
	}
	hours, err := parseHours(s.duration.Value())
	if err != nil || hours <= 0 {
		return ""
	}
	editID := 0
	if s.editing != nil {
		editID = s.editing.ID
	}
	load := capacity.DayLoadReplacing(day, s.tasks, s.events, s.settings, editID, hours)
	if load.LimitHours <= 0 {
		return ""
	}
	line := fmt.Sprintf("day load after save: %.0f%% (%.1f/%.1fh)", load.Percent, load.UsedHours, load.LimitHours)
	return "\n" + capacityStyleFor(load.Percent).Render(line)
}

func capacityStyleFor(percent float64) lipgloss.Style {
	switch {
	case percent >= capacity.AlertPercent:
		return capacityBadSt
	case percent >= capacity.WarnPercent:
		return capacityWarnS
	default:
		return capacityOkSt
	}
}

func (s sheetModel) selectorRow(f sheetField, label, value string) string {
	marker := "  "
	if s.focus == f {
		marker = "> "
	}
	return fmt.Sprintf("%s%s ‹ %s ›", marker, fieldLabelSt.Render(label), value)
}

func (s sheetModel) inputRow(f sheetField, label, view string) string {
	marker := "  "
	if s.focus == f {
		marker = "> "
	}
	return marker + fieldLabelSt.Render(label) + " " + view
}

func (s sheetModel) View() string {
	header := "New Task"
	switch {
	case s.editing != nil && s.kind == model.KindEvent:
		header = "Edit Event"
	case s.editing != nil:
		header = "Edit Task"
	case s.kind == model.KindEvent:
		header = "New Event"
	}

	projectName := "none"
	if s.projectIdx > 0 && s.projectIdx <= len(s.projects) {
		projectName = s.projects[s.projectIdx-1].Name
	}

	var rows []string
	rows = append(rows,
		s.inputRow(fieldTitle, "title      ", s.title.View()),
		s.inputRow(fieldDesc, "description", "\n"+s.desc.View()),
	)
	if !s.kindLocked {
		rows = append(rows, s.selectorRow(fieldKind, "kind       ", string(s.kind)))
	}
	rows = append(rows, s.selectorRow(fieldProject, "project    ", projectName))
	if s.kind == model.KindEvent {
		rows = append(rows,
			s.inputRow(fieldDate, "day        ", s.date.View()),
			s.inputRow(fieldStart, "start      ", s.start.View()),
			s.inputRow(fieldEnd, "end        ", s.end.View()),
		)
	} else {
		rows = append(rows,
			s.inputRow(fieldDate, "deadline   ", s.date.View()),
			s.inputRow(fieldDuration, "hours      ", s.duration.View()),
			s.selectorRow(fieldPriority, "priority   ", string(s.priority)),
			s.selectorRow(fieldImportance, "importance ", string(s.importance)),
		)
	}

	body := titleStyle.Render(header) + "\n\n" + strings.Join(rows, "\n") + s.capacityPreview()
	if s.err != nil {
		body += "\n\n" + errorStyle.Render("Error: "+s.err.Error())
	}
	body += "\n\n" + statusStyle.Render("tab: next field • ←/→: change value • enter: save • esc: cancel")
	return sheetBoxStyle.Render(body)
}
