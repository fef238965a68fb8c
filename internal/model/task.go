package model

import (
	"errors"
	"time"
)

// DateLayout is the wire format for calendar dates (deadline, day filters).
const DateLayout = "2006-01-02"

// Level is a three-step scale used for both priority and importance.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Weight maps a level to a sortable rank. Unknown levels rank lowest.
func (l Level) Weight() int {
	switch l {
	case LevelHigh:
		return 2
	case LevelMedium:
		return 1
	default:
		return 0
	}
}

// Kind discriminates the task/event union.
type Kind string

const (
	KindTask  Kind = "task"
	KindEvent Kind = "event"
)

var (
	ErrEmptyTitle   = errors.New("title must not be empty")
	ErrEventSpan    = errors.New("event end must be after event start")
	ErrMissingTimes = errors.New("event requires both start and end times")
)

// Task is a backend task or calendar event, discriminated by Kind.
// Deadline and DurationHours are meaningful for tasks, EventStart and
// EventEnd for events. Use NewTask/NewEvent to get the kind-specific
// required fields enforced.
type Task struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Deadline      *string    `json:"deadline,omitempty"`
	DurationHours float64    `json:"duration_hours,omitempty"`
	Priority      Level      `json:"priority,omitempty"`
	Importance    Level      `json:"importance,omitempty"`
	Kind          Kind       `json:"kind,omitempty"`
	EventStart    *time.Time `json:"event_start,omitempty"`
	EventEnd      *time.Time `json:"event_end,omitempty"`
	ProjectID     *int       `json:"project_id,omitempty"`
}

// NewTask builds a kind=task entity. deadline may be nil; a negative
// duration is treated as zero.
func NewTask(title string, deadline *time.Time, durationHours float64, priority, importance Level, projectID *int) (Task, error) {
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	if durationHours < 0 {
		durationHours = 0
	}
	t := Task{
		Title:         title,
		DurationHours: durationHours,
		Priority:      priority,
		Importance:    importance,
		Kind:          KindTask,
		ProjectID:     projectID,
	}
	if deadline != nil {
		s := deadline.Format(DateLayout)
		t.Deadline = &s
	}
	return t, nil
}

// NewEvent builds a kind=event entity. Both times are required and the
// span must be positive.
func NewEvent(title string, start, end time.Time, projectID *int) (Task, error) {
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	if start.IsZero() || end.IsZero() {
		return Task{}, ErrMissingTimes
	}
	if !end.After(start) {
		return Task{}, ErrEventSpan
	}
	return Task{
		Title:      title,
		Kind:       KindEvent,
		EventStart: &start,
		EventEnd:   &end,
		ProjectID:  projectID,
	}, nil
}

// IsEvent reports whether the entity carries event semantics.
func (t Task) IsEvent() bool {
	return t.Kind == KindEvent
}

// DeadlineDate parses the deadline field. ok is false when the field is
// missing or malformed.
func (t Task) DeadlineDate() (time.Time, bool) {
	if t.Deadline == nil {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, *t.Deadline)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsDueOn reports whether the task's deadline falls on the given day.
func (t Task) IsDueOn(day time.Time) bool {
	d, ok := t.DeadlineDate()
	if !ok {
		return false
	}
	return d.Format(DateLayout) == day.Format(DateLayout)
}

// IsOverdue reports whether the task's deadline is strictly before today.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Deadline == nil || t.IsEvent() {
		return false
	}
	return *t.Deadline < now.Format(DateLayout)
}

// StartsOn reports whether the event starts on the given day.
func (t Task) StartsOn(day time.Time) bool {
	if t.EventStart == nil {
		return false
	}
	return t.EventStart.Format(DateLayout) == day.Format(DateLayout)
}
