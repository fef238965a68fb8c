// Package capacity computes day workload against the per-weekday
// ceiling from user settings. Pure computation: malformed or missing
// fields contribute zero, nothing here errors.
package capacity

import (
	"time"

	"github.com/spacearound404/planboard/internal/model"
)

// Load is the workload of one day.
type Load struct {
	UsedHours  float64
	LimitHours float64
	// Percent is used/limit scaled to 0..100 and clamped. A zero limit
	// always yields zero.
	Percent float64
}

// Warning thresholds for rendering the percent value.
const (
	WarnPercent  = 80
	AlertPercent = 100
)

// DayLoad computes the load for day from the tasks due that day, the
// events overlapping it, and the weekday ceiling in settings. Task
// entries among events are ignored, as are event entries among tasks.
func DayLoad(day time.Time, tasks, events []model.Task, settings model.UserSettings) Load {
	used := taskHours(day, tasks) + eventHours(day, events)
	limit := settings.HoursFor(day.Weekday())
	return Load{
		UsedHours:  used,
		LimitHours: limit,
		Percent:    percent(used, limit),
	}
}

// DayLoadReplacing computes the post-edit load: the prior contribution
// of the task with taskID is subtracted before newHours is added, so an
// edit is not double-counted.
func DayLoadReplacing(day time.Time, tasks, events []model.Task, settings model.UserSettings, taskID int, newHours float64) Load {
	used := taskHours(day, tasks) + eventHours(day, events)
	for _, t := range tasks {
		if t.ID == taskID && !t.IsEvent() && t.IsDueOn(day) {
			used -= t.DurationHours
			break
		}
	}
	if newHours > 0 {
		used += newHours
	}
	if used < 0 {
		used = 0
	}
	limit := settings.HoursFor(day.Weekday())
	return Load{
		UsedHours:  used,
		LimitHours: limit,
		Percent:    percent(used, limit),
	}
}

func taskHours(day time.Time, tasks []model.Task) float64 {
	var sum float64
	for _, t := range tasks {
		if t.IsEvent() || !t.IsDueOn(day) {
			continue
		}
		if t.DurationHours > 0 {
			sum += t.DurationHours
		}
	}
	return sum
}

// eventHours sums each event's overlap with the day's [00:00, 24:00)
// window. Events missing either timestamp contribute zero.
func eventHours(day time.Time, events []model.Task) float64 {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var sum float64
	for _, e := range events {
		if e.EventStart == nil || e.EventEnd == nil {
			continue
		}
		start, end := *e.EventStart, *e.EventEnd
		if start.Before(dayStart) {
			start = dayStart
		}
		if end.After(dayEnd) {
			end = dayEnd
		}
		if end.After(start) {
			sum += end.Sub(start).Hours()
		}
	}
	return sum
}

func percent(used, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	p := used / limit * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
