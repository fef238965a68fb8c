// Package layout places one day's events into the hour grid: greedy
// column assignment for overlapping events and viewport visibility for
// the hidden-event indicators.
package layout

import (
	"sort"
	"time"

	"github.com/spacearound404/planboard/internal/model"
)

// Placed is an event tagged with its visual column.
type Placed struct {
	Event  model.Task
	Column int
}

// Assign packs events into columns with a single left-to-right greedy
// pass: events are taken in start order (input order breaks ties) and
// each goes into the first column whose last event ended at or before
// its start, or a fresh column when none does. Two events sharing any
// time range therefore never share a column. Events missing either
// timestamp are skipped.
func Assign(events []model.Task) []Placed {
	idx := make([]int, 0, len(events))
	for i, e := range events {
		if e.EventStart != nil && e.EventEnd != nil {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return events[idx[a]].EventStart.Before(*events[idx[b]].EventStart)
	})

	placed := make([]Placed, 0, len(idx))
	var columnEnds []time.Time
	for _, i := range idx {
		e := events[i]
		col := -1
		for c, end := range columnEnds {
			if !end.After(*e.EventStart) {
				col = c
				break
			}
		}
		if col == -1 {
			col = len(columnEnds)
			columnEnds = append(columnEnds, time.Time{})
		}
		columnEnds[col] = *e.EventEnd
		placed = append(placed, Placed{Event: e, Column: col})
	}
	return placed
}

// Columns returns the track count for a placement: max column index + 1.
func Columns(placed []Placed) int {
	max := -1
	for _, p := range placed {
		if p.Column > max {
			max = p.Column
		}
	}
	return max + 1
}

// Visibility describes events outside the current scroll window.
type Visibility struct {
	Above int
	Below int
	// PrevMinutes/NextMinutes are the start minutes of the nearest
	// hidden event in each direction, for jump-to actions. -1 when none.
	PrevMinutes int
	NextMinutes int
}

// Visible computes the hidden-event counts for a viewport spanning
// [topPx, topPx+heightPx) at the given vertical scale. An event is
// hidden above when it ends above the window and hidden below when it
// starts below it.
func Visible(placed []Placed, topPx, heightPx, pxPerHour float64) Visibility {
	v := Visibility{PrevMinutes: -1, NextMinutes: -1}
	for _, p := range placed {
		startM := minutesOfDay(*p.Event.EventStart)
		endM := minutesOfDay(*p.Event.EventEnd)
		startPx := float64(startM) / 60 * pxPerHour
		endPx := float64(endM) / 60 * pxPerHour
		switch {
		case endPx <= topPx:
			v.Above++
			if startM > v.PrevMinutes {
				v.PrevMinutes = startM
			}
		case startPx >= topPx+heightPx:
			v.Below++
			if v.NextMinutes == -1 || startM < v.NextMinutes {
				v.NextMinutes = startM
			}
		}
	}
	return v
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
