package layout_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacearound404/planboard/internal/layout"
	"github.com/spacearound404/planboard/internal/model"
)

func event(t *testing.T, title string, startHour, startMin, endHour, endMin int) model.Task {
	t.Helper()
	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	start := day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute)
	end := day.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute)
	ev, err := model.NewEvent(title, start, end, nil)
	require.NoError(t, err)
	return ev
}

// Three events where A overlaps B, B overlaps C, but A and C do not
// overlap: the greedy pass reuses column 0 for C.
func TestAssignChainedOverlap(t *testing.T) {
	events := []model.Task{
		event(t, "a", 9, 0, 10, 0),
		event(t, "b", 9, 30, 10, 30),
		event(t, "c", 10, 0, 11, 0),
	}

	placed := layout.Assign(events)
	require.Len(t, placed, 3)

	cols := map[string]int{}
	for _, p := range placed {
		cols[p.Event.Title] = p.Column
	}
	assert.Equal(t, 0, cols["a"])
	assert.Equal(t, 1, cols["b"])
	assert.Equal(t, 0, cols["c"])
	assert.Equal(t, 2, layout.Columns(placed))
}

func TestAssignNoOverlapSingleColumn(t *testing.T) {
	events := []model.Task{
		event(t, "a", 9, 0, 10, 0),
		event(t, "b", 10, 0, 11, 0),
		event(t, "c", 14, 0, 15, 0),
	}

	placed := layout.Assign(events)
	for _, p := range placed {
		assert.Equal(t, 0, p.Column, p.Event.Title)
	}
	assert.Equal(t, 1, layout.Columns(placed))
}

// Overlapping events must never share a column.
func TestAssignOverlapNeverSharesColumn(t *testing.T) {
	events := []model.Task{
		event(t, "a", 9, 0, 12, 0),
		event(t, "b", 10, 0, 11, 0),
		event(t, "c", 10, 30, 11, 30),
		event(t, "d", 11, 0, 13, 0),
	}

	placed := layout.Assign(events)
	for i, p := range placed {
		for j, q := range placed {
			if i >= j || p.Column != q.Column {
				continue
			}
			overlap := p.Event.EventStart.Before(*q.Event.EventEnd) &&
				q.Event.EventStart.Before(*p.Event.EventEnd)
			assert.False(t, overlap, "%s and %s overlap in column %d", p.Event.Title, q.Event.Title, p.Column)
		}
	}
}

func TestAssignSortsByStart(t *testing.T) {
	events := []model.Task{
		event(t, "late", 15, 0, 16, 0),
		event(t, "early", 8, 0, 9, 0),
	}

	placed := layout.Assign(events)
	require.Len(t, placed, 2)
	assert.Equal(t, "early", placed[0].Event.Title)
	assert.Equal(t, "late", placed[1].Event.Title)
}

func TestAssignSkipsMissingTimestamps(t *testing.T) {
	broken := model.Task{Title: "broken", Kind: model.KindEvent}
	events := []model.Task{broken, event(t, "ok", 9, 0, 10, 0)}

	placed := layout.Assign(events)
	require.Len(t, placed, 1)
	assert.Equal(t, "ok", placed[0].Event.Title)
}

func TestColumnsEmpty(t *testing.T) {
	assert.Equal(t, 0, layout.Columns(nil))
}

func TestVisibleCountsHiddenEvents(t *testing.T) {
	placed := layout.Assign([]model.Task{
		event(t, "early", 6, 0, 7, 0),
		event(t, "mid", 10, 0, 11, 0),
		event(t, "late", 20, 0, 21, 0),
	})

	// Viewport covering 09:00 to 17:00 at 60 px/hour.
	vis := layout.Visible(placed, 9*60, 8*60, 60)
	assert.Equal(t, 1, vis.Above)
	assert.Equal(t, 1, vis.Below)
	assert.Equal(t, 6*60, vis.PrevMinutes)
	assert.Equal(t, 20*60, vis.NextMinutes)
}

func TestVisibleNoHidden(t *testing.T) {
	placed := layout.Assign([]model.Task{event(t, "mid", 10, 0, 11, 0)})

	vis := layout.Visible(placed, 9*60, 8*60, 60)
	assert.Equal(t, 0, vis.Above)
	assert.Equal(t, 0, vis.Below)
	assert.Equal(t, -1, vis.PrevMinutes)
	assert.Equal(t, -1, vis.NextMinutes)
}

// An event partially scrolled off the top still renders, so it is not
// counted as hidden.
func TestVisiblePartialOverlapNotHidden(t *testing.T) {
	placed := layout.Assign([]model.Task{event(t, "spanning", 8, 0, 10, 0)})

	vis := layout.Visible(placed, 9*60, 8*60, 60)
	assert.Equal(t, 0, vis.Above)
	assert.Equal(t, 0, vis.Below)
}
