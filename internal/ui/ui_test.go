package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacearound404/planboard/internal/bus"
	"github.com/spacearound404/planboard/internal/config"
	"github.com/spacearound404/planboard/internal/model"
	"github.com/spacearound404/planboard/internal/selection"
)

func newTestModel() Model {
	return NewModel(Deps{
		Bus:    bus.New(),
		Config: &config.Config{},
		Now:    time.Now,
	})
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDismissedEventSheetDiscardsSelection(t *testing.T) {
	m := newTestModel()
	m.page = pageDay

	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	m.day.machine.Transition(selection.Press{Y: 40, Day: day})
	m.day.machine.Transition(selection.TimerFired{})
	m.day.machine.Transition(selection.Release{})
	require.Equal(t, selection.Committing, m.day.machine.State())

	iv, err := m.day.machine.Interval()
	require.NoError(t, err)

	next, _ := m.Update(openSheetMsg{sheet: newEventSheet(nil, iv)})
	m = next.(Model)
	require.NotNil(t, m.sheet)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Nil(t, m.sheet)
	assert.Equal(t, selection.Cancelled, m.day.machine.State())
	_, err = m.day.machine.Interval()
	assert.ErrorIs(t, err, selection.ErrNoInterval)
}

func TestDismissedTaskSheetLeavesSelectionAlone(t *testing.T) {
	m := newTestModel()
	m.page = pageDay

	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	m.day.machine.Transition(selection.Press{Y: 40, Day: day})
	m.day.machine.Transition(selection.TimerFired{})
	m.day.machine.Transition(selection.Release{})
	require.Equal(t, selection.Committing, m.day.machine.State())

	next, _ := m.Update(openSheetMsg{sheet: newTaskSheet(nil, &day)})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Nil(t, m.sheet)
	assert.Equal(t, selection.Committing, m.day.machine.State())
}

func TestProjectsTaskSheetCarriesCapacityContext(t *testing.T) {
	m := newProjectsModel(Deps{Now: time.Now})
	m.setData(projectsDataMsg{
		projects: []model.Project{{ID: 1, Name: "Work"}},
		tasks:    []model.Task{{ID: 2, Title: "t", Kind: model.KindTask}},
		settings: model.UserSettings{HoursMon: 8},
	})

	_, cmd := m.Update(keyRune('t'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(openSheetMsg)
	require.True(t, ok)
	assert.Equal(t, 1, msg.sheet.projectIdx)
	assert.Equal(t, float64(8), msg.sheet.settings.HoursMon)
	assert.Len(t, msg.sheet.tasks, 1)
}

func TestDateInputFallbackUsesInjectedClock(t *testing.T) {
	d := newDateInput()
	d.now = time.Date(2030, 2, 14, 12, 0, 0, 0, time.UTC)
	d.fields[2].SetValue("5")

	got, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2030-02-05", got.Format(model.DateLayout))
}

func TestWindowSizeFitsSheetInputs(t *testing.T) {
	m := newTestModel()
	next, _ := m.Update(openSheetMsg{sheet: newTaskSheet(nil, nil)})
	m = next.(Model)

	next, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)
	require.NotNil(t, m.sheet)
	assert.Equal(t, 60, m.sheet.title.Width)

	next, _ = m.Update(tea.WindowSizeMsg{Width: 50, Height: 40})
	m = next.(Model)
	assert.Equal(t, 26, m.sheet.title.Width)

	// A sheet opened after a resize picks up the stored width.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	next, _ = m.Update(openSheetMsg{sheet: newTaskSheet(nil, nil)})
	m = next.(Model)
	require.NotNil(t, m.sheet)
	assert.Equal(t, 26, m.sheet.title.Width)
}
