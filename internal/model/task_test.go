package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacearound404/planboard/internal/model"
)

var monday = time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

func TestNewTaskRequiresTitle(t *testing.T) {
	_, err := model.NewTask("", nil, 1, model.LevelMedium, model.LevelMedium, nil)
	assert.ErrorIs(t, err, model.ErrEmptyTitle)
}

func TestNewTaskNegativeDurationZeroed(t *testing.T) {
	task, err := model.NewTask("t", nil, -3, model.LevelLow, model.LevelLow, nil)
	require.NoError(t, err)
	assert.Zero(t, task.DurationHours)
	assert.Equal(t, model.KindTask, task.Kind)
	assert.Nil(t, task.Deadline)
}

func TestNewTaskFormatsDeadline(t *testing.T) {
	task, err := model.NewTask("t", &monday, 2, model.LevelHigh, model.LevelLow, nil)
	require.NoError(t, err)
	require.NotNil(t, task.Deadline)
	assert.Equal(t, "2026-08-10", *task.Deadline)
}

func TestNewEventValidation(t *testing.T) {
	start := monday.Add(9 * time.Hour)
	end := monday.Add(10 * time.Hour)

	_, err := model.NewEvent("", start, end, nil)
	assert.ErrorIs(t, err, model.ErrEmptyTitle)

	_, err = model.NewEvent("e", time.Time{}, end, nil)
	assert.ErrorIs(t, err, model.ErrMissingTimes)

	_, err = model.NewEvent("e", end, start, nil)
	assert.ErrorIs(t, err, model.ErrEventSpan)

	_, err = model.NewEvent("e", start, start, nil)
	assert.ErrorIs(t, err, model.ErrEventSpan, "zero-length span rejected")

	ev, err := model.NewEvent("e", start, end, nil)
	require.NoError(t, err)
	assert.True(t, ev.IsEvent())
}

func TestDeadlinePredicates(t *testing.T) {
	task, err := model.NewTask("t", &monday, 1, model.LevelMedium, model.LevelMedium, nil)
	require.NoError(t, err)

	assert.True(t, task.IsDueOn(monday))
	assert.False(t, task.IsDueOn(monday.AddDate(0, 0, 1)))

	assert.False(t, task.IsOverdue(monday), "due today is not overdue")
	assert.True(t, task.IsOverdue(monday.AddDate(0, 0, 1)))

	bare := model.Task{Title: "no deadline", Kind: model.KindTask}
	assert.False(t, bare.IsOverdue(monday))
	_, ok := bare.DeadlineDate()
	assert.False(t, ok)
}

func TestMalformedDeadlineIgnored(t *testing.T) {
	bad := "not-a-date"
	task := model.Task{Title: "t", Kind: model.KindTask, Deadline: &bad}
	_, ok := task.DeadlineDate()
	assert.False(t, ok)
	assert.False(t, task.IsDueOn(monday))
}

func TestLevelWeight(t *testing.T) {
	assert.Equal(t, 2, model.LevelHigh.Weight())
	assert.Equal(t, 1, model.LevelMedium.Weight())
	assert.Equal(t, 0, model.LevelLow.Weight())
	assert.Equal(t, 0, model.Level("bogus").Weight())
}

func mustTask(t *testing.T, title string, deadline *time.Time, prio, imp model.Level) model.Task {
	t.Helper()
	task, err := model.NewTask(title, deadline, 1, prio, imp, nil)
	require.NoError(t, err)
	return task
}

func TestSortTasksOrdering(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)
	tasks := []model.Task{
		mustTask(t, "no deadline", nil, model.LevelHigh, model.LevelHigh),
		mustTask(t, "tue low", &tuesday, model.LevelLow, model.LevelLow),
		mustTask(t, "mon low imp high", &monday, model.LevelLow, model.LevelHigh),
		mustTask(t, "mon high", &monday, model.LevelHigh, model.LevelLow),
		mustTask(t, "mon low imp low", &monday, model.LevelLow, model.LevelLow),
	}

	model.SortTasks(tasks)

	titles := make([]string, len(tasks))
	for i, task := range tasks {
		titles[i] = task.Title
	}
	assert.Equal(t, []string{
		"mon high",
		"mon low imp high",
		"mon low imp low",
		"tue low",
		"no deadline",
	}, titles)
}

func TestSortTasksStableForTies(t *testing.T) {
	a := mustTask(t, "first", &monday, model.LevelMedium, model.LevelMedium)
	b := mustTask(t, "second", &monday, model.LevelMedium, model.LevelMedium)
	tasks := []model.Task{a, b}

	model.SortTasks(tasks)
	assert.Equal(t, "first", tasks[0].Title)
	assert.Equal(t, "second", tasks[1].Title)
}

func TestSettingsHoursRoundTrip(t *testing.T) {
	var s model.UserSettings
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		s.SetHoursFor(wd, float64(wd)+1)
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		assert.Equal(t, float64(wd)+1, s.HoursFor(wd))
	}

	s.SetHoursFor(time.Monday, -5)
	assert.Zero(t, s.HoursFor(time.Monday), "negative hours clamp to zero")
}
