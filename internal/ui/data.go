package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/spacearound404/planboard/internal/api"
	"github.com/spacearound404/planboard/internal/bus"
	"github.com/spacearound404/planboard/internal/cache"
	"github.com/spacearound404/planboard/internal/config"
	"github.com/spacearound404/planboard/internal/model"
)

// Deps carries everything the pages need. Now is injectable so the
// grid's current-time line and the Today page are testable.
type Deps struct {
	API    *api.Client
	Cache  *cache.Store
	Bus    *bus.Bus
	Log    *zap.Logger
	Config *config.Config
	Now    func() time.Time
}

type errMsg struct{ error }

// busNotifyMsg is a change topic delivered through the program's
// message loop; see waitForBus.
type busNotifyMsg struct{ topic string }

// statusMsg is a transient status-bar note after a mutation.
type statusMsg string

type todayDataMsg struct {
	tasks    []model.Task
	events   []model.Task
	settings model.UserSettings
	projects []model.Project
}

type dayDataMsg struct {
	day      time.Time
	events   []model.Task
	tasks    []model.Task
	settings model.UserSettings
	projects []model.Project
}

type monthDataMsg struct {
	month    time.Time
	tasks    []model.Task
	events   []model.Task
	settings model.UserSettings
}

type projectsDataMsg struct {
	projects []model.Project
	tasks    []model.Task
	settings model.UserSettings
}

type settingsDataMsg struct {
	settings model.UserSettings
}

// waitForBus blocks on the notification channel and resurfaces the
// topic as a message. The model re-arms it after every delivery.
func waitForBus(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		topic, ok := <-ch
		if !ok {
			return nil
		}
		return busNotifyMsg{topic: topic}
	}
}

func (d Deps) allTasks(ctx context.Context) ([]model.Task, error) {
	return cache.ReadThrough(ctx, d.Cache, cache.TasksKey(nil, ""), bus.TopicTasksChanged,
		func(ctx context.Context) ([]model.Task, error) {
			return d.API.Tasks(ctx, api.TaskFilter{})
		}, true)
}

func (d Deps) eventsRange(ctx context.Context, start, end string) ([]model.Task, error) {
	return cache.ReadThrough(ctx, d.Cache, cache.EventsKey(start, end), bus.TopicTasksChanged,
		func(ctx context.Context) ([]model.Task, error) {
			return d.API.Events(ctx, api.EventFilter{Start: start, End: end})
		}, true)
}

func (d Deps) projects(ctx context.Context) ([]model.Project, error) {
	return cache.ReadThrough(ctx, d.Cache, cache.ProjectsKey(), bus.TopicProjectsChanged,
		func(ctx context.Context) ([]model.Project, error) {
			return d.API.Projects(ctx)
		}, true)
}

func (d Deps) settings(ctx context.Context) (model.UserSettings, error) {
	return cache.ReadThrough(ctx, d.Cache, cache.SettingsKey(), bus.TopicTasksChanged,
		func(ctx context.Context) (model.UserSettings, error) {
			return d.API.MySettings(ctx)
		}, true)
}

func (d Deps) loadToday() tea.Msg {
	ctx := context.Background()
	day := d.Now().Format(model.DateLayout)

	tasks, err := d.allTasks(ctx)
	if err != nil {
		return errMsg{err}
	}
	events, err := d.eventsRange(ctx, day, day)
	if err != nil {
		return errMsg{err}
	}
	settings, err := d.settings(ctx)
	if err != nil {
		return errMsg{err}
	}
	projects, err := d.projects(ctx)
	if err != nil {
		return errMsg{err}
	}
	return todayDataMsg{tasks: tasks, events: events, settings: settings, projects: projects}
}

func (d Deps) loadDay(day time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		ds := day.Format(model.DateLayout)

		events, err := d.eventsRange(ctx, ds, ds)
		if err != nil {
			return errMsg{err}
		}
		tasks, err := d.allTasks(ctx)
		if err != nil {
			return errMsg{err}
		}
		settings, err := d.settings(ctx)
		if err != nil {
			return errMsg{err}
		}
		projects, err := d.projects(ctx)
		if err != nil {
			return errMsg{err}
		}
		return dayDataMsg{day: day, events: events, tasks: tasks, settings: settings, projects: projects}
	}
}

func (d Deps) loadMonth(month time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
		last := first.AddDate(0, 1, -1)

		tasks, err := d.allTasks(ctx)
		if err != nil {
			return errMsg{err}
		}
		events, err := d.eventsRange(ctx, first.Format(model.DateLayout), last.Format(model.DateLayout))
		if err != nil {
			return errMsg{err}
		}
		settings, err := d.settings(ctx)
		if err != nil {
			return errMsg{err}
		}
		return monthDataMsg{month: first, tasks: tasks, events: events, settings: settings}
	}
}

func (d Deps) loadProjects() tea.Msg {
	ctx := context.Background()
	projects, err := d.projects(ctx)
	if err != nil {
		return errMsg{err}
	}
	tasks, err := d.allTasks(ctx)
	if err != nil {
		return errMsg{err}
	}
	settings, err := d.settings(ctx)
	if err != nil {
		return errMsg{err}
	}
	return projectsDataMsg{projects: projects, tasks: tasks, settings: settings}
}

func (d Deps) loadSettings() tea.Msg {
	ctx := context.Background()
	settings, err := d.settings(ctx)
	if err != nil {
		return errMsg{err}
	}
	return settingsDataMsg{settings: settings}
}

// refreshTasks re-fetches the canonical task list after a mutation and
// lets the cache publish the change. Event range entries are refreshed
// lazily the next time a page reads them.
func (d Deps) refreshTasks(ctx context.Context) {
	_, err := cache.Refresh(ctx, d.Cache, cache.TasksKey(nil, ""), bus.TopicTasksChanged,
		func(ctx context.Context) ([]model.Task, error) {
			return d.API.Tasks(ctx, api.TaskFilter{})
		})
	if err != nil {
		d.Log.Warn("task refresh failed", zap.Error(err))
	}
}

func (d Deps) refreshEvents(ctx context.Context, start, end string) {
	_, err := cache.Refresh(ctx, d.Cache, cache.EventsKey(start, end), bus.TopicTasksChanged,
		func(ctx context.Context) ([]model.Task, error) {
			return d.API.Events(ctx, api.EventFilter{Start: start, End: end})
		})
	if err != nil {
		d.Log.Warn("event refresh failed", zap.Error(err))
	}
}

func (d Deps) refreshProjects(ctx context.Context) {
	_, err := cache.Refresh(ctx, d.Cache, cache.ProjectsKey(), bus.TopicProjectsChanged,
		func(ctx context.Context) ([]model.Project, error) {
			return d.API.Projects(ctx)
		})
	if err != nil {
		d.Log.Warn("project refresh failed", zap.Error(err))
	}
}

func (d Deps) createTask(t model.Task) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := d.API.CreateTask(ctx, t); err != nil {
			return errMsg{err}
		}
		d.refreshTasks(ctx)
		return statusMsg("task created")
	}
}

func (d Deps) updateTask(id int, t model.Task) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := d.API.UpdateTask(ctx, id, t); err != nil {
			return errMsg{err}
		}
		d.refreshTasks(ctx)
		return statusMsg("task updated")
	}
}

func (d Deps) deleteTask(id int, note string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := d.API.DeleteTask(ctx, id); err != nil {
			return errMsg{err}
		}
		d.refreshTasks(ctx)
		return statusMsg(note)
	}
}

func (d Deps) createEvent(t model.Task) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		created, err := d.API.CreateEvent(ctx, t)
		if err != nil {
			return errMsg{err}
		}
		if created.EventStart != nil {
			day := created.EventStart.Format(model.DateLayout)
			d.refreshEvents(ctx, day, day)
		}
		d.refreshTasks(ctx)
		return statusMsg("event created")
	}
}

func (d Deps) createProject(name, color string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := d.API.CreateProject(ctx, name, color); err != nil {
			return errMsg{err}
		}
		d.refreshProjects(ctx)
		return statusMsg("project created")
	}
}

// deleteProject removes the project and refreshes both lists: the
// server cascades deletion to the project's tasks.
func (d Deps) deleteProject(id int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := d.API.DeleteProject(ctx, id); err != nil {
			return errMsg{err}
		}
		d.refreshProjects(ctx)
		d.refreshTasks(ctx)
		return statusMsg("project deleted")
	}
}

func (d Deps) saveSettings(s model.UserSettings) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := d.API.UpdateMySettings(ctx, s); err != nil {
			return errMsg{err}
		}
		if _, err := cache.Refresh(ctx, d.Cache, cache.SettingsKey(), bus.TopicTasksChanged,
			func(ctx context.Context) (model.UserSettings, error) {
				return d.API.MySettings(ctx)
			}); err != nil {
			d.Log.Warn("settings refresh failed", zap.Error(err))
		}
		return statusMsg("settings saved")
	}
}
