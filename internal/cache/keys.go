package cache

import "strconv"

// Cache keys are deterministic strings built from the filter
// parameters, so distinct queries never collide. "_" marks an unset
// parameter, mirroring the positional key shape the backend's other
// clients use.

// TasksKey keys a task list query.
func TasksKey(projectID *int, day string) string {
	pid := "_"
	if projectID != nil {
		pid = strconv.Itoa(*projectID)
	}
	if day == "" {
		day = "_"
	}
	return "cache:tasks:" + pid + ":" + day
}

// EventsKey keys an event range query.
func EventsKey(start, end string) string {
	if start == "" {
		start = "_"
	}
	if end == "" {
		end = "_"
	}
	return "cache:events:" + start + ":" + end
}

// ProjectsKey keys the project list.
func ProjectsKey() string {
	return "cache:projects"
}

// SettingsKey keys the singleton user settings.
func SettingsKey() string {
	return "cache:settings:me"
}
