package model

import "sort"

// Project groups tasks under a name and a display color. Deleting a
// project cascades to its tasks on the server; clients refresh their
// cached lists afterwards.
type Project struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ProjectPalette is the set of colors offered when creating a project.
var ProjectPalette = []string{
	"#FECACA", "#FED7AA", "#FDE68A", "#FEF08A", "#D9F99D",
	"#BBF7D0", "#A7F3D0", "#99F6E4", "#A5F3FC", "#BAE6FD",
	"#BFDBFE", "#C7D2FE", "#DDD6FE", "#E9D5FF", "#FBCFE8",
}

// CompareTasks orders by deadline ascending (missing deadlines last),
// then priority descending, then importance descending.
func CompareTasks(a, b Task) int {
	da, oka := a.DeadlineDate()
	db, okb := b.DeadlineDate()
	switch {
	case oka && !okb:
		return -1
	case !oka && okb:
		return 1
	case oka && okb && !da.Equal(db):
		if da.Before(db) {
			return -1
		}
		return 1
	}
	if c := b.Priority.Weight() - a.Priority.Weight(); c != 0 {
		return c
	}
	return b.Importance.Weight() - a.Importance.Weight()
}

// SortTasks sorts in place using CompareTasks, keeping input order for ties.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return CompareTasks(tasks[i], tasks[j]) < 0
	})
}
