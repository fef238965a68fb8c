package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spacearound404/planboard/internal/model"
)

// taskItem renders one task line on the Today and Projects pages.
// ProjectColor carries the owning project's color token for the edge
// marker; empty when the task has no project.
type taskItem struct {
	Task         model.Task
	ProjectColor string
}

func (i taskItem) Title() string {
	marker := "·"
	if i.ProjectColor != "" {
		marker = lipgloss.NewStyle().Foreground(lipgloss.Color(i.ProjectColor)).Render("▎")
	}
	date := ""
	if d, ok := i.Task.DeadlineDate(); ok {
		date = statusStyle.Render(fmt.Sprintf("  %d.%02d", d.Day(), int(d.Month())))
	}
	return fmt.Sprintf("%s %s %s%s", marker, levelBars(i.Task.Priority, i.Task.Importance), i.Task.Title, date)
}

// levelBars renders the priority and importance scales the way the
// cards in the production client do: two groups of three ticks.
func levelBars(priority, importance model.Level) string {
	bar := func(l model.Level) string {
		filled := l.Weight() + 1
		var sb strings.Builder
		for n := 0; n < 3; n++ {
			if n < filled {
				sb.WriteString("▪")
			} else {
				sb.WriteString(dimStyle.Render("▪"))
			}
		}
		return sb.String()
	}
	return bar(priority) + " " + bar(importance)
}
