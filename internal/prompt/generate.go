package prompt

import (
	"fmt"
	"strings"

	"github.com/spacearound404/planboard/internal/model"
)

const yamlFormat = `Reply with a single YAML code block in this format and nothing else:

` + "```yaml" + `
tasks:
  - title: "Task name"
    description: "Details"
    deadline: "YYYY-MM-DD"
    duration_hours: 1.5
    priority: "medium"
    importance: "medium"
` + "```" + `

Fields:
- title: (required) task title
- description: (optional) details
- deadline: (optional) due date, YYYY-MM-DD
- duration_hours: (optional) estimated hours, may be fractional
- priority, importance: (optional) low | medium | high`

// Breakdown builds an assistant prompt asking to split the given task
// into smaller ones. The result is meant for the clipboard; the client
// never calls the assistant itself.
func Breakdown(task model.Task) string {
	var sb strings.Builder

	sb.WriteString("You are a task planning assistant.\n")
	sb.WriteString("Break the following task into smaller, concrete tasks.\n\n")

	sb.WriteString("## Task\n")
	sb.WriteString(fmt.Sprintf("- Title: %s\n", task.Title))
	if task.Description != "" {
		sb.WriteString(fmt.Sprintf("- Description: %s\n", task.Description))
	}
	if task.Deadline != nil {
		sb.WriteString(fmt.Sprintf("- Deadline: %s\n", *task.Deadline))
	}
	if task.DurationHours > 0 {
		sb.WriteString(fmt.Sprintf("- Estimated hours: %g\n", task.DurationHours))
	}

	sb.WriteString("\n")
	sb.WriteString(yamlFormat)
	sb.WriteString("\n")

	return sb.String()
}
