package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spacearound404/planboard/internal/model"
)

// projectsModel lists projects with their task counts. A project can be
// expanded to show its tasks in place; creating one picks a name and a
// palette color.
type projectsModel struct {
	deps Deps

	projects []model.Project
	tasks    []model.Task
	settings model.UserSettings

	cursor   int
	expanded map[int]bool
	confirm  bool

	creating  bool
	nameInput textinput.Model
	colorIdx  int
}

func newProjectsModel(deps Deps) projectsModel {
	ni := textinput.New()
	ni.Placeholder = "Project name..."
	ni.CharLimit = 64
	return projectsModel{deps: deps, expanded: make(map[int]bool), nameInput: ni}
}

func (m projectsModel) load() tea.Cmd {
	return m.deps.loadProjects
}

func (m *projectsModel) setWidth(w int) {
	w -= 8
	if w < 16 {
		w = 16
	}
	if w > 48 {
		w = 48
	}
	m.nameInput.Width = w
}

func (m *projectsModel) setData(msg projectsDataMsg) {
	m.projects = msg.projects
	m.tasks = msg.tasks
	m.settings = msg.settings
	if m.cursor >= len(m.projects) {
		m.cursor = len(m.projects) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m projectsModel) tasksOf(projectID int) []model.Task {
	var out []model.Task
	for _, t := range m.tasks {
		if t.ProjectID != nil && *t.ProjectID == projectID && !t.IsEvent() {
			out = append(out, t)
		}
	}
	model.SortTasks(out)
	return out
}

func (m projectsModel) selected() (model.Project, bool) {
	if m.cursor < 0 || m.cursor >= len(m.projects) {
		return model.Project{}, false
	}
	return m.projects[m.cursor], true
}

func (m projectsModel) Update(msg tea.Msg) (projectsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.creating {
		switch keyMsg.String() {
		case "enter":
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				return m, nil
			}
			color := model.ProjectPalette[m.colorIdx%len(model.ProjectPalette)]
			m.creating = false
			m.nameInput.Reset()
			return m, m.deps.createProject(name, color)
		case "esc":
			m.creating = false
			m.nameInput.Reset()
			return m, nil
		case "left":
			m.colorIdx = (m.colorIdx + len(model.ProjectPalette) - 1) % len(model.ProjectPalette)
			return m, nil
		case "right":
			m.colorIdx = (m.colorIdx + 1) % len(model.ProjectPalette)
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	if m.confirm {
		switch keyMsg.String() {
		case "y":
			m.confirm = false
			if p, ok := m.selected(); ok {
				return m, m.deps.deleteProject(p.ID)
			}
		case "n", "esc":
			m.confirm = false
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(m.projects)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter", " ":
		if p, ok := m.selected(); ok {
			m.expanded[p.ID] = !m.expanded[p.ID]
		}
	case "a", "n":
		m.creating = true
		m.colorIdx = len(m.projects) % len(model.ProjectPalette)
		cmd := m.nameInput.Focus()
		return m, cmd
	case "d":
		if _, ok := m.selected(); ok {
			m.confirm = true
		}
	case "t":
		// New task directly in the selected project.
		if p, ok := m.selected(); ok {
			s := newTaskSheet(m.projects, nil)
			s.setContext(m.tasks, nil, m.settings, m.deps.Now())
			for i, pr := range m.projects {
				if pr.ID == p.ID {
					s.projectIdx = i + 1
					break
				}
			}
			return m, openSheet(s)
		}
	}
	return m, nil
}

func (m projectsModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Projects"))
	sb.WriteString("\n\n")

	if len(m.projects) == 0 && !m.creating {
		sb.WriteString(statusStyle.Render("No projects yet. Press a to create one."))
		sb.WriteString("\n")
	}

	for i, p := range m.projects {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("●")
		tasks := m.tasksOf(p.ID)
		sb.WriteString(fmt.Sprintf("%s%s %s %s\n", marker, dot, p.Name,
			badgeStyle.Render(fmt.Sprintf("(%d)", len(tasks)))))
		if m.expanded[p.ID] {
			if len(tasks) == 0 {
				sb.WriteString(dimStyle.Render("      no tasks") + "\n")
			}
			for _, t := range tasks {
				sb.WriteString("      " + taskItem{Task: t, ProjectColor: p.Color}.Title() + "\n")
			}
		}
	}

	if m.creating {
		color := model.ProjectPalette[m.colorIdx%len(model.ProjectPalette)]
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
		sb.WriteString("\n" + m.nameInput.View() + "  " + swatch + "\n")
		sb.WriteString(statusStyle.Render("←/→: color • enter: create • esc: cancel"))
		return sb.String()
	}

	if m.confirm {
		if p, ok := m.selected(); ok {
			sb.WriteString("\n" + confirmStyle.Render(fmt.Sprintf("Delete %q and all its tasks? y/n", p.Name)))
		}
	}
	sb.WriteString("\n" + statusStyle.Render("a: add • enter: expand • t: new task • d: delete"))
	return sb.String()
}
