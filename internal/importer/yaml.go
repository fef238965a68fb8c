package importer

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spacearound404/planboard/internal/api"
	"github.com/spacearound404/planboard/internal/model"
)

// YAMLTask represents a single task or event in the YAML input.
type YAMLTask struct {
	Title         string  `yaml:"title"`
	Description   string  `yaml:"description,omitempty"`
	Deadline      string  `yaml:"deadline,omitempty"`
	DurationHours float64 `yaml:"duration_hours,omitempty"`
	Priority      string  `yaml:"priority,omitempty"`
	Importance    string  `yaml:"importance,omitempty"`
	Kind          string  `yaml:"kind,omitempty"`
	EventStart    string  `yaml:"event_start,omitempty"`
	EventEnd      string  `yaml:"event_end,omitempty"`
	ProjectID     *int    `yaml:"project_id,omitempty"`
}

// YAMLInput represents the root structure of the YAML input.
type YAMLInput struct {
	Tasks []YAMLTask `yaml:"tasks"`
}

// Import parses a YAML document and creates its tasks and events
// through the gateway. Returns the number of entities created.
func Import(ctx context.Context, client *api.Client, yamlStr string) (int, error) {
	var input YAMLInput
	if err := yaml.Unmarshal([]byte(yamlStr), &input); err != nil {
		return 0, fmt.Errorf("YAML parse error: %w", err)
	}

	if len(input.Tasks) == 0 {
		return 0, fmt.Errorf("no tasks found in YAML")
	}

	count := 0
	for _, yt := range input.Tasks {
		if err := importTask(ctx, client, yt); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func importTask(ctx context.Context, client *api.Client, yt YAMLTask) error {
	if yt.Kind == string(model.KindEvent) {
		start, err := time.Parse(time.RFC3339, yt.EventStart)
		if err != nil {
			return fmt.Errorf("event %q: bad event_start: %w", yt.Title, err)
		}
		end, err := time.Parse(time.RFC3339, yt.EventEnd)
		if err != nil {
			return fmt.Errorf("event %q: bad event_end: %w", yt.Title, err)
		}
		ev, err := model.NewEvent(yt.Title, start, end, yt.ProjectID)
		if err != nil {
			return fmt.Errorf("event %q: %w", yt.Title, err)
		}
		ev.Description = yt.Description
		if _, err := client.CreateEvent(ctx, ev); err != nil {
			return fmt.Errorf("create event %q: %w", yt.Title, err)
		}
		return nil
	}

	var deadline *time.Time
	if yt.Deadline != "" {
		d, err := time.Parse(model.DateLayout, yt.Deadline)
		if err != nil {
			return fmt.Errorf("task %q: bad deadline: %w", yt.Title, err)
		}
		deadline = &d
	}
	t, err := model.NewTask(yt.Title, deadline, yt.DurationHours, level(yt.Priority), level(yt.Importance), yt.ProjectID)
	if err != nil {
		return fmt.Errorf("task %q: %w", yt.Title, err)
	}
	t.Description = yt.Description
	if _, err := client.CreateTask(ctx, t); err != nil {
		return fmt.Errorf("create task %q: %w", yt.Title, err)
	}
	return nil
}

func level(s string) model.Level {
	switch model.Level(s) {
	case model.LevelLow, model.LevelMedium, model.LevelHigh:
		return model.Level(s)
	default:
		return model.LevelMedium
	}
}
