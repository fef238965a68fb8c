package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spacearound404/planboard/internal/model"
	"github.com/spacearound404/planboard/internal/prompt"
)

func TestBreakdownIncludesTaskFields(t *testing.T) {
	deadline := "2026-08-10"
	out := prompt.Breakdown(model.Task{
		Title:         "Launch campaign",
		Description:   "Q3 push",
		Deadline:      &deadline,
		DurationHours: 6,
	})

	assert.Contains(t, out, "Launch campaign")
	assert.Contains(t, out, "Q3 push")
	assert.Contains(t, out, "2026-08-10")
	assert.Contains(t, out, "Estimated hours: 6")
	assert.Contains(t, out, "```yaml")
}

func TestBreakdownOmitsEmptyFields(t *testing.T) {
	out := prompt.Breakdown(model.Task{Title: "Bare"})

	assert.Contains(t, out, "Bare")
	assert.NotContains(t, out, "Description:")
	assert.NotContains(t, out, "Deadline:")
	assert.NotContains(t, out, "Estimated hours:")
}
