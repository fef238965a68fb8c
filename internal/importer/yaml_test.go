package importer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacearound404/planboard/internal/api"
	"github.com/spacearound404/planboard/internal/importer"
	"github.com/spacearound404/planboard/internal/model"
)

type recorded struct {
	path string
	task model.Task
}

func newTestClient(t *testing.T, sink *[]recorded) *api.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var task model.Task
		require.NoError(t, json.NewDecoder(r.Body).Decode(&task))
		*sink = append(*sink, recorded{path: r.URL.Path, task: task})
		task.ID = len(*sink)
		json.NewEncoder(w).Encode(task)
	}))
	t.Cleanup(srv.Close)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return api.NewClient(api.Options{BaseURL: srv.URL, DevToken: token})
}

func TestImportTasksAndEvents(t *testing.T) {
	var got []recorded
	client := newTestClient(t, &got)

	input := `
tasks:
  - title: "Write report"
    description: "Quarterly numbers"
    deadline: "2026-08-10"
    duration_hours: 2.5
    priority: "high"
    importance: "medium"
  - title: "Team sync"
    kind: "event"
    event_start: "2026-08-10T10:00:00Z"
    event_end: "2026-08-10T11:00:00Z"
`
	count, err := importer.Import(context.Background(), client, input)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, got, 2)

	task := got[0]
	assert.Equal(t, "/tasks/", task.path)
	assert.Equal(t, "Write report", task.task.Title)
	require.NotNil(t, task.task.Deadline)
	assert.Equal(t, "2026-08-10", *task.task.Deadline)
	assert.InDelta(t, 2.5, task.task.DurationHours, 1e-9)
	assert.Equal(t, model.LevelHigh, task.task.Priority)

	ev := got[1]
	assert.Equal(t, "/events/", ev.path)
	assert.Equal(t, model.KindEvent, ev.task.Kind)
	require.NotNil(t, ev.task.EventStart)
	assert.Equal(t, "10:00", ev.task.EventStart.UTC().Format("15:04"))
}

func TestImportDefaultsLevelsToMedium(t *testing.T) {
	var got []recorded
	client := newTestClient(t, &got)

	count, err := importer.Import(context.Background(), client, "tasks:\n  - title: \"Plain\"\n")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, model.LevelMedium, got[0].task.Priority)
	assert.Equal(t, model.LevelMedium, got[0].task.Importance)
}

func TestImportRejectsInvalidYAML(t *testing.T) {
	var got []recorded
	client := newTestClient(t, &got)

	_, err := importer.Import(context.Background(), client, "tasks: [unclosed")
	assert.Error(t, err)
	assert.Empty(t, got)
}

func TestImportRejectsEmptyInput(t *testing.T) {
	var got []recorded
	client := newTestClient(t, &got)

	_, err := importer.Import(context.Background(), client, "tasks: []\n")
	assert.Error(t, err)
}

func TestImportStopsOnBadEvent(t *testing.T) {
	var got []recorded
	client := newTestClient(t, &got)

	input := `
tasks:
  - title: "ok"
  - title: "broken"
    kind: "event"
    event_start: "not-a-time"
    event_end: "2026-08-10T11:00:00Z"
`
	count, err := importer.Import(context.Background(), client, input)
	assert.Error(t, err)
	assert.Equal(t, 1, count, "entries before the failure are created")
}
