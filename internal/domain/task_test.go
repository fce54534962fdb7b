package domain_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskledger/taskledger/internal/domain"
)

func strPtr(s string) *string {
	return &s
}

func newTask(t *testing.T, title string, description *string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(domain.NewTaskID(), title, description)
	require.NoError(t, err)
	return task
}

func TestNewTask(t *testing.T) {
	id := domain.NewTaskID()
	task, err := domain.NewTask(id, "  Write report  ", strPtr("quarterly numbers"))
	require.NoError(t, err)

	assert.True(t, task.ID().Equals(id))
	assert.Equal(t, "Write report", task.Title(), "title is trimmed")
	require.NotNil(t, task.Description())
	assert.Equal(t, "quarterly numbers", *task.Description())
	assert.Equal(t, domain.TaskStatusTodo, task.Status())
	assert.Equal(t, task.CreatedAt(), task.UpdatedAt())
	assert.False(t, task.IsDeleted())

	events := task.RecordedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventNameTaskCreated, events[0].EventName())
	assert.Equal(t, id.String(), events[0].AggregateID())
}

func TestNewTask_NilDescription(t *testing.T) {
	task := newTask(t, "Task A", nil)
	assert.Nil(t, task.Description())
}

func TestNewTask_TitleValidation(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr error
	}{
		{"empty", "", domain.ErrEmptyTitle},
		{"whitespace only", "   \t  ", domain.ErrEmptyTitle},
		{"too long", strings.Repeat("a", 256), domain.ErrTitleTooLong},
		{"too long after trim", " " + strings.Repeat("a", 256) + " ", domain.ErrTitleTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := domain.NewTask(domain.NewTaskID(), tt.title, nil)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, task)
		})
	}
}

func TestNewTask_TitleBoundaries(t *testing.T) {
	task := newTask(t, strings.Repeat("a", 255), nil)
	assert.Len(t, task.Title(), 255)

	// Multi-byte runes count as one character each.
	task = newTask(t, strings.Repeat("é", 255), nil)
	assert.Equal(t, strings.Repeat("é", 255), task.Title())
}

func TestUpdate(t *testing.T) {
	task := newTask(t, "Original", strPtr("old"))

	err := task.Update("  Renamed  ", strPtr("new"))
	require.NoError(t, err)

	assert.Equal(t, "Renamed", task.Title())
	assert.Equal(t, "new", *task.Description())
	assert.False(t, task.UpdatedAt().Before(task.CreatedAt()))

	events := task.RecordedEvents()
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventNameTaskUpdated, events[1].EventName())
}

func TestUpdate_ClearsDescription(t *testing.T) {
	task := newTask(t, "Task", strPtr("something"))

	require.NoError(t, task.Update("Task", nil))
	assert.Nil(t, task.Description())
}

func TestUpdate_InvalidTitleLeavesTaskUnchanged(t *testing.T) {
	task := newTask(t, "Original", strPtr("desc"))
	before := task.UpdatedAt()

	err := task.Update("", strPtr("new"))
	require.ErrorIs(t, err, domain.ErrEmptyTitle)

	assert.Equal(t, "Original", task.Title())
	assert.Equal(t, "desc", *task.Description())
	assert.Equal(t, before, task.UpdatedAt())
	assert.Len(t, task.RecordedEvents(), 1, "no event recorded on failed update")
}

func TestChangeStatus_TransitionTable(t *testing.T) {
	statuses := []domain.TaskStatus{
		domain.TaskStatusTodo,
		domain.TaskStatusInProgress,
		domain.TaskStatusDone,
	}

	// The single rejected edge is todo -> done; everything else is allowed,
	// including no-op self-transitions and reopening a done task.
	for _, from := range statuses {
		for _, to := range statuses {
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				task := taskInStatus(t, from)
				err := task.ChangeStatus(to)

				if from == domain.TaskStatusTodo && to == domain.TaskStatusDone {
					require.ErrorIs(t, err, domain.ErrInvalidTransition)
					assert.Equal(t, from, task.Status(), "status unchanged on rejection")
					return
				}

				require.NoError(t, err)
				assert.Equal(t, to, task.Status())
			})
		}
	}
}

// taskInStatus builds a task and walks it to the wanted status.
func taskInStatus(t *testing.T, status domain.TaskStatus) *domain.Task {
	t.Helper()
	task := newTask(t, "Task", nil)
	switch status {
	case domain.TaskStatusTodo:
	case domain.TaskStatusInProgress:
		require.NoError(t, task.ChangeStatus(domain.TaskStatusInProgress))
	case domain.TaskStatusDone:
		require.NoError(t, task.ChangeStatus(domain.TaskStatusInProgress))
		require.NoError(t, task.ChangeStatus(domain.TaskStatusDone))
	}
	task.ClearRecordedEvents()
	return task
}

func TestChangeStatus_SelfTransitionRecordsEvent(t *testing.T) {
	task := taskInStatus(t, domain.TaskStatusInProgress)

	require.NoError(t, task.ChangeStatus(domain.TaskStatusInProgress))

	events := task.RecordedEvents()
	require.Len(t, events, 1)
	changed, ok := events[0].(domain.TaskStatusChanged)
	require.True(t, ok)
	assert.Equal(t, domain.TaskStatusInProgress, changed.OldStatus)
	assert.Equal(t, domain.TaskStatusInProgress, changed.NewStatus)
}

func TestChangeStatus_RejectionRecordsNoEvent(t *testing.T) {
	task := taskInStatus(t, domain.TaskStatusTodo)

	require.ErrorIs(t, task.ChangeStatus(domain.TaskStatusDone), domain.ErrInvalidTransition)
	assert.Empty(t, task.RecordedEvents())
}

func TestDelete(t *testing.T) {
	task := taskInStatus(t, domain.TaskStatusInProgress)

	require.NoError(t, task.Delete())
	assert.True(t, task.IsDeleted())

	events := task.RecordedEvents()
	require.Len(t, events, 1)
	deleted, ok := events[0].(domain.TaskDeleted)
	require.True(t, ok)
	assert.Equal(t, "Task", deleted.Title)
	assert.Equal(t, domain.TaskStatusInProgress, deleted.Status)
}

func TestDelete_DoneTaskRejected(t *testing.T) {
	task := taskInStatus(t, domain.TaskStatusDone)

	require.ErrorIs(t, task.Delete(), domain.ErrTaskCompleted)
	assert.False(t, task.IsDeleted())
	assert.Empty(t, task.RecordedEvents())
}

func TestUpdatedAtMonotonic(t *testing.T) {
	task := newTask(t, "Task", nil)
	previous := task.UpdatedAt()

	mutations := []func() error{
		func() error { return task.Update("Task renamed", nil) },
		func() error { return task.ChangeStatus(domain.TaskStatusInProgress) },
		func() error { return task.ChangeStatus(domain.TaskStatusDone) },
	}
	for _, mutate := range mutations {
		require.NoError(t, mutate())
		assert.False(t, task.UpdatedAt().Before(previous))
		previous = task.UpdatedAt()
	}
	assert.False(t, previous.Before(task.CreatedAt()))
}

func TestEventRecordingOrder(t *testing.T) {
	task := newTask(t, "Task", nil)
	require.NoError(t, task.Update("Task renamed", nil))
	require.NoError(t, task.ChangeStatus(domain.TaskStatusInProgress))
	require.NoError(t, task.Delete())

	events := task.RecordedEvents()
	require.Len(t, events, 4)
	names := []string{
		events[0].EventName(),
		events[1].EventName(),
		events[2].EventName(),
		events[3].EventName(),
	}
	assert.Equal(t, []string{
		domain.EventNameTaskCreated,
		domain.EventNameTaskUpdated,
		domain.EventNameTaskStatusChanged,
		domain.EventNameTaskDeleted,
	}, names)
}

func TestClearRecordedEvents(t *testing.T) {
	task := newTask(t, "Task", nil)
	require.NotEmpty(t, task.RecordedEvents())

	task.ClearRecordedEvents()
	assert.Empty(t, task.RecordedEvents())
}

func TestReconstituteTaskRecordsNoEvent(t *testing.T) {
	original := newTask(t, "Task", strPtr("desc"))

	restored := domain.ReconstituteTask(
		original.ID(),
		original.Title(),
		original.Description(),
		original.Status(),
		original.CreatedAt(),
		original.UpdatedAt(),
	)

	assert.Empty(t, restored.RecordedEvents())
	assert.Equal(t, original.Title(), restored.Title())
	assert.Equal(t, original.Status(), restored.Status())
}

func TestEventPayloads(t *testing.T) {
	task := newTask(t, "Task", strPtr("desc"))
	require.NoError(t, task.ChangeStatus(domain.TaskStatusInProgress))

	events := task.RecordedEvents()
	require.Len(t, events, 2)

	payload, err := events[0].Payload()
	require.NoError(t, err)
	var created struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		Status      string  `json:"status"`
	}
	require.NoError(t, json.Unmarshal(payload, &created))
	assert.Equal(t, "Task", created.Title)
	require.NotNil(t, created.Description)
	assert.Equal(t, "desc", *created.Description)
	assert.Equal(t, "todo", created.Status)

	payload, err = events[1].Payload()
	require.NoError(t, err)
	var changed struct {
		OldStatus string `json:"old_status"`
		NewStatus string `json:"new_status"`
	}
	require.NoError(t, json.Unmarshal(payload, &changed))
	assert.Equal(t, "todo", changed.OldStatus)
	assert.Equal(t, "in_progress", changed.NewStatus)
}
