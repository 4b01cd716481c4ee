package board_test

import (
	"context"
	"errors"
	"taskBoard/internal/board"
	"taskBoard/internal/models/task"
	"taskBoard/internal/repository/task/inmemory"
	"taskBoard/internal/service"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(title string, status task.Status, start string) task.Task {
	return task.Task{ID: uuid.New(), Title: title, Status: status, StartTime: start}
}

func columnTitles(tasks []task.Task) []string {
	res := make([]string, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, t.Title)
	}
	return res
}

// TestBuild тестирует раскладку по колонкам
func TestBuild(t *testing.T) {
	tasks := []task.Task{
		newTask("a", task.StatusDone, ""),
		newTask("b", task.StatusTodo, ""),
		newTask("c", task.StatusInProgress, ""),
		newTask("d", task.StatusTodo, ""),
	}

	b := board.Build(tasks)

	require.Len(t, b.Columns, 3)
	assert.Equal(t, task.StatusTodo, b.Columns[0].Status)
	assert.Equal(t, task.StatusInProgress, b.Columns[1].Status)
	assert.Equal(t, task.StatusDone, b.Columns[2].Status)

	assert.Equal(t, []string{"b", "d"}, columnTitles(b.Column(task.StatusTodo).Tasks))
	assert.Equal(t, 2, b.Column(task.StatusTodo).Count())
	assert.Equal(t, 1, b.Column(task.StatusInProgress).Count())
	assert.Equal(t, 1, b.Column(task.StatusDone).Count())
	assert.Equal(t, 4, b.Total())
}

func TestBuild_Empty(t *testing.T) {
	b := board.Build(nil)

	require.Len(t, b.Columns, 3)
	for _, c := range b.Columns {
		assert.Equal(t, 0, c.Count())
		assert.NotNil(t, c.Tasks)
	}
}

// TestColumn_Chronological тестирует сортировку по времени начала
func TestColumn_Chronological(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []task.Task
		expected []string
	}{
		{
			name: "by start",
			tasks: []task.Task{
				newTask("late", task.StatusTodo, "14:00"),
				newTask("early", task.StatusTodo, "08:30"),
				newTask("mid", task.StatusTodo, "09:15:30"),
			},
			expected: []string{"early", "mid", "late"},
		},
		{
			name: "missing start goes last",
			tasks: []task.Task{
				newTask("none", task.StatusTodo, ""),
				newTask("noon", task.StatusTodo, "12:00"),
				newTask("junk", task.StatusTodo, "lunch"),
				newTask("dawn", task.StatusTodo, "05:00"),
			},
			expected: []string{"dawn", "noon", "none", "junk"},
		},
		{
			name: "stable for equal starts",
			tasks: []task.Task{
				newTask("first", task.StatusTodo, "10:00"),
				newTask("second", task.StatusTodo, "10:00:00"),
				newTask("third", task.StatusTodo, "10:00"),
			},
			expected: []string{"first", "second", "third"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := board.Build(tt.tasks).Column(task.StatusTodo)
			assert.Equal(t, tt.expected, columnTitles(col.Chronological()))
		})
	}
}

// TestColumn_Chronological_KeepsStoreOrder тестирует, что колонка не переупорядочивается
func TestColumn_Chronological_KeepsStoreOrder(t *testing.T) {
	col := board.Build([]task.Task{
		newTask("b", task.StatusTodo, "11:00"),
		newTask("a", task.StatusTodo, "10:00"),
	}).Column(task.StatusTodo)

	_ = col.Chronological()
	assert.Equal(t, []string{"b", "a"}, columnTitles(col.Tasks))
}

type failingSource struct{}

func (failingSource) Revision() uint64 { return 1 }

func (failingSource) Snapshot(context.Context) ([]task.Task, uint64, error) {
	return nil, 0, errors.New("boom")
}

// TestProjector тестирует мемоизацию по ревизии
func TestProjector(t *testing.T) {
	ctx := context.Background()
	svc := service.NewTaskService(inmemory.NewTaskStorage())
	p := board.NewProjector(svc)

	first, err := p.Board(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Total())

	again, err := p.Board(ctx)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, p.Builds())

	created, err := svc.AddTask(ctx, task.NewDraft("A"))
	require.NoError(t, err)

	second, err := p.Board(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, second.Column(task.StatusTodo).Count())
	assert.Equal(t, 2, p.Builds())

	// отказ в смене статуса не меняет ревизию
	_, err = svc.ChangeStatus(ctx, uuid.New(), task.StatusDone)
	require.NoError(t, err)
	_, err = p.Board(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Builds())

	_, err = svc.ChangeStatus(ctx, created.ID, task.StatusDone)
	require.NoError(t, err)
	third, err := p.Board(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, third.Column(task.StatusTodo).Count())
	assert.Equal(t, 1, third.Column(task.StatusDone).Count())
}

func TestProjector_SourceError(t *testing.T) {
	p := board.NewProjector(failingSource{})

	_, err := p.Board(context.Background())
	assert.Error(t, err)
}

// TestBoard_Scenario тестирует колонки после сценария A/B/C
func TestBoard_Scenario(t *testing.T) {
	ctx := context.Background()
	svc := service.NewTaskService(inmemory.NewTaskStorage())
	p := board.NewProjector(svc)

	a, err := svc.AddTask(ctx, task.NewDraft("A", task.WithWindow("09:00:00", "10:00:00")))
	require.NoError(t, err)
	_, err = svc.AddTask(ctx, task.NewDraft("B", task.WithWindow("11:00:00", "12:00:00")))
	require.NoError(t, err)
	_, err = svc.AddTask(ctx, task.NewDraft("C", task.WithWindow("09:30:00", "09:45:00")))
	require.ErrorIs(t, err, service.ErrOverlap)
	_, err = svc.ChangeStatus(ctx, a.ID, task.StatusInProgress)
	require.NoError(t, err)

	b, err := p.Board(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"B"}, columnTitles(b.Column(task.StatusTodo).Tasks))
	assert.Equal(t, []string{"A"}, columnTitles(b.Column(task.StatusInProgress).Tasks))
	assert.Equal(t, 0, b.Column(task.StatusDone).Count())
}
