package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        Status    `json:"status"`
	Subtasks      []SubTask `json:"subtasks"`
	StartTime     string    `json:"startTime,omitempty"`
	EndTime       string    `json:"endTime,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

type SubTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type Status string

const StatusTodo Status = "todo"
const StatusInProgress Status = "in-progress"
const StatusDone Status = "done"

// порядок колонок на доске
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// HasWindow - заданы обе границы интервала
func (t *Task) HasWindow() bool {
	return t.StartTime != "" && t.EndTime != ""
}

// LastActivity - время последнего изменения, для старых записей без lastUpdatedAt берётся createdAt
func (t *Task) LastActivity() time.Time {
	if !t.LastUpdatedAt.IsZero() {
		return t.LastUpdatedAt
	}
	return t.CreatedAt
}

// Clone - глубокая копия, подзадачи не разделяются с оригиналом
func (t Task) Clone() Task {
	if t.Subtasks != nil {
		subtasks := make([]SubTask, len(t.Subtasks))
		copy(subtasks, t.Subtasks)
		t.Subtasks = subtasks
	}
	return t
}

func CloneAll(tasks []Task) []Task {
	res := make([]Task, len(tasks))
	for i, t := range tasks {
		res[i] = t.Clone()
	}
	return res
}
