package dto

import (
	"taskBoard/internal/board"
	"taskBoard/internal/models/task"
	"time"

	"github.com/google/uuid"
)

type SubTaskRequest struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// TaskFormRequest - содержимое формы задачи, одинаковое для создания и редактирования
type TaskFormRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	StartTime   string           `json:"start_time"`
	EndTime     string           `json:"end_time"`
	Subtasks    []SubTaskRequest `json:"subtasks"`
}

type ChangeStatusRequest struct {
	Status task.Status `json:"status"`
}

type SubTaskResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type TaskResponse struct {
	ID            uuid.UUID         `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Status        string            `json:"status"`
	Subtasks      []SubTaskResponse `json:"subtasks"`
	StartTime     string            `json:"start_time,omitempty"`
	EndTime       string            `json:"end_time,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	LastUpdatedAt time.Time         `json:"last_updated_at"`
}

type ColumnResponse struct {
	Status        string         `json:"status"`
	Count         int            `json:"count"`
	Tasks         []TaskResponse `json:"tasks"`
	Chronological []uuid.UUID    `json:"chronological"`
}

type BoardResponse struct {
	Columns []ColumnResponse `json:"columns"`
	Total   int              `json:"total"`
}

func (r TaskFormRequest) ToSubtasks() []task.SubTask {
	if len(r.Subtasks) == 0 {
		return nil
	}

	res := make([]task.SubTask, 0, len(r.Subtasks))
	for _, st := range r.Subtasks {
		res = append(res, task.SubTask{ID: st.ID, Text: st.Text, Completed: st.Completed})
	}
	return res
}

func FromTask(t *task.Task) TaskResponse {
	subtasks := make([]SubTaskResponse, 0, len(t.Subtasks))
	for _, st := range t.Subtasks {
		subtasks = append(subtasks, SubTaskResponse{ID: st.ID, Text: st.Text, Completed: st.Completed})
	}

	return TaskResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		Subtasks:      subtasks,
		StartTime:     t.StartTime,
		EndTime:       t.EndTime,
		CreatedAt:     t.CreatedAt,
		LastUpdatedAt: t.LastUpdatedAt,
	}
}

func FromTaskList(tasks []task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i := range tasks {
		result[i] = FromTask(&tasks[i])
	}
	return result
}

func FromBoard(b *board.Board) BoardResponse {
	res := BoardResponse{
		Columns: make([]ColumnResponse, 0, len(b.Columns)),
		Total:   b.Total(),
	}

	for _, c := range b.Columns {
		chronological := c.Chronological()
		ids := make([]uuid.UUID, 0, len(chronological))
		for _, t := range chronological {
			ids = append(ids, t.ID)
		}

		res.Columns = append(res.Columns, ColumnResponse{
			Status:        string(c.Status),
			Count:         c.Count(),
			Tasks:         FromTaskList(c.Tasks),
			Chronological: ids,
		})
	}
	return res
}
