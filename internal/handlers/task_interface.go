package handlers

import (
	"context"
	"taskBoard/internal/board"
	"taskBoard/internal/models/task"

	"github.com/google/uuid"
)

type Service interface {
	HealthCheck(context.Context) error
	AddTask(context.Context, task.Draft) (*task.Task, error)
	UpdateTask(context.Context, uuid.UUID, task.Draft) (*task.Task, error)
	ChangeStatus(context.Context, uuid.UUID, task.Status) (*task.Task, error)
	DeleteTask(context.Context, uuid.UUID) (bool, error)
	Reset(context.Context) error
	GetTask(context.Context, uuid.UUID) (*task.Task, error)
	ListTasks(context.Context) ([]task.Task, error)
	ListTasksByStatus(context.Context, task.Status) ([]task.Task, error)
}

type BoardProjector interface {
	Board(context.Context) (*board.Board, error)
}
