package service

import (
	"context"
	"taskBoard/internal/models/task"

	"github.com/google/uuid"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *task.Task) error
	Update(context.Context, *task.Task) error
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	Delete(context.Context, uuid.UUID) (bool, error)
	List(context.Context) ([]task.Task, error)
	ListByStatus(context.Context, task.Status) ([]task.Task, error)
	Count(context.Context) int
	Reset(context.Context) error
	ReplaceAll(context.Context, []task.Task) (int, error)
}

// Persister получает снимок коллекции после каждой успешной мутации.
// Вызов не должен блокироваться: сохранение идёт в фоне
type Persister interface {
	Persist(tasks []task.Task)
}
