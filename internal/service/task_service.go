package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"taskBoard/internal/overlap"
	rep "taskBoard/internal/repository"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService - единственный владелец коллекции задач.
// Все мутации идут под одной блокировкой и применяются целиком или не применяются вовсе
type TaskService struct {
	repo      TaskRepository
	persister Persister
	now       func() time.Time
	newID     func() uuid.UUID

	mtx      sync.RWMutex
	revision uint64
}

func NewTaskService(repo TaskRepository, options ...Option) *TaskService {
	s := &TaskService{
		repo:  repo,
		now:   time.Now,
		newID: uuid.New,
	}

	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

// AddTask создаёт задачу в статусе todo, если её интервал ни с чем не пересекается
func (s *TaskService) AddTask(ctx context.Context, draft task.Draft) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	if conflict, found := overlap.FindConflict(draft.StartTime, draft.EndTime, existing, uuid.Nil); found {
		logger.Info("Service: Пересечение интервалов при создании",
			zap.String("start_time", draft.StartTime),
			zap.String("end_time", draft.EndTime),
			zap.String("conflict_id", conflict.ID.String()))
		return nil, NewOverlapError(draft.StartTime, draft.EndTime, conflict.ID.String(), conflict.StartTime, conflict.EndTime)
	}

	now := s.utcNow()
	newTask := task.Task{
		ID:            s.newID(),
		Title:         draft.Title,
		Description:   draft.Description,
		Status:        task.StatusTodo,
		Subtasks:      normalizeSubtasks(draft.Subtasks),
		StartTime:     draft.StartTime,
		EndTime:       draft.EndTime,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}

	if err := s.repo.Create(ctx, &newTask); err != nil {
		return nil, fmt.Errorf("добавление задачи: %w", err)
	}
	s.commit(ctx)

	logger.Info("Service: Задача создана", zap.String("task_id", newTask.ID.String()))
	return &newTask, nil
}

// UpdateTask заменяет изменяемые поля задачи. id, createdAt и статус сохраняются
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, draft task.Draft) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	if conflict, found := overlap.FindConflict(draft.StartTime, draft.EndTime, existing, id); found {
		logger.Info("Service: Пересечение интервалов при обновлении",
			zap.String("task_id", id.String()),
			zap.String("conflict_id", conflict.ID.String()))
		return nil, NewOverlapError(draft.StartTime, draft.EndTime, conflict.ID.String(), conflict.StartTime, conflict.EndTime)
	}

	updated := *current
	updated.Title = draft.Title
	updated.Description = draft.Description
	updated.Subtasks = normalizeSubtasks(draft.Subtasks)
	updated.StartTime = draft.StartTime
	updated.EndTime = draft.EndTime
	updated.LastUpdatedAt = s.stamp(current)

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	s.commit(ctx)

	return &updated, nil
}

// ChangeStatus переносит задачу в другую колонку.
// lastUpdatedAt не обновляется и пересечения не проверяются: интервал от статуса не зависит.
// Неизвестный id - не ошибка, возвращается nil
func (s *TaskService) ChangeStatus(ctx context.Context, id uuid.UUID, status task.Status) (*task.Task, error) {
	if !status.Valid() {
		return nil, NewValidationError("status", fmt.Sprintf("неизвестный статус %q", status))
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Debug("Service: Смена статуса несуществующей задачи", zap.String("target_id", id.String()))
			return nil, nil
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if current.Status == status {
		return current, nil
	}

	current.Status = status
	if err := s.repo.Update(ctx, current); err != nil {
		return nil, fmt.Errorf("смена статуса: %w", err)
	}
	s.commit(ctx)

	return current, nil
}

// DeleteTask возвращает false, если задачи не было
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("удаление задачи: %w", err)
	}

	if deleted {
		s.commit(ctx)
		logger.Info("Service: Задача удалена", zap.String("task_id", id.String()))
	}
	return deleted, nil
}

// Reset очищает доску целиком
func (s *TaskService) Reset(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if err := s.repo.Reset(ctx); err != nil {
		return fmt.Errorf("очистка доски: %w", err)
	}
	s.commit(ctx)

	logger.Info("Service: Доска очищена")
	return nil
}

// Hydrate подменяет коллекцию загруженными задачами без сохранения
func (s *TaskService) Hydrate(ctx context.Context, tasks []task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	skipped, err := s.repo.ReplaceAll(ctx, tasks)
	if err != nil {
		return fmt.Errorf("загрузка задач: %w", err)
	}
	if skipped > 0 {
		logger.Warn("Service: Пропущены задачи с повторяющимся id", zap.Int("skipped", skipped))
	}
	s.revision++

	logger.Info("Service: Задачи загружены", zap.Int("count", len(tasks)-skipped))
	return nil
}

func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) ListTasksByStatus(ctx context.Context, status task.Status) ([]task.Task, error) {
	if !status.Valid() {
		return nil, NewValidationError("status", fmt.Sprintf("неизвестный статус %q", status))
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tasks, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

// Snapshot возвращает задачи вместе с ревизией, которая растёт с каждой мутацией
func (s *TaskService) Snapshot(ctx context.Context) ([]task.Task, uint64, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, s.revision, nil
}

func (s *TaskService) Revision() uint64 {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.revision
}

func (s *TaskService) Count(ctx context.Context) int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.repo.Count(ctx)
}

// commit вызывается под блокировкой после успешной мутации
func (s *TaskService) commit(ctx context.Context) {
	s.revision++

	if s.persister == nil {
		return
	}

	tasks, err := s.repo.List(ctx)
	if err != nil {
		logger.Error("Service: Не удалось снять снимок для сохранения", err)
		return
	}
	s.persister.Persist(tasks)
}

// stamp не даёт lastUpdatedAt уйти назад, если системные часы переведены
func (s *TaskService) stamp(current *task.Task) time.Time {
	now := s.utcNow()
	if now.Before(current.LastUpdatedAt) {
		now = current.LastUpdatedAt
	}
	if now.Before(current.CreatedAt) {
		now = current.CreatedAt
	}
	return now
}

// utcNow - отметки хранятся в UTC без монотонной части, как их возвращает хранилище
func (s *TaskService) utcNow() time.Time {
	return s.now().UTC()
}

// normalizeSubtasks выдаёт новый id пустым и повторяющимся подзадачам.
// Пустой список хранится как nil, так же как его читает хранилище
func normalizeSubtasks(subtasks []task.SubTask) []task.SubTask {
	if len(subtasks) == 0 {
		return nil
	}

	res := make([]task.SubTask, 0, len(subtasks))
	seen := make(map[string]struct{}, len(subtasks))

	for _, st := range subtasks {
		if _, dup := seen[st.ID]; st.ID == "" || dup {
			st.ID = uuid.NewString()
		}
		seen[st.ID] = struct{}{}
		res = append(res, st)
	}
	return res
}
