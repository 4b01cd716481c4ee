package inmemory

import (
	"context"
	"sync"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	repo "taskBoard/internal/repository"

	"github.com/google/uuid"
)

// TaskStorage хранит задачи в порядке добавления.
// Наружу отдаются только копии, чтобы никто не менял задачи в обход сервиса
type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

// Create добавляет задачу в конец коллекции
func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[taskToCreate.ID]; ok {
		return repo.ErrAlreadyExists
	}

	stored := taskToCreate.Clone()
	s.storage[stored.ID] = &stored
	s.ids = append(s.ids, stored.ID)
	return nil
}

// Update заменяет запись целиком, позиция в коллекции сохраняется
func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[taskToUpdate.ID]; !ok {
		return repo.ErrNotFound
	}

	stored := taskToUpdate.Clone()
	s.storage[stored.ID] = &stored
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	res := taskToGet.Clone()
	return &res, nil
}

// Delete возвращает false, если задачи не было
func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return false, nil
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return true, nil
}

// List - все задачи в порядке добавления
func (s *TaskStorage) List(ctx context.Context) ([]task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.storage[id].Clone())
	}
	return res, nil
}

// получение задач с определённым статусом
func (s *TaskStorage) ListByStatus(ctx context.Context, status task.Status) ([]task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []task.Task{}
	for _, id := range s.ids {
		taskToGet := s.storage[id]
		if taskToGet.Status != status {
			continue
		}
		res = append(res, taskToGet.Clone())
	}
	return res, nil
}

func (s *TaskStorage) Count(ctx context.Context) int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.ids)
}

func (s *TaskStorage) Reset(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage = make(map[uuid.UUID]*task.Task)
	s.ids = []uuid.UUID{}
	return nil
}

// ReplaceAll заменяет коллекцию целиком, при повторе id остаётся первая запись
func (s *TaskStorage) ReplaceAll(ctx context.Context, tasks []task.Task) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	storage := make(map[uuid.UUID]*task.Task, len(tasks))
	ids := make([]uuid.UUID, 0, len(tasks))
	skipped := 0

	for _, t := range tasks {
		if _, ok := storage[t.ID]; ok {
			skipped++
			continue
		}
		stored := t.Clone()
		storage[stored.ID] = &stored
		ids = append(ids, stored.ID)
	}

	s.storage = storage
	s.ids = ids
	return skipped, nil
}
