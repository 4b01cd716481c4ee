package worker

import (
	"context"
	"fmt"
	"sync"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultThreshold = 8 * time.Hour

// TaskStore - то, что нужно воркеру от сервиса задач
type TaskStore interface {
	ListTasks(ctx context.Context) ([]task.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) (bool, error)
}

// ExpiryWorker удаляет задачи, к которым не прикасались дольше порога.
// Очистка выполняется один раз за сессию, повторный вызов ничего не делает
type ExpiryWorker struct {
	store     TaskStore
	threshold time.Duration
	now       func() time.Time

	once sync.Once
}

type Option func(*ExpiryWorker)

func WithThreshold(threshold time.Duration) Option {
	return func(w *ExpiryWorker) {
		if threshold > 0 {
			w.threshold = threshold
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *ExpiryWorker) {
		w.now = now
	}
}

func NewExpiryWorker(store TaskStore, options ...Option) *ExpiryWorker {
	w := &ExpiryWorker{
		store:     store,
		threshold: DefaultThreshold,
		now:       time.Now,
	}

	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *ExpiryWorker) Threshold() time.Duration {
	return w.threshold
}

// Sweep возвращает число удалённых задач
func (w *ExpiryWorker) Sweep(ctx context.Context) int {
	removed := 0
	ran := false

	w.once.Do(func() {
		ran = true
		removed = w.sweep(ctx)
	})

	if !ran {
		logger.Debug("Worker: Очистка уже выполнялась в этой сессии")
	}
	return removed
}

func (w *ExpiryWorker) sweep(ctx context.Context) int {
	start := w.now()

	expired, checked, err := w.collectExpired(ctx, start)
	if err != nil {
		logger.Warn("Worker: ошибка получения задач", zap.Error(err))
		return 0
	}

	removed := 0
	for _, id := range expired {
		deleted, err := w.store.DeleteTask(ctx, id)
		if err != nil {
			logger.Warn("Worker: Ошибка удаления задачи", zap.String("task_id", id.String()), zap.Error(err))
			continue
		}
		if deleted {
			removed++
		}
	}

	logger.Info(
		"Worker: Завершение очистки устаревших задач",
		zap.Duration("threshold", w.threshold),
		zap.Int("checked", checked),
		zap.Int("removed", removed),
	)
	return removed
}

func (w *ExpiryWorker) collectExpired(ctx context.Context, now time.Time) ([]uuid.UUID, int, error) {
	tasks, err := w.store.ListTasks(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("получение задач: %w", err)
	}

	var expired []uuid.UUID
	for _, t := range tasks {
		touched := t.LastActivity()
		if touched.IsZero() {
			continue
		}
		if now.Sub(touched) > w.threshold {
			expired = append(expired, t.ID)
		}
	}
	return expired, len(tasks), nil
}
