package persistence

import (
	"context"
	"sync"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"time"

	"go.uber.org/zap"
)

const DefaultSaveTimeout = 5 * time.Second

type Saver interface {
	Save(ctx context.Context, tasks []task.Task) error
}

// Writer сохраняет снимки доски в фоне.
// В очереди лежит не больше одного снимка: более новый вытесняет ещё не сохранённый
type Writer struct {
	saver       Saver
	saveTimeout time.Duration

	pending chan []task.Task
	mtx     sync.Mutex // Persist
	saveMtx sync.Mutex // одна запись за раз

	failures int
}

type WriterOption func(*Writer)

func WithSaveTimeout(timeout time.Duration) WriterOption {
	return func(w *Writer) {
		if timeout > 0 {
			w.saveTimeout = timeout
		}
	}
}

func NewWriter(saver Saver, options ...WriterOption) *Writer {
	w := &Writer{
		saver:       saver,
		saveTimeout: DefaultSaveTimeout,
		pending:     make(chan []task.Task, 1),
	}

	for _, opt := range options {
		opt(w)
	}
	return w
}

// Persist не блокируется
func (w *Writer) Persist(tasks []task.Task) {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	select {
	case <-w.pending:
		logger.Debug("Persistence: Несохранённый снимок заменён более новым")
	default:
	}
	w.pending <- tasks
}

// Run сохраняет снимки, пока не отменён контекст
func (w *Writer) Run(ctx context.Context) error {
	logger.Info("Persistence: Фоновое сохранение запущено")

	for {
		select {
		case tasks := <-w.pending:
			w.save(ctx, tasks)
		case <-ctx.Done():
			logger.Info("Persistence: Фоновое сохранение останавливается")
			return nil
		}
	}
}

// Flush синхронно сохраняет последний ожидающий снимок, если он есть
func (w *Writer) Flush(ctx context.Context) error {
	select {
	case tasks := <-w.pending:
		return w.save(ctx, tasks)
	default:
		return nil
	}
}

// Failures - число неудачных сохранений за время работы
func (w *Writer) Failures() int {
	w.saveMtx.Lock()
	defer w.saveMtx.Unlock()
	return w.failures
}

// save не откатывает доску и не повторяет запись: память остаётся источником истины
func (w *Writer) save(ctx context.Context, tasks []task.Task) error {
	w.saveMtx.Lock()
	defer w.saveMtx.Unlock()

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.saveTimeout)
	defer cancel()

	if err := w.saver.Save(saveCtx, tasks); err != nil {
		w.failures++
		logger.Error("Persistence: Ошибка сохранения доски", err, zap.Int("count", len(tasks)))
		return err
	}

	logger.Debug("Persistence: Доска сохранена", zap.Int("count", len(tasks)))
	return nil
}
