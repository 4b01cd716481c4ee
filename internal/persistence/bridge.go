package persistence

import (
	"context"
	"errors"
	"fmt"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"time"

	"go.uber.org/zap"
)

// Bridge читает и пишет всю коллекцию задач под одним ключом
type Bridge struct {
	store BlobStore
	key   string
}

func NewBridge(store BlobStore, key string) *Bridge {
	if key == "" {
		key = DefaultKey
	}
	return &Bridge{store: store, key: key}
}

func (b *Bridge) Key() string {
	return b.key
}

// Load возвращает пустую коллекцию, если под ключом ничего нет
func (b *Bridge) Load(ctx context.Context) ([]task.Task, error) {
	data, err := b.store.Get(ctx, b.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Info("Persistence: Сохранённой доски нет", zap.String("key", b.key))
			return []task.Task{}, nil
		}
		return nil, fmt.Errorf("чтение доски: %w", err)
	}

	if len(data) == 0 {
		return []task.Task{}, nil
	}

	tasks, err := Decode(data)
	if err != nil {
		return nil, err
	}

	logger.Info("Persistence: Доска загружена", zap.String("key", b.key), zap.Int("count", len(tasks)))
	return tasks, nil
}

func (b *Bridge) Save(ctx context.Context, tasks []task.Task) error {
	start := time.Now()

	data, err := Encode(tasks)
	if err != nil {
		return err
	}

	if err := b.store.Put(ctx, b.key, data); err != nil {
		return fmt.Errorf("запись доски: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Persistence: Медленное сохранение", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// Clear оставляет под ключом пустую доску
func (b *Bridge) Clear(ctx context.Context) error {
	return b.Save(ctx, nil)
}

func (b *Bridge) Close() error {
	return b.store.Close()
}
