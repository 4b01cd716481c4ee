package app

import (
	"context"
	"fmt"
	"taskBoard/internal/config"
	"taskBoard/internal/logger"
	"taskBoard/internal/persistence"

	"go.uber.org/zap"
)

// OpenStore создаёт хранилище по типу из конфигурации
func OpenStore(ctx context.Context, cfg config.StorageConfig) (persistence.BlobStore, error) {
	logger.Info("App: Открытие хранилища", zap.String("type", cfg.Type))

	switch cfg.Type {
	case config.StorageFile:
		return persistence.NewFileStore(cfg.Path), nil
	case config.StorageSQLite:
		return persistence.NewSQLiteStore(ctx, cfg.Path)
	case config.StoragePostgres:
		return persistence.NewPostgresStore(ctx, cfg.URL)
	case config.StorageRedis:
		return persistence.DialRedis(ctx, cfg.RedisAddr)
	case config.StorageMemory:
		return persistence.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("неизвестный тип хранилища %q", cfg.Type)
	}
}

// ResetStorage оставляет в хранилище пустую доску
func ResetStorage(ctx context.Context, cfg config.StorageConfig) error {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("открытие хранилища: %w", err)
	}
	defer store.Close()

	bridge := persistence.NewBridge(store, cfg.Key)
	if err := bridge.Clear(ctx); err != nil {
		return fmt.Errorf("очистка доски: %w", err)
	}

	logger.Info("App: Сохранённая доска очищена", zap.String("key", bridge.Key()))
	return nil
}
