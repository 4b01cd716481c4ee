package persistence

import (
	"context"
	"errors"
)

// DefaultKey - ключ, под которым хранится вся доска
const DefaultKey = "taskboard:tasks"

var ErrNotFound = errors.New("значение не найдено")

// BlobStore - хранилище ключ-значение, доска лежит в нём одним документом
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
