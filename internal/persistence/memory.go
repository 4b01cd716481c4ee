package persistence

import (
	"context"
	"sync"
)

// MemoryStore держит значения в памяти процесса, данные живут до перезапуска
type MemoryStore struct {
	mtx    sync.RWMutex
	values map[string][]byte
	puts   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.values[key] = append([]byte(nil), value...)
	s.puts++
	return nil
}

// Puts - число успешных записей
func (s *MemoryStore) Puts() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.puts
}

func (s *MemoryStore) Close() error {
	return nil
}
