package service

import (
	"time"

	"github.com/google/uuid"
)

type Option func(*TaskService)

// WithClock подменяет источник времени, используется в тестах и при гидратации
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

func WithPersister(persister Persister) Option {
	return func(s *TaskService) {
		s.persister = persister
	}
}

func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *TaskService) {
		s.newID = newID
	}
}
