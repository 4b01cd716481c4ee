package board

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"taskBoard/internal/models/task"
	"taskBoard/internal/timeutil"
)

// Column - задачи одного статуса в порядке хранения
type Column struct {
	Status task.Status
	Tasks  []task.Task
}

func (c Column) Count() int {
	return len(c.Tasks)
}

// Chronological сортирует задачи по времени начала.
// Задачи без начала или с нечитаемым началом идут в конце, равные сохраняют порядок
func (c Column) Chronological() []task.Task {
	sorted := task.CloneAll(c.Tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return startKey(sorted[i]) < startKey(sorted[j])
	})
	return sorted
}

func startKey(t task.Task) int {
	if seconds, ok := timeutil.ToSeconds(t.StartTime); ok {
		return seconds
	}
	return math.MaxInt
}

type Board struct {
	Columns []Column
}

// Build раскладывает задачи по колонкам todo, in-progress, done
func Build(tasks []task.Task) *Board {
	b := &Board{Columns: make([]Column, len(task.Statuses))}
	index := make(map[task.Status]int, len(task.Statuses))

	for i, status := range task.Statuses {
		b.Columns[i] = Column{Status: status, Tasks: []task.Task{}}
		index[status] = i
	}

	for _, t := range tasks {
		i, ok := index[t.Status]
		if !ok {
			continue
		}
		b.Columns[i].Tasks = append(b.Columns[i].Tasks, t.Clone())
	}
	return b
}

func (b *Board) Column(status task.Status) Column {
	for _, c := range b.Columns {
		if c.Status == status {
			return c
		}
	}
	return Column{Status: status}
}

func (b *Board) Total() int {
	total := 0
	for _, c := range b.Columns {
		total += c.Count()
	}
	return total
}

type Source interface {
	Revision() uint64
	Snapshot(ctx context.Context) ([]task.Task, uint64, error)
}

// Projector пересчитывает доску только при смене ревизии хранилища
type Projector struct {
	source Source

	mtx      sync.Mutex
	board    *Board
	revision uint64
	builds   int
}

func NewProjector(source Source) *Projector {
	return &Projector{source: source}
}

// Board возвращает общую копию доски, изменять её нельзя
func (p *Projector) Board(ctx context.Context) (*Board, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.board != nil && p.revision == p.source.Revision() {
		return p.board, nil
	}

	tasks, revision, err := p.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("снимок задач: %w", err)
	}

	p.board = Build(tasks)
	p.revision = revision
	p.builds++
	return p.board, nil
}

// Builds - сколько раз доска собиралась заново
func (p *Projector) Builds() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.builds
}
