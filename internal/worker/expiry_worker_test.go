package worker_test

import (
	"context"
	"errors"
	"taskBoard/internal/models/task"
	"taskBoard/internal/persistence"
	"taskBoard/internal/repository/task/inmemory"
	"taskBoard/internal/service"
	"taskBoard/internal/worker"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// seed кладёт задачи с заданным возрастом через гидратацию, минуя часы сервиса
func seed(t *testing.T, ages map[string]time.Duration) (*service.TaskService, map[string]uuid.UUID) {
	t.Helper()

	svc := service.NewTaskService(inmemory.NewTaskStorage())
	ids := make(map[string]uuid.UUID, len(ages))
	tasks := make([]task.Task, 0, len(ages))

	for title, age := range ages {
		id := uuid.New()
		ids[title] = id
		stamp := base.Add(-age)
		tasks = append(tasks, task.Task{
			ID:            id,
			Title:         title,
			Status:        task.StatusTodo,
			CreatedAt:     stamp,
			LastUpdatedAt: stamp,
		})
	}

	require.NoError(t, svc.Hydrate(context.Background(), tasks))
	return svc, ids
}

func titles(t *testing.T, svc *service.TaskService) []string {
	t.Helper()
	tasks, err := svc.ListTasks(context.Background())
	require.NoError(t, err)

	res := make([]string, 0, len(tasks))
	for _, tt := range tasks {
		res = append(res, tt.Title)
	}
	return res
}

// TestExpiryWorker_Sweep тестирует удаление задач старше порога
func TestExpiryWorker_Sweep(t *testing.T) {
	svc, _ := seed(t, map[string]time.Duration{
		"nine hours":  9 * time.Hour,
		"seven hours": 7 * time.Hour,
		"fresh":       time.Minute,
	})

	w := worker.NewExpiryWorker(svc, worker.WithClock(func() time.Time { return base }))

	removed := w.Sweep(context.Background())

	assert.Equal(t, 1, removed)
	assert.ElementsMatch(t, []string{"seven hours", "fresh"}, titles(t, svc))
}

// TestExpiryWorker_Sweep_Boundary тестирует, что ровно восемь часов - ещё не устаревание
func TestExpiryWorker_Sweep_Boundary(t *testing.T) {
	svc, _ := seed(t, map[string]time.Duration{
		"exactly":  8 * time.Hour,
		"just over": 8*time.Hour + time.Second,
	})

	w := worker.NewExpiryWorker(svc, worker.WithClock(func() time.Time { return base }))

	assert.Equal(t, 1, w.Sweep(context.Background()))
	assert.Equal(t, []string{"exactly"}, titles(t, svc))
}

// TestExpiryWorker_Sweep_OncePerSession тестирует, что повторная очистка ничего не делает
func TestExpiryWorker_Sweep_OncePerSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := seed(t, map[string]time.Duration{"old": 9 * time.Hour})

	now := base
	w := worker.NewExpiryWorker(svc, worker.WithClock(func() time.Time { return now }))

	require.Equal(t, 1, w.Sweep(ctx))

	require.NoError(t, svc.Hydrate(ctx, []task.Task{{
		ID:            uuid.New(),
		Title:         "also old",
		CreatedAt:     base.Add(-24 * time.Hour),
		LastUpdatedAt: base.Add(-24 * time.Hour),
	}}))
	now = base.Add(48 * time.Hour)

	assert.Equal(t, 0, w.Sweep(ctx))
	assert.Equal(t, []string{"also old"}, titles(t, svc))
}

// TestExpiryWorker_Sweep_Timestamps тестирует выбор метки времени
func TestExpiryWorker_Sweep_Timestamps(t *testing.T) {
	ctx := context.Background()
	svc := service.NewTaskService(inmemory.NewTaskStorage())

	// старый createdAt и испорченный lastUpdatedAt, как их читает хранилище
	corrupt, err := persistence.Decode([]byte(`{"tasks":[{"id":"` + uuid.NewString() +
		`","title":"corrupt update","createdAt":"` + base.Add(-9*time.Hour).Format(time.RFC3339Nano) +
		`","lastUpdatedAt":"not-a-date"}]}`))
	require.NoError(t, err)
	require.Len(t, corrupt, 1)

	require.NoError(t, svc.Hydrate(ctx, append([]task.Task{
		// нет lastUpdatedAt, createdAt старый
		{ID: uuid.New(), Title: "legacy old", CreatedAt: base.Add(-10 * time.Hour)},
		// старый createdAt, но недавнее изменение
		{ID: uuid.New(), Title: "recently edited", CreatedAt: base.Add(-30 * time.Hour), LastUpdatedAt: base.Add(-time.Hour)},
		// нет меток совсем
		{ID: uuid.New(), Title: "no stamps"},
	}, corrupt...)))

	w := worker.NewExpiryWorker(svc, worker.WithClock(func() time.Time { return base }))

	assert.Equal(t, 1, w.Sweep(ctx))
	assert.ElementsMatch(t, []string{"recently edited", "no stamps", "corrupt update"}, titles(t, svc))
}

func TestExpiryWorker_WithThreshold(t *testing.T) {
	svc, _ := seed(t, map[string]time.Duration{
		"two hours": 2 * time.Hour,
		"ten mins":  10 * time.Minute,
	})

	w := worker.NewExpiryWorker(svc,
		worker.WithClock(func() time.Time { return base }),
		worker.WithThreshold(time.Hour),
	)
	assert.Equal(t, time.Hour, w.Threshold())

	assert.Equal(t, 1, w.Sweep(context.Background()))
	assert.Equal(t, []string{"ten mins"}, titles(t, svc))

	assert.Equal(t, worker.DefaultThreshold, worker.NewExpiryWorker(svc, worker.WithThreshold(0)).Threshold())
}

// MockStore - мок хранилища для проверки ошибок
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListTasks(ctx context.Context) ([]task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockStore) DeleteTask(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// TestExpiryWorker_Sweep_StoreErrors тестирует, что ошибки хранилища не прерывают очистку
func TestExpiryWorker_Sweep_StoreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("list fails", func(t *testing.T) {
		store := new(MockStore)
		store.On("ListTasks", ctx).Return(nil, errors.New("boom"))

		w := worker.NewExpiryWorker(store, worker.WithClock(func() time.Time { return base }))
		assert.Equal(t, 0, w.Sweep(ctx))
		store.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything)
	})

	t.Run("one delete fails", func(t *testing.T) {
		first, second := uuid.New(), uuid.New()
		old := base.Add(-12 * time.Hour)

		store := new(MockStore)
		store.On("ListTasks", ctx).Return([]task.Task{
			{ID: first, CreatedAt: old, LastUpdatedAt: old},
			{ID: second, CreatedAt: old, LastUpdatedAt: old},
		}, nil)
		store.On("DeleteTask", ctx, first).Return(false, errors.New("boom"))
		store.On("DeleteTask", ctx, second).Return(true, nil)

		w := worker.NewExpiryWorker(store, worker.WithClock(func() time.Time { return base }))
		assert.Equal(t, 1, w.Sweep(ctx))
		store.AssertExpectations(t)
	})
}
