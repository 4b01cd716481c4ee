package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"taskBoard/internal/app"
	"taskBoard/internal/config"
	"taskBoard/internal/models/task"
	"taskBoard/internal/persistence"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Logging.Development = false
	cfg.Logging.Level = "error"
	cfg.Storage.Path = t.TempDir()
	cfg.Server.Port = "0"
	return cfg
}

func seedFile(t *testing.T, cfg *config.Config, tasks []task.Task) {
	t.Helper()
	bridge := persistence.NewBridge(persistence.NewFileStore(cfg.Storage.Path), cfg.Storage.Key)
	require.NoError(t, bridge.Save(context.Background(), tasks))
}

func loadFile(t *testing.T, cfg *config.Config) []task.Task {
	t.Helper()
	bridge := persistence.NewBridge(persistence.NewFileStore(cfg.Storage.Path), cfg.Storage.Key)
	tasks, err := bridge.Load(context.Background())
	require.NoError(t, err)
	return tasks
}

// TestApp_Lifecycle тестирует загрузку, очистку устаревших задач и сохранение при закрытии
func TestApp_Lifecycle(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	now := time.Now().UTC()
	fresh := task.Task{ID: uuid.New(), Title: "fresh", Status: task.StatusDone, StartTime: "09:00", EndTime: "10:00", CreatedAt: now.Add(-time.Hour), LastUpdatedAt: now.Add(-time.Hour)}
	stale := task.Task{ID: uuid.New(), Title: "stale", Status: task.StatusTodo, CreatedAt: now.Add(-9 * time.Hour), LastUpdatedAt: now.Add(-9 * time.Hour)}
	seedFile(t, cfg, []task.Task{stale, fresh})

	a := app.New(cfg)
	require.NoError(t, a.Init(ctx))

	tasks, err := a.Service().ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, fresh.ID, tasks[0].ID)

	// окно fresh занято
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"title":"clash","start_time":"09:30","end_time":"09:40"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"title":"new","start_time":"10:00","end_time":"11:00"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	a.Close()

	saved := loadFile(t, cfg)
	require.Len(t, saved, 2)
	assert.Equal(t, "fresh", saved[0].Title)
	assert.Equal(t, "new", saved[1].Title)
}

// TestApp_CorruptStorage тестирует запуск с пустой доской при испорченном документе
func TestApp_CorruptStorage(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	store := persistence.NewFileStore(cfg.Storage.Path)
	require.NoError(t, store.Put(ctx, cfg.Storage.Key, []byte("{broken")))

	a := app.New(cfg)
	require.NoError(t, a.Init(ctx))
	defer a.Close()

	assert.Equal(t, 0, a.Service().Count(ctx))
}

func TestApp_Run(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Type = config.StorageMemory

	a := app.New(cfg)
	require.NoError(t, a.Init(context.Background()))
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run не завершился после отмены контекста")
	}
}

func TestResetStorage(t *testing.T) {
	cfg := testConfig(t)
	seedFile(t, cfg, []task.Task{{ID: uuid.New(), Title: "x", Status: task.StatusTodo}})

	require.NoError(t, app.ResetStorage(context.Background(), cfg.Storage))
	assert.Empty(t, loadFile(t, cfg))
}

func TestOpenStore_Unknown(t *testing.T) {
	_, err := app.OpenStore(context.Background(), config.StorageConfig{Type: "etcd"})
	assert.Error(t, err)
}
