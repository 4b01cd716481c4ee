package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"taskBoard/internal/board"
	"taskBoard/internal/config"
	"taskBoard/internal/handlers"
	"taskBoard/internal/logger"
	"taskBoard/internal/middleware"
	"taskBoard/internal/persistence"
	"taskBoard/internal/repository/task/inmemory"
	"taskBoard/internal/service"
	"taskBoard/internal/worker"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TaskRepository
	service    *service.TaskService
	bridge     *persistence.Bridge
	writer     *persistence.Writer
	worker     *worker.ExpiryWorker
	projector  *board.Projector
	shutdowns  []func() // выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init поднимает доску: логгер, хранилище, загрузка, очистка устаревших задач, роутер
func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development, a.config.Logging.Level); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Завершение работы логгирования...")
		logger.Sync()
	})

	store, err := OpenStore(ctx, a.config.Storage)
	if err != nil {
		return fmt.Errorf("открытие хранилища: %w", err)
	}
	a.bridge = persistence.NewBridge(store, a.config.Storage.Key)
	a.shutdowns = append(a.shutdowns, func() {
		if err := a.bridge.Close(); err != nil {
			logger.Error("App: Ошибка закрытия хранилища", err)
		}
	})

	a.writer = persistence.NewWriter(a.bridge, persistence.WithSaveTimeout(a.config.Persistence.SaveTimeout))

	a.repository = inmemory.NewTaskStorage()
	a.service = service.NewTaskService(a.repository, service.WithPersister(a.writer))

	a.load(ctx)

	a.worker = worker.NewExpiryWorker(a.service, worker.WithThreshold(a.config.Expiry.Threshold))
	a.worker.Sweep(ctx)

	a.projector = board.NewProjector(a.service)
	a.router = a.newRouter()

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           otelhttp.NewHandler(a.router, "taskboard"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("App: Инициализация завершена",
		zap.String("addr", a.server.Addr),
		zap.Int("tasks", a.service.Count(ctx)))
	return nil
}

// load не останавливает запуск: при ошибке доска начинается пустой
func (a *App) load(ctx context.Context) {
	tasks, err := a.bridge.Load(ctx)
	if err != nil {
		logger.Error("App: Не удалось загрузить доску, начинаем с пустой", err)
		return
	}

	if err := a.service.Hydrate(ctx, tasks); err != nil {
		logger.Error("App: Не удалось восстановить задачи", err)
	}
}

func (a *App) newRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.HTTP.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:         300,
	}))
	if a.config.HTTP.RequestTimeout > 0 {
		r.Use(chimw.Timeout(a.config.HTTP.RequestTimeout))
	}
	r.Use(middleware.RateLimit(a.config.HTTP.RateLimit, a.config.HTTP.RateWindow))

	handler := handlers.NewTaskHandler(a.service, a.projector)
	handler.Routes(r)

	return r
}

// Handler - корневой обработчик, нужен тестам без сетевого порта
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Service() *service.TaskService {
	return a.service
}

// Run обслуживает запросы и пишет снимки в фоне до отмены контекста
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.writer.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), a.config.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("App: Остановка сервера")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close сохраняет последний снимок и освобождает ресурсы
func (a *App) Close() {
	if a.writer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.config.Persistence.SaveTimeout)
		if err := a.writer.Flush(ctx); err != nil {
			logger.Error("App: Последний снимок не сохранён", err)
		}
		cancel()
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
